package events

import (
	"testing"
	"time"
)

func TestBusFansOut(t *testing.T) {
	bus := NewBus()

	ch1, cancel1 := bus.Subscribe()
	ch2, cancel2 := bus.Subscribe()
	defer cancel1()
	defer cancel2()

	bus.Publish(Event{Entity: EntityProduct, Action: ActionCreated, ID: "p1"})

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case got := <-ch:
			if got.Entity != EntityProduct || got.Action != ActionCreated || got.ID != "p1" {
				t.Errorf("subscriber %d got %+v", i, got)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d never received the event", i)
		}
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	bus := NewBus()

	ch, cancel := bus.Subscribe()
	cancel()

	// Publishing after cancel must not panic on the closed channel.
	bus.Publish(Event{Entity: EntityOrder, Action: ActionUpdated})

	if _, ok := <-ch; ok {
		t.Error("cancelled subscription still delivered an event")
	}

	// Cancel is idempotent.
	cancel()
}

func TestPublishNeverBlocks(t *testing.T) {
	bus := NewBus()

	_, cancel := bus.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Overflow the subscriber's buffer without ever draining it.
		for i := 0; i < 1000; i++ {
			bus.Publish(Event{Entity: EntityChatMessage, Action: ActionCreated})
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}
