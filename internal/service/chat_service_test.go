package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"wonder-electronics/internal/domain"
	"wonder-electronics/internal/events"
	"wonder-electronics/internal/repository"
	"wonder-electronics/internal/store"
)

func newTestChatService() ChatService {
	s := store.NewMemory()
	return NewChatService(repository.NewChatRepository(s, events.NewBus()))
}

func TestSendRejectsEmptyMessages(t *testing.T) {
	svc := newTestChatService()

	if _, err := svc.Send(context.Background(), "u1", "Alice", "   ", domain.SenderUser); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestSendNormalizesSender(t *testing.T) {
	svc := newTestChatService()
	ctx := context.Background()

	msg, err := svc.Send(ctx, "u1", "Alice", "hello", "mallory")
	if err != nil {
		t.Fatalf("sending message: %v", err)
	}
	if msg.Sender != domain.SenderUser {
		t.Errorf("unrecognized sender should fall back to %q, got %q", domain.SenderUser, msg.Sender)
	}

	msg, err = svc.Send(ctx, "u1", "Support", "hi there", domain.SenderAdmin)
	if err != nil {
		t.Fatalf("sending admin message: %v", err)
	}
	if msg.Sender != domain.SenderAdmin {
		t.Errorf("admin sender dropped: got %q", msg.Sender)
	}
}

func TestMessagesFiltersByUser(t *testing.T) {
	svc := newTestChatService()
	ctx := context.Background()

	for _, m := range []struct{ userID, text string }{
		{"u1", "first from u1"},
		{"u2", "from u2"},
		{"u1", "second from u1"},
	} {
		if _, err := svc.Send(ctx, m.userID, "", m.text, domain.SenderUser); err != nil {
			t.Fatalf("sending message: %v", err)
		}
	}

	conversation, err := svc.Messages(ctx, "u1")
	if err != nil {
		t.Fatalf("listing messages: %v", err)
	}
	if len(conversation) != 2 {
		t.Fatalf("got %d messages for u1, want 2", len(conversation))
	}
	if conversation[0].Text != "first from u1" || conversation[1].Text != "second from u1" {
		t.Errorf("conversation out of order: %+v", conversation)
	}
}

func TestSessionsGroupAndSort(t *testing.T) {
	svc := newTestChatService()
	ctx := context.Background()

	if _, err := svc.Send(ctx, "u1", "Alice", "older conversation", domain.SenderUser); err != nil {
		t.Fatalf("sending message: %v", err)
	}
	if _, err := svc.Send(ctx, "u2", "Bob", "newer conversation", domain.SenderUser); err != nil {
		t.Fatalf("sending message: %v", err)
	}
	if _, err := svc.Send(ctx, "u2", "", "reply keeps the name", domain.SenderAdmin); err != nil {
		t.Fatalf("sending reply: %v", err)
	}

	sessions, err := svc.Sessions(ctx)
	if err != nil {
		t.Fatalf("listing sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[0].UserID != "u2" {
		t.Errorf("most recently active session first: got %s", sessions[0].UserID)
	}
	if sessions[0].UserName != "Bob" {
		t.Errorf("anonymous reply must not blank the session name, got %q", sessions[0].UserName)
	}
	if len(sessions[0].Messages) != 2 {
		t.Errorf("u2 session has %d messages, want 2", len(sessions[0].Messages))
	}
}

func TestNewGuestID(t *testing.T) {
	a, b := NewGuestID(), NewGuestID()
	if !strings.HasPrefix(a, "guest_") {
		t.Errorf("guest id %q missing prefix", a)
	}
	if a == b {
		t.Error("guest ids must be unique")
	}
}
