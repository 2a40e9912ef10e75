package store

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()

	badgerStore, err := OpenBadger(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open badger store: %v", err)
	}
	t.Cleanup(func() { badgerStore.Close() })

	mr := miniredis.RunT(t)
	redisStore := NewRedisWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { redisStore.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"badger": badgerStore,
		"redis":  redisStore,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrKeyNotFound) {
				t.Errorf("expected ErrKeyNotFound for missing key, got %v", err)
			}

			if err := s.Set(ctx, "slot", []byte(`{"a":1}`)); err != nil {
				t.Fatalf("Set failed: %v", err)
			}

			got, err := s.Get(ctx, "slot")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if string(got) != `{"a":1}` {
				t.Errorf("expected stored value back, got %q", got)
			}

			if err := s.Set(ctx, "slot", []byte(`{"a":2}`)); err != nil {
				t.Fatalf("overwrite failed: %v", err)
			}
			got, err = s.Get(ctx, "slot")
			if err != nil {
				t.Fatalf("Get after overwrite failed: %v", err)
			}
			if string(got) != `{"a":2}` {
				t.Errorf("expected overwritten value, got %q", got)
			}

			if err := s.Delete(ctx, "slot"); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			if _, err := s.Get(ctx, "slot"); !errors.Is(err, ErrKeyNotFound) {
				t.Errorf("expected ErrKeyNotFound after delete, got %v", err)
			}
		})
	}
}

func TestStoreDeleteMissingKey(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Delete(ctx, "never-set"); err != nil {
				t.Errorf("deleting a missing key should be a no-op, got %v", err)
			}
		})
	}
}
