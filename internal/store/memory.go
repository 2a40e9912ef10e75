package store

import (
	"context"
	"sync"
)

// memoryStore is a process-local Store used in tests.
type memoryStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() Store {
	return &memoryStore{slots: make(map[string][]byte)}
}

func (s *memoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.slots[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (s *memoryStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	s.slots[key] = stored
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.slots, key)
	return nil
}

func (s *memoryStore) Close() error {
	return nil
}
