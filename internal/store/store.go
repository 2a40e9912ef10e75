package store

import (
	"context"
	"errors"
	"fmt"

	"wonder-electronics/internal/config"
)

var (
	// ErrKeyNotFound is returned when a slot has never been written.
	ErrKeyNotFound = errors.New("key not found")
)

// Store is the flat string-keyed persistence layer holding every slot of
// site state (products, users, orders, ...). Values are opaque bytes;
// serialization is the repository layer's concern. Writes overwrite the
// full slot unconditionally, mirroring the last-writer-wins contract of
// the underlying data model.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open creates the configured backend.
func Open(cfg config.StoreConfig, redisCfg config.RedisConfig) (Store, error) {
	switch cfg.Driver {
	case "badger":
		return OpenBadger(cfg.Path)
	case "redis":
		return OpenRedis(redisCfg)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
