package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/colorboard/apiserver/config"
)

// ErrNotFound is returned when a key does not exist.
var ErrNotFound = errors.New("key not found")

// Entry is a single key/value pair returned by Scan.
type Entry struct {
	Key   string
	Value []byte
}

// Store is an ordered, prefix-scannable key-value store with atomic
// single-key operations. It is the only source of truth for the service.
type Store interface {
	// Get returns the value stored under key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error
	// PutIfAbsent stores value only when key is absent, atomically.
	// It reports whether the write happened.
	PutIfAbsent(ctx context.Context, key string, value []byte) (bool, error)
	// Delete removes key and reports whether it existed.
	Delete(ctx context.Context, key string) (bool, error)
	// Incr atomically increments the counter under key and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)
	// Scan returns every entry whose key starts with prefix, in ascending key order.
	Scan(ctx context.Context, prefix string) ([]Entry, error)
	Close() error
}

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// OpenStore opens the key-value engine selected by cfg.Store.Backend.
func OpenStore(ctx context.Context, cfg config.Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Store.Backend)) {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendRedis:
		return OpenRedisStore(ctx, cfg.Redis)
	case BackendPostgres:
		conn, err := Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(conn), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
