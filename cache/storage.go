package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Storage is the key/value storage capability exposed by an application's
// cache layer. Values are opaque byte payloads.
type Storage interface {
	GetItem(ctx context.Context, key string) ([]byte, bool, error)
	HasItem(ctx context.Context, key string) (bool, error)
	SetItem(ctx context.Context, key string, value []byte) error
	RemoveItem(ctx context.Context, key string) error
}

// FlushableStorage can drop every stored item.
type FlushableStorage interface {
	Storage
	Flush(ctx context.Context) error
}

// SizedStorage reports how many items it holds.
type SizedStorage interface {
	Size() int
}

// Stats summarises StorageCache usage.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Entries int // -1 when the storage cannot report its size
	Uptime  time.Duration
}

// Cache is the record cache surface used by repositories and commands.
type Cache interface {
	Fetch(ctx context.Context, id string) (any, bool, error)
	FetchInto(ctx context.Context, id string, dst any) (bool, error)
	Contains(ctx context.Context, id string) (bool, error)
	Save(ctx context.Context, id string, data any) error
	Delete(ctx context.Context, id string) error
	Flush(ctx context.Context) error
	Stats() Stats
}

// ErrFlushUnsupported is returned by Flush when the storage cannot flush.
var ErrFlushUnsupported = errors.New("storage does not support flush")

// StorageCache bridges a Storage into a Cache, encoding values with msgpack.
type StorageCache struct {
	storage Storage
	hits    atomic.Uint64
	misses  atomic.Uint64
	started time.Time
}

var _ Cache = (*StorageCache)(nil)

// NewStorageCache wraps storage.
func NewStorageCache(storage Storage) *StorageCache {
	return &StorageCache{storage: storage, started: time.Now()}
}

// Storage returns the wrapped storage.
func (c *StorageCache) Storage() Storage {
	return c.storage
}

// Fetch returns the decoded value stored under id. Maps decode as
// map[string]any; use FetchInto for concrete types.
func (c *StorageCache) Fetch(ctx context.Context, id string) (any, bool, error) {
	var out any
	found, err := c.FetchInto(ctx, id, &out)
	if err != nil || !found {
		return nil, found, err
	}
	return out, true, nil
}

// FetchInto decodes the value stored under id into dst.
func (c *StorageCache) FetchInto(ctx context.Context, id string, dst any) (bool, error) {
	payload, found, err := c.storage.GetItem(ctx, id)
	if err != nil {
		return false, err
	}
	if !found {
		c.misses.Add(1)
		return false, nil
	}
	c.hits.Add(1)

	if err := msgpack.Unmarshal(payload, dst); err != nil {
		return false, fmt.Errorf("%w: key %q: %w", ErrDecode, id, err)
	}
	return true, nil
}

// Contains reports whether id is stored.
func (c *StorageCache) Contains(ctx context.Context, id string) (bool, error) {
	return c.storage.HasItem(ctx, id)
}

// Save encodes data and stores it under id.
func (c *StorageCache) Save(ctx context.Context, id string, data any) error {
	payload, err := msgpack.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode cache value for key %q: %w", id, err)
	}
	return c.storage.SetItem(ctx, id, payload)
}

// Delete removes id.
func (c *StorageCache) Delete(ctx context.Context, id string) error {
	return c.storage.RemoveItem(ctx, id)
}

// Flush drops everything when the storage supports it.
func (c *StorageCache) Flush(ctx context.Context) error {
	f, ok := c.storage.(FlushableStorage)
	if !ok {
		return ErrFlushUnsupported
	}
	return f.Flush(ctx)
}

// Stats returns hit/miss counters and, when available, the entry count.
func (c *StorageCache) Stats() Stats {
	entries := -1
	if s, ok := c.storage.(SizedStorage); ok {
		entries = s.Size()
	}
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: entries,
		Uptime:  time.Since(c.started),
	}
}
