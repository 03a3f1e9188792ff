package cache

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStorage struct {
	mu    sync.Mutex
	items map[string][]byte
	err   error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{items: map[string][]byte{}}
}

func (m *memoryStorage) GetItem(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, false, m.err
	}
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *memoryStorage) HasItem(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.items[key]
	return ok, nil
}

func (m *memoryStorage) SetItem(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *memoryStorage) RemoveItem(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

type flushableMemoryStorage struct {
	*memoryStorage
}

func (f flushableMemoryStorage) Flush(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = map[string][]byte{}
	return nil
}

func (f flushableMemoryStorage) Size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

type cachedUser struct {
	ID    string `msgpack:"id"`
	Email string `msgpack:"email"`
}

func TestStorageCache_SaveFetch(t *testing.T) {
	ctx := context.Background()
	c := NewStorageCache(newMemoryStorage())

	require.NoError(t, c.Save(ctx, "user:1", cachedUser{ID: "1", Email: "a@b.com"}))

	var got cachedUser
	found, err := c.FetchInto(ctx, "user:1", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, cachedUser{ID: "1", Email: "a@b.com"}, got)

	raw, found, err := c.Fetch(ctx, "user:1")
	require.NoError(t, err)
	require.True(t, found)
	asMap, ok := raw.(map[string]any)
	require.True(t, ok, "expected map, got %T", raw)
	assert.Equal(t, "a@b.com", asMap["email"])

	ok, err = c.Contains(ctx, "user:1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStorageCache_MissAndStats(t *testing.T) {
	ctx := context.Background()
	c := NewStorageCache(newMemoryStorage())

	_, found, err := c.Fetch(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Save(ctx, "k", "v"))
	_, _, err = c.Fetch(ctx, "k")
	require.NoError(t, err)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, -1, stats.Entries)
}

func TestStorageCache_Delete(t *testing.T) {
	ctx := context.Background()
	c := NewStorageCache(newMemoryStorage())

	require.NoError(t, c.Save(ctx, "k", "v"))
	require.NoError(t, c.Delete(ctx, "k"))

	ok, err := c.Contains(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStorageCache_Flush(t *testing.T) {
	ctx := context.Background()

	plain := NewStorageCache(newMemoryStorage())
	assert.ErrorIs(t, plain.Flush(ctx), ErrFlushUnsupported)

	storage := flushableMemoryStorage{newMemoryStorage()}
	c := NewStorageCache(storage)
	require.NoError(t, c.Save(ctx, "a", 1))
	require.NoError(t, c.Save(ctx, "b", 2))
	assert.Equal(t, 2, c.Stats().Entries)

	require.NoError(t, c.Flush(ctx))
	assert.Equal(t, 0, c.Stats().Entries)
}

func TestStorageCache_DecodeError(t *testing.T) {
	ctx := context.Background()
	storage := newMemoryStorage()
	storage.items["bad"] = []byte{0xc1} // reserved msgpack code

	c := NewStorageCache(storage)
	var out cachedUser
	_, err := c.FetchInto(ctx, "bad", &out)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestStorageCache_StorageErrorPropagates(t *testing.T) {
	storage := newMemoryStorage()
	storage.err = errors.New("redis down")

	_, _, err := NewStorageCache(storage).Fetch(context.Background(), "k")
	assert.EqualError(t, err, "redis down")
}
