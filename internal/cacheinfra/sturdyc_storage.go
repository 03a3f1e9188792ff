package cacheinfra

import (
	"context"

	"github.com/viccon/sturdyc"
)

// sturdycStorage is a byte payload key/value storage on top of sturdyc. It
// satisfies cache.FlushableStorage and cache.SizedStorage.
type sturdycStorage struct {
	client *sturdyc.Client[any]
}

// NewSturdycStorage validates cfg and builds the storage.
func NewSturdycStorage(cfg Config) (*sturdycStorage, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	return &sturdycStorage{client: client}, nil
}

func (s *sturdycStorage) GetItem(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok := s.client.Get(key)
	if !ok {
		return nil, false, nil
	}
	payload, ok := v.([]byte)
	if !ok {
		return nil, false, nil
	}
	return payload, true, nil
}

func (s *sturdycStorage) HasItem(ctx context.Context, key string) (bool, error) {
	_, ok := s.client.Get(key)
	return ok, nil
}

func (s *sturdycStorage) SetItem(ctx context.Context, key string, value []byte) error {
	s.client.Set(key, append([]byte(nil), value...))
	return nil
}

func (s *sturdycStorage) RemoveItem(ctx context.Context, key string) error {
	s.client.Delete(key)
	return nil
}

// Flush deletes every key.
func (s *sturdycStorage) Flush(ctx context.Context) error {
	for _, key := range s.client.ScanKeys() {
		s.client.Delete(key)
	}
	return nil
}

func (s *sturdycStorage) Size() int {
	return s.client.Size()
}
