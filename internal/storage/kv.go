package storage

import (
	"context"
	"sync"
)

// KV is the core's only durable I/O dependency: device-local key/value
// storage. Get reports a missing key as ok=false with a nil error; read
// errors are returned but callers are expected to treat them as a missing
// record. Writes are best-effort from the caller's point of view.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

type memoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryKV returns an in-memory KV, used in tests and as a fallback when
// no durable backend is configured.
func NewMemoryKV() KV {
	return &memoryKV{data: map[string]string{}}
}

func (s *memoryKV) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memoryKV) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memoryKV) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
