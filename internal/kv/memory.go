package kv

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryFactory is an in-process Factory used when no Redis URL is configured.
// It is safe for concurrent use.
type MemoryFactory struct {
	mu   sync.RWMutex
	data map[string]map[string]memoryEntry
	now  func() time.Time
}

// NewMemoryFactory creates an empty in-memory factory.
func NewMemoryFactory() *MemoryFactory {
	return &MemoryFactory{
		data: make(map[string]map[string]memoryEntry),
		now:  time.Now,
	}
}

var _ Factory = (*MemoryFactory)(nil)

// Get returns the store bound to namespace.
func (f *MemoryFactory) Get(namespace string) Store {
	return &memoryStore{factory: f, namespace: namespace}
}

// Ping always succeeds.
func (f *MemoryFactory) Ping(context.Context) error { return nil }

type memoryStore struct {
	factory   *MemoryFactory
	namespace string
}

func (s *memoryStore) Namespace() string { return s.namespace }

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	f := s.factory
	f.mu.RLock()
	e, ok := f.data[s.namespace][key]
	f.mu.RUnlock()
	if !ok {
		return nil, ErrKeyNotFound
	}
	if e.expired(f.now()) {
		s.evict(key)
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

func (s *memoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	f := s.factory
	e := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = f.now().Add(ttl)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	ns, ok := f.data[s.namespace]
	if !ok {
		ns = make(map[string]memoryEntry)
		f.data[s.namespace] = ns
	}
	ns[key] = e
	return nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	f := s.factory
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data[s.namespace], key)
	return nil
}

// evict drops key only if it is still expired under the write lock, so a
// value written by a concurrent Set survives.
func (s *memoryStore) evict(key string) {
	f := s.factory
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.data[s.namespace][key]; ok && e.expired(f.now()) {
		delete(f.data[s.namespace], key)
	}
}
