package cache

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// MemoryBackend is a bounded in-process LRU with per-entry expiry.
type MemoryBackend struct {
	cache *lru.Cache
	mu    sync.Mutex
	now   func() time.Time
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryBackend creates an LRU holding at most maxEntries values.
func NewMemoryBackend(maxEntries int) (*MemoryBackend, error) {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	cache, err := lru.New(maxEntries)
	if err != nil {
		return nil, err
	}
	return &MemoryBackend{
		cache: cache,
		now:   time.Now,
	}, nil
}

// WithClock replaces the time source used for expiry checks.
func (m *MemoryBackend) WithClock(now func() time.Time) *MemoryBackend {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
	return m
}

func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	val, found := m.cache.Get(key)
	if !found {
		return nil, false, nil
	}

	entry := val.(memoryEntry)
	if !m.now().Before(entry.expiresAt) {
		// Expired
		m.cache.Remove(key)
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (m *MemoryBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cache.Add(key, memoryEntry{
		value:     value,
		expiresAt: m.now().Add(ttl),
	})
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *MemoryBackend) Len() int {
	return m.cache.Len()
}
