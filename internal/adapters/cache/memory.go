package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store with TTL support.
type MemoryStore struct {
	entries sync.Map
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// memoryEntry holds a value with its expiry; a zero expiresAt never expires.
type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// NewMemoryStore creates a store and starts a sweeper that removes expired
// entries every sweepEvery. Close stops the sweeper.
func NewMemoryStore(sweepEvery time.Duration) *MemoryStore {
	s := &MemoryStore{now: time.Now, stop: make(chan struct{})}
	go s.sweep(sweepEvery)
	return s
}

// Read returns the value for key if present and not expired.
func (s *MemoryStore) Read(_ context.Context, key string) (string, bool, error) {
	v, ok := s.entries.Load(key)
	if !ok {
		return "", false, nil
	}

	entry := v.(*memoryEntry)
	if entry.expired(s.now()) {
		// Only drop the entry that was read; a newer write stays.
		s.entries.CompareAndDelete(key, v)
		return "", false, nil
	}
	return entry.value, true, nil
}

// Write stores value under key. A ttl <= 0 stores it without expiry.
func (s *MemoryStore) Write(_ context.Context, key, value string, ttl time.Duration) error {
	entry := &memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.entries.Store(key, entry)
	return nil
}

// Invalidate removes key.
func (s *MemoryStore) Invalidate(_ context.Context, key string) error {
	s.entries.Delete(key)
	return nil
}

// Close stops the sweeper.
func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.stop) })
	return nil
}

func (s *MemoryStore) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := s.now()
			s.entries.Range(func(key, value any) bool {
				if value.(*memoryEntry).expired(now) {
					s.entries.CompareAndDelete(key, value)
				}
				return true
			})
		case <-s.stop:
			return
		}
	}
}
