package repository

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	value     []byte
	expiresAt time.Time
	hasTTL    bool
}

func (e memEntry) expiredAt(now time.Time) bool {
	return e.hasTTL && now.After(e.expiresAt)
}

type memoryStateStore struct {
	mu      sync.RWMutex
	entries map[string]memEntry
	now     func() time.Time
}

func NewMemoryStateStore() StateStore {
	return newMemoryStateStore(time.Now)
}

func newMemoryStateStore(now func() time.Time) *memoryStateStore {
	return &memoryStateStore{
		entries: make(map[string]memEntry),
		now:     now,
	}
}

func (s *memoryStateStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	// Callers may reuse the slice.
	buf := make([]byte, len(value))
	copy(buf, value)

	entry := memEntry{value: buf}
	if ttl > 0 {
		entry.hasTTL = true
		entry.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
	return nil
}

func (s *memoryStateStore) Get(_ context.Context, key string) ([]byte, error) {
	entry, ok := s.lookup(key)
	if !ok {
		return nil, nil
	}
	return entry.value, nil
}

func (s *memoryStateStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

func (s *memoryStateStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := s.lookup(key)
	return ok, nil
}

// lookup returns a live entry, evicting it if it has expired.
func (s *memoryStateStore) lookup(key string) (memEntry, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return memEntry{}, false
	}
	if entry.expiredAt(s.now()) {
		s.mu.Lock()
		// Re-check: a concurrent Set may have refreshed the key.
		if cur, still := s.entries[key]; still && cur.expiredAt(s.now()) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return memEntry{}, false
	}
	return entry, true
}

// Sweep drops every expired entry. Keys that are never read again would
// otherwise stay in memory.
func (s *memoryStateStore) Sweep(_ context.Context) (int64, error) {
	now := s.now()
	var n int64
	s.mu.Lock()
	for key, entry := range s.entries {
		if entry.expiredAt(now) {
			delete(s.entries, key)
			n++
		}
	}
	s.mu.Unlock()
	return n, nil
}
