package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value   []byte
	expires time.Time
}

// Memory is a process-local Cache. Entries are replaced whole, never
// mutated, and callers only ever see private copies of the stored bytes.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	// versions survive Delete so a late StoreAt can tell it lost the race.
	versions map[string]uint64
	ttl      time.Duration
	now      func() time.Time
}

// NewMemory creates an in-memory cache. A ttl of zero keeps entries until
// they are deleted.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries:  make(map[string]entry),
		versions: make(map[string]uint64),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *Memory) Fetch(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		m.mu.Lock()
		if cur, still := m.entries[key]; still && cur.expires.Equal(e.expires) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false, nil
	}

	return clone(e.value), true, nil
}

func (m *Memory) Store(_ context.Context, key string, value []byte) error {
	e := m.newEntry(value)

	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
	return nil
}

func (m *Memory) StoreAt(_ context.Context, key string, value []byte, version uint64) (bool, error) {
	e := m.newEntry(value)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.versions[key] != version {
		return false, nil
	}
	m.entries[key] = e
	return true, nil
}

func (m *Memory) Version(_ context.Context, key string) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.versions[key], nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.versions[key]++
	m.mu.Unlock()
	return nil
}

func (m *Memory) newEntry(value []byte) entry {
	e := entry{value: clone(value)}
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}
	return e
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func clone(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
