package session

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Store persists session records by key.
type Store interface {
	Load(ctx context.Context, key string) (*models.Session, bool, error)
	Save(ctx context.Context, key string, s *models.Session) error
	Clear(ctx context.Context, key string) error
}

type record struct {
	session models.Session
	saved   time.Time
}

// MemoryStore keeps sessions in process memory. Records idle for longer than
// the lifetime are treated as absent and dropped on access; a successful Load
// counts as activity.
type MemoryStore struct {
	mu       sync.Mutex
	records  map[string]record
	lifetime time.Duration
	now      func() time.Time
}

// NewMemoryStore creates a store; a zero lifetime keeps records forever.
func NewMemoryStore(lifetime time.Duration) *MemoryStore {
	return &MemoryStore{records: make(map[string]record), lifetime: lifetime, now: time.Now}
}

// WithClock replaces the clock used for idle expiry.
func (m *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	m.now = now
	return m
}

func (m *MemoryStore) Load(_ context.Context, key string) (*models.Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.records[key]
	if !ok {
		return nil, false, nil
	}
	now := m.now()
	if m.lifetime > 0 && now.Sub(r.saved) > m.lifetime {
		delete(m.records, key)
		return nil, false, nil
	}
	r.saved = now
	m.records[key] = r

	s := r.session
	return &s, true, nil
}

func (m *MemoryStore) Save(_ context.Context, key string, s *models.Session) error {
	m.mu.Lock()
	m.records[key] = record{session: *s, saved: m.now()}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.records, key)
	m.mu.Unlock()
	return nil
}

// Len returns the number of records held, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
