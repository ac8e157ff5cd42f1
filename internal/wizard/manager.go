package wizard

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("wizard session not found or expired")

// Manager holds live wizard sessions in memory. Sessions are browser-scoped
// intent, not durable state: losing one on restart only means the donor
// starts the form again, the ledger is untouched.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewManager(ttl time.Duration) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
	go m.reap()
	return m
}

func (m *Manager) Create(fundID uint, fundTitle string) *Session {
	s := NewSession(uuid.New().String(), fundID, fundTitle, m.ttl)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok || time.Now().After(s.ExpiresAt) {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *Manager) reap() {
	tick := time.NewTicker(time.Minute)
	for range tick.C {
		now := time.Now()
		m.mu.Lock()
		for id, s := range m.sessions {
			if now.After(s.ExpiresAt) {
				delete(m.sessions, id)
			}
		}
		m.mu.Unlock()
	}
}

// Count is exposed for the health endpoint.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
