package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the single-instance Store backend. State lives for the
// life of the process, matching the no-TTL session lifecycle.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	admins   map[string]*AdminSession
	seen     map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		admins:   make(map[string]*AdminSession),
		seen:     make(map[string]time.Time),
	}
}

func (m *MemoryStore) Get(ctx context.Context, senderID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[senderID]
	if !ok {
		return nil, nil
	}
	cp := *s
	cp.Data = make(map[string]string, len(s.Data))
	for k, v := range s.Data {
		cp.Data[k] = v
	}
	return &cp, nil
}

func (m *MemoryStore) Put(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	cp.Data = make(map[string]string, len(s.Data))
	for k, v := range s.Data {
		cp.Data[k] = v
	}
	m.sessions[s.SenderID] = &cp
	return nil
}

func (m *MemoryStore) GetAdmin(ctx context.Context, senderID string) (*AdminSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.admins[senderID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryStore) PutAdmin(ctx context.Context, s *AdminSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.admins[s.SenderID] = &cp
	return nil
}

func (m *MemoryStore) MarkSeen(ctx context.Context, messageID string, ttl time.Duration) (bool, error) {
	if messageID == "" {
		return true, nil
	}
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Drop expired entries so the seen-set stays bounded.
	for id, expiry := range m.seen {
		if now.After(expiry) {
			delete(m.seen, id)
		}
	}

	if _, ok := m.seen[messageID]; ok {
		return false, nil
	}
	m.seen[messageID] = now.Add(ttl)
	return true, nil
}
