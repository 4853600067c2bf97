package repository

import (
	"context"
	"sync"

	"iqfieldbot/internal/model"
)

// memorySessionRepo is an in-process SessionRepo, for tests and for
// running without Mongo. Values are copied on the way in and out so a
// caller never aliases the stored session.
type memorySessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]model.TestSession
}

func NewMemorySessionRepo() SessionRepo {
	return &memorySessionRepo{
		sessions: map[string]model.TestSession{},
	}
}

func (m *memorySessionRepo) Create(ctx context.Context, session *model.TestSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = *session
	return nil
}

func (m *memorySessionRepo) GetByID(ctx context.Context, id string) (*model.TestSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	out := s
	return &out, nil
}

func (m *memorySessionRepo) Update(ctx context.Context, session *model.TestSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[session.ID]; !ok {
		return ErrSessionNotFound
	}
	m.sessions[session.ID] = *session
	return nil
}

func (m *memorySessionRepo) GetByUserID(ctx context.Context, userID string) ([]*model.TestSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.TestSession
	for _, s := range m.sessions {
		if s.UserID == userID {
			c := s
			out = append(out, &c)
		}
	}
	return out, nil
}
