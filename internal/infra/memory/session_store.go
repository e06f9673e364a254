package memory

import (
	"context"
	"sort"
	"sync"

	"trivia-service/internal/domain"
)

// SessionStore is an in-memory implementation of app.GameSessionRepository.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.GameSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.GameSession),
	}
}

func (s *SessionStore) CreateGameSession(_ context.Context, session domain.GameSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = cloneSession(session)
	return nil
}

func (s *SessionStore) GetGameSession(_ context.Context, id string) (domain.GameSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return domain.GameSession{}, domain.ErrGameSessionNotFound
	}
	return cloneSession(session), nil
}

func (s *SessionStore) ListGameSessionsByOwner(_ context.Context, ownerID string) ([]domain.GameSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.GameSession, 0)
	for _, session := range s.sessions {
		if session.CreatedBy == ownerID {
			result = append(result, cloneSession(session))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartedAt.After(result[j].StartedAt)
	})
	return result, nil
}

func (s *SessionStore) UpdateGameSession(_ context.Context, session domain.GameSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.ID]; !ok {
		return domain.ErrGameSessionNotFound
	}
	s.sessions[session.ID] = cloneSession(session)
	return nil
}

func (s *SessionStore) DeleteGameSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return domain.ErrGameSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *SessionStore) AddPlayer(_ context.Context, sessionID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return domain.ErrGameSessionNotFound
	}
	if session.HasPlayer(userID) {
		return nil
	}
	session.Players = append(append([]string{}, session.Players...), userID)
	s.sessions[sessionID] = session
	return nil
}

// LoadSnapshot makes the store usable as a snapshot cache loader.
func (s *SessionStore) LoadSnapshot(ctx context.Context, sessionID string) ([]domain.SessionQuestion, error) {
	session, err := s.GetGameSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Questions, nil
}

func cloneSession(s domain.GameSession) domain.GameSession {
	s.Questions = append([]domain.SessionQuestion(nil), s.Questions...)
	s.Players = append([]string{}, s.Players...)
	return s
}
