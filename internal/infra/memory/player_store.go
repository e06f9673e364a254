package memory

import (
	"context"
	"sync"

	"trivia-service/internal/domain"
)

// PlayerStore is an in-memory implementation of app.PlayerRepository.
type PlayerStore struct {
	mu sync.Mutex
	// players keeps join order per session so rankings with equal keys are stable.
	players map[string][]domain.PlayerProgress
}

func NewPlayerStore() *PlayerStore {
	return &PlayerStore{players: make(map[string][]domain.PlayerProgress)}
}

func (s *PlayerStore) GetPlayer(_ context.Context, sessionID, userID string) (domain.PlayerProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(sessionID, userID); i >= 0 {
		return s.players[sessionID][i], nil
	}
	return domain.PlayerProgress{}, domain.ErrPlayerNotFound
}

func (s *PlayerStore) CreatePlayer(_ context.Context, sessionID string, p domain.PlayerProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(sessionID, p.UserID) >= 0 {
		return domain.ErrPlayerExists
	}
	s.players[sessionID] = append(s.players[sessionID], p)
	return nil
}

func (s *PlayerStore) UpdateDisplayName(_ context.Context, sessionID, userID, displayName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(sessionID, userID)
	if i < 0 {
		return domain.ErrPlayerNotFound
	}
	s.players[sessionID][i].DisplayName = displayName
	return nil
}

func (s *PlayerStore) SwapProgress(_ context.Context, sessionID string, prev, next domain.PlayerProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(sessionID, prev.UserID)
	if i < 0 {
		return domain.ErrPlayerNotFound
	}
	current := s.players[sessionID][i]
	if current.CurrentQuestionIndex != prev.CurrentQuestionIndex || current.Revision != prev.Revision {
		return domain.ErrProgressConflict
	}
	// Display name may have changed since prev was read.
	next.DisplayName = current.DisplayName
	s.players[sessionID][i] = next
	return nil
}

func (s *PlayerStore) ListPlayers(_ context.Context, sessionID string) ([]domain.PlayerProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.PlayerProgress{}, s.players[sessionID]...), nil
}

func (s *PlayerStore) indexLocked(sessionID, userID string) int {
	for i, p := range s.players[sessionID] {
		if p.UserID == userID {
			return i
		}
	}
	return -1
}
