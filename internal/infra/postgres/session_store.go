package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"

	"trivia-service/internal/domain"
)

func (s *Store) CreateGameSession(ctx context.Context, session domain.GameSession) error {
	data, err := encode(session)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO game_sessions (id, created_by, started_at, data) VALUES ($1, $2, $3, $4::jsonb)`,
		session.ID, session.CreatedBy, session.StartedAt, data)
	if err != nil {
		return fmt.Errorf("insert game session: %w", err)
	}
	return nil
}

func (s *Store) GetGameSession(ctx context.Context, id string) (domain.GameSession, error) {
	var session domain.GameSession
	err := s.getDocument(ctx, domain.ErrGameSessionNotFound, &session, `SELECT data FROM game_sessions WHERE id=$1`, id)
	return session, err
}

func (s *Store) ListGameSessionsByOwner(ctx context.Context, ownerID string) ([]domain.GameSession, error) {
	result := make([]domain.GameSession, 0)
	err := s.listDocuments(ctx, func(raw []byte) error {
		var session domain.GameSession
		if err := json.Unmarshal(raw, &session); err != nil {
			return err
		}
		result = append(result, session)
		return nil
	}, `SELECT data FROM game_sessions WHERE created_by=$1 ORDER BY started_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list game sessions: %w", err)
	}
	return result, nil
}

// UpdateGameSession overwrites the document but keeps the stored player set,
// which only AddPlayer changes.
func (s *Store) UpdateGameSession(ctx context.Context, session domain.GameSession) error {
	data, err := encode(session)
	if err != nil {
		return err
	}
	return s.execAffecting(ctx, domain.ErrGameSessionNotFound,
		`UPDATE game_sessions
		    SET data = $2::jsonb || jsonb_build_object('players', COALESCE(data->'players', '[]'::jsonb))
		  WHERE id=$1`,
		session.ID, data)
}

func (s *Store) DeleteGameSession(ctx context.Context, id string) error {
	return s.execAffecting(ctx, domain.ErrGameSessionNotFound, `DELETE FROM game_sessions WHERE id=$1`, id)
}

func (s *Store) AddPlayer(ctx context.Context, sessionID, userID string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE game_sessions
		    SET data = jsonb_set(data, '{players}', COALESCE(data->'players', '[]'::jsonb) || to_jsonb($2::text))
		  WHERE id=$1 AND NOT COALESCE(data->'players', '[]'::jsonb) ? $2`,
		sessionID, userID)
	if err != nil {
		return fmt.Errorf("add player: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	// Either already a member or the session is gone.
	return s.sessionExists(ctx, sessionID)
}

// LoadSnapshot reads only the question snapshot of a session.
func (s *Store) LoadSnapshot(ctx context.Context, sessionID string) ([]domain.SessionQuestion, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT COALESCE(data->'questions', '[]'::jsonb) FROM game_sessions WHERE id=$1`, sessionID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrGameSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	var questions []domain.SessionQuestion
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return questions, nil
}

func (s *Store) sessionExists(ctx context.Context, sessionID string) error {
	var one int
	err := s.pool.QueryRow(ctx, `SELECT 1 FROM game_sessions WHERE id=$1`, sessionID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrGameSessionNotFound
	}
	return err
}
