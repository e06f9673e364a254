package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"

	"trivia-service/internal/domain"
)

// Player rows mirror revision and current_question_index in columns so answer
// writes can be made conditional on them.

func (s *Store) GetPlayer(ctx context.Context, sessionID, userID string) (domain.PlayerProgress, error) {
	var (
		raw      []byte
		revision int
	)
	err := s.pool.QueryRow(ctx,
		`SELECT data, revision FROM players WHERE game_session_id=$1 AND user_id=$2`,
		sessionID, userID).Scan(&raw, &revision)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PlayerProgress{}, domain.ErrPlayerNotFound
	}
	if err != nil {
		return domain.PlayerProgress{}, fmt.Errorf("get player: %w", err)
	}
	var p domain.PlayerProgress
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.PlayerProgress{}, fmt.Errorf("unmarshal player: %w", err)
	}
	p.Revision = revision
	return p, nil
}

func (s *Store) CreatePlayer(ctx context.Context, sessionID string, p domain.PlayerProgress) error {
	data, err := encode(p)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO players (game_session_id, user_id, revision, current_question_index, data)
		 VALUES ($1, $2, $3, $4, $5::jsonb)
		 ON CONFLICT (game_session_id, user_id) DO NOTHING`,
		sessionID, p.UserID, p.Revision, p.CurrentQuestionIndex, data)
	if err != nil {
		return fmt.Errorf("insert player: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPlayerExists
	}
	return nil
}

func (s *Store) UpdateDisplayName(ctx context.Context, sessionID, userID, displayName string) error {
	return s.execAffecting(ctx, domain.ErrPlayerNotFound,
		`UPDATE players SET data = jsonb_set(data, '{displayName}', to_jsonb($3::text))
		  WHERE game_session_id=$1 AND user_id=$2`,
		sessionID, userID, displayName)
}

func (s *Store) SwapProgress(ctx context.Context, sessionID string, prev, next domain.PlayerProgress) error {
	data, err := encode(next)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE players
		    SET data = $3::jsonb || jsonb_build_object('displayName', data->'displayName'),
		        revision = $4,
		        current_question_index = $5
		  WHERE game_session_id=$1 AND user_id=$2 AND revision=$6 AND current_question_index=$7`,
		sessionID, prev.UserID, data, next.Revision, next.CurrentQuestionIndex, prev.Revision, prev.CurrentQuestionIndex)
	if err != nil {
		return fmt.Errorf("update player progress: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	if _, err := s.GetPlayer(ctx, sessionID, prev.UserID); err != nil {
		return err
	}
	return domain.ErrProgressConflict
}

func (s *Store) ListPlayers(ctx context.Context, sessionID string) ([]domain.PlayerProgress, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data, revision FROM players WHERE game_session_id=$1 ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	result := make([]domain.PlayerProgress, 0)
	for rows.Next() {
		var (
			raw      []byte
			revision int
		)
		if err := rows.Scan(&raw, &revision); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		var p domain.PlayerProgress
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("unmarshal player: %w", err)
		}
		p.Revision = revision
		result = append(result, p)
	}
	return result, rows.Err()
}
