package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"trivia-service/internal/domain"
)

func (s *Store) CreateQuestion(ctx context.Context, q domain.Question) error {
	data, err := encode(q)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO questions (id, created_by, created_at, data) VALUES ($1, $2, $3, $4::jsonb)`,
		q.ID, q.CreatedBy, q.CreatedAt, data)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

func (s *Store) GetQuestion(ctx context.Context, id string) (domain.Question, error) {
	var q domain.Question
	err := s.getDocument(ctx, domain.ErrQuestionNotFound, &q, `SELECT data FROM questions WHERE id=$1`, id)
	return q, err
}

func (s *Store) ListQuestionsByOwner(ctx context.Context, ownerID string) ([]domain.Question, error) {
	result := make([]domain.Question, 0)
	err := s.listDocuments(ctx, func(raw []byte) error {
		var q domain.Question
		if err := json.Unmarshal(raw, &q); err != nil {
			return err
		}
		result = append(result, q)
		return nil
	}, `SELECT data FROM questions WHERE created_by=$1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return result, nil
}

func (s *Store) UpdateQuestion(ctx context.Context, q domain.Question) error {
	data, err := encode(q)
	if err != nil {
		return err
	}
	return s.execAffecting(ctx, domain.ErrQuestionNotFound,
		`UPDATE questions SET data=$2::jsonb WHERE id=$1`, q.ID, data)
}

func (s *Store) DeleteQuestion(ctx context.Context, id string) error {
	return s.execAffecting(ctx, domain.ErrQuestionNotFound, `DELETE FROM questions WHERE id=$1`, id)
}

func (s *Store) CreateQuestionnaire(ctx context.Context, q domain.Questionnaire) error {
	data, err := encode(q)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO questionnaires (id, created_by, created_at, data) VALUES ($1, $2, $3, $4::jsonb)`,
		q.ID, q.CreatedBy, q.CreatedAt, data)
	if err != nil {
		return fmt.Errorf("insert questionnaire: %w", err)
	}
	return nil
}

func (s *Store) GetQuestionnaire(ctx context.Context, id string) (domain.Questionnaire, error) {
	var q domain.Questionnaire
	err := s.getDocument(ctx, domain.ErrQuestionnaireNotFound, &q, `SELECT data FROM questionnaires WHERE id=$1`, id)
	return q, err
}

func (s *Store) ListQuestionnairesByOwner(ctx context.Context, ownerID string) ([]domain.Questionnaire, error) {
	result := make([]domain.Questionnaire, 0)
	err := s.listDocuments(ctx, func(raw []byte) error {
		var q domain.Questionnaire
		if err := json.Unmarshal(raw, &q); err != nil {
			return err
		}
		result = append(result, q)
		return nil
	}, `SELECT data FROM questionnaires WHERE created_by=$1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list questionnaires: %w", err)
	}
	return result, nil
}

func (s *Store) UpdateQuestionnaire(ctx context.Context, q domain.Questionnaire) error {
	data, err := encode(q)
	if err != nil {
		return err
	}
	return s.execAffecting(ctx, domain.ErrQuestionnaireNotFound,
		`UPDATE questionnaires SET data=$2::jsonb WHERE id=$1`, q.ID, data)
}

func (s *Store) DeleteQuestionnaire(ctx context.Context, id string) error {
	return s.execAffecting(ctx, domain.ErrQuestionnaireNotFound, `DELETE FROM questionnaires WHERE id=$1`, id)
}

func (s *Store) PutUser(ctx context.Context, u domain.UserProfile) error {
	data, err := encode(u)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO users (uid, data) VALUES ($1, $2::jsonb) ON CONFLICT (uid) DO UPDATE SET data=EXCLUDED.data`,
		u.UID, data)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, uid string) (domain.UserProfile, error) {
	var u domain.UserProfile
	err := s.getDocument(ctx, domain.ErrUserNotFound, &u, `SELECT data FROM users WHERE uid=$1`, uid)
	return u, err
}
