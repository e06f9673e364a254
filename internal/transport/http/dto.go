package http

import (
	"fmt"
	"time"

	"github.com/jinzhu/copier"

	"trivia-service/internal/domain"
)

// publicQuestion is a session question without its expected answer.
type publicQuestion struct {
	ID             string              `json:"id"`
	Type           domain.QuestionType `json:"type"`
	Title          string              `json:"title"`
	Description    string              `json:"description,omitempty"`
	Points         int                 `json:"points"`
	PenaltySeconds int                 `json:"penaltySeconds"`
	Options        []domain.Option     `json:"options,omitempty"`
}

// publicSession is what players see of a game session.
type publicSession struct {
	ID              string               `json:"id"`
	QuestionnaireID string               `json:"questionnaireId"`
	Questions       []publicQuestion     `json:"questions"`
	Status          domain.SessionStatus `json:"status"`
	CreatedBy       string               `json:"createdBy"`
	StartedAt       time.Time            `json:"startedAt"`
	EndedAt         *time.Time           `json:"endedAt,omitempty"`
	IsOpen          bool                 `json:"isOpen"`
}

func newPublicSession(session domain.GameSession) (publicSession, error) {
	var view publicSession
	if err := copier.Copy(&view, &session); err != nil {
		return publicSession{}, fmt.Errorf("map public session: %w", err)
	}
	view.Questions = make([]publicQuestion, 0, len(session.Questions))
	for _, q := range session.Questions {
		var pq publicQuestion
		if err := copier.Copy(&pq, &q); err != nil {
			return publicSession{}, fmt.Errorf("map public question: %w", err)
		}
		// Options are the only part of validation a player may see.
		if q.Type == domain.QuestionChoice && len(q.Validation.Options) > 0 {
			pq.Options = append([]domain.Option(nil), q.Validation.Options...)
		}
		view.Questions = append(view.Questions, pq)
	}
	return view, nil
}
