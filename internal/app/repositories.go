package app

import (
	"context"
	"io"

	"trivia-service/internal/domain"
)

// QuestionRepository stores authored questions.
type QuestionRepository interface {
	CreateQuestion(ctx context.Context, q domain.Question) error
	GetQuestion(ctx context.Context, id string) (domain.Question, error)
	// ListQuestionsByOwner returns the owner's questions, newest first.
	ListQuestionsByOwner(ctx context.Context, ownerID string) ([]domain.Question, error)
	UpdateQuestion(ctx context.Context, q domain.Question) error
	DeleteQuestion(ctx context.Context, id string) error
}

// QuestionnaireRepository stores questionnaires.
type QuestionnaireRepository interface {
	CreateQuestionnaire(ctx context.Context, q domain.Questionnaire) error
	GetQuestionnaire(ctx context.Context, id string) (domain.Questionnaire, error)
	// ListQuestionnairesByOwner returns the owner's questionnaires, newest first.
	ListQuestionnairesByOwner(ctx context.Context, ownerID string) ([]domain.Questionnaire, error)
	UpdateQuestionnaire(ctx context.Context, q domain.Questionnaire) error
	DeleteQuestionnaire(ctx context.Context, id string) error
}

// GameSessionRepository stores game session documents.
type GameSessionRepository interface {
	CreateGameSession(ctx context.Context, s domain.GameSession) error
	GetGameSession(ctx context.Context, id string) (domain.GameSession, error)
	// ListGameSessionsByOwner returns the owner's sessions, newest first.
	ListGameSessionsByOwner(ctx context.Context, ownerID string) ([]domain.GameSession, error)
	UpdateGameSession(ctx context.Context, s domain.GameSession) error
	DeleteGameSession(ctx context.Context, id string) error
	// AddPlayer adds userID to the session's player set; adding twice is a no-op.
	AddPlayer(ctx context.Context, sessionID, userID string) error
}

// PlayerRepository stores per-player progress under a session.
type PlayerRepository interface {
	GetPlayer(ctx context.Context, sessionID, userID string) (domain.PlayerProgress, error)
	CreatePlayer(ctx context.Context, sessionID string, p domain.PlayerProgress) error
	UpdateDisplayName(ctx context.Context, sessionID, userID, displayName string) error
	// SwapProgress writes next only if the stored progress still has prev's
	// question index and revision, otherwise it returns domain.ErrProgressConflict.
	SwapProgress(ctx context.Context, sessionID string, prev, next domain.PlayerProgress) error
	ListPlayers(ctx context.Context, sessionID string) ([]domain.PlayerProgress, error)
}

// UserRepository stores author profiles.
type UserRepository interface {
	PutUser(ctx context.Context, u domain.UserProfile) error
	GetUser(ctx context.Context, uid string) (domain.UserProfile, error)
}

// SnapshotCache serves the question snapshot of a session, the hot read of answer submission.
type SnapshotCache interface {
	Questions(ctx context.Context, sessionID string) ([]domain.SessionQuestion, error)
	Invalidate(ctx context.Context, sessionID string) error
}

// EventPublisher delivers game events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// MediaStore keeps uploaded question media and returns its public URL.
type MediaStore interface {
	PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}
