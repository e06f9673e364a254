package domain

import "errors"

var (
	// ErrInvalidInput is returned when required request data is missing or malformed.
	ErrInvalidInput = errors.New("missing data")
	// ErrForbidden indicates the caller does not own the resource.
	ErrForbidden = errors.New("unauthorized")

	ErrQuestionNotFound      = errors.New("question not found")
	ErrQuestionnaireNotFound = errors.New("questionnaire not found")
	ErrGameSessionNotFound   = errors.New("game session not found")
	ErrPlayerNotFound        = errors.New("player not found")
	ErrUserNotFound          = errors.New("user not found")

	// ErrPlayerExists is returned by stores when creating a player entry that already exists.
	ErrPlayerExists = errors.New("player already joined")

	// ErrInvalidTransition is returned for status or enrollment changes the lifecycle does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrSessionNotWaiting guards operations only allowed before a session starts.
	ErrSessionNotWaiting = errors.New("game session is not waiting")
	// ErrSessionNotStarted is returned when joining a session that is still waiting.
	ErrSessionNotStarted = errors.New("game session has not started")
	// ErrSessionFinished is returned when joining a finished session.
	ErrSessionFinished = errors.New("game session has finished")
	// ErrSessionClosed is returned when a session is not accepting new players.
	ErrSessionClosed = errors.New("game session is not accepting new players")

	// ErrInvalidQuestionIndex is returned when an answer targets a question other than the current one.
	ErrInvalidQuestionIndex = errors.New("invalid question index")
	// ErrUnsupportedQuestionType is returned for question types without a validator.
	ErrUnsupportedQuestionType = errors.New("unsupported question type")
	// ErrProgressConflict is returned when a player's progress changed between read and write.
	ErrProgressConflict = errors.New("player progress changed concurrently")

	// ErrMediaUnavailable is returned when no object storage is configured.
	ErrMediaUnavailable = errors.New("media storage not configured")
)
