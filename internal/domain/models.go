package domain

import "time"

// QuestionType tags the shape of a question's expected answer.
type QuestionType string

const (
	QuestionText        QuestionType = "TEXT"
	QuestionNumber      QuestionType = "NUMBER"
	QuestionChoice      QuestionType = "CHOICE"
	QuestionImageUpload QuestionType = "IMAGE_UPLOAD"
	QuestionAudioUpload QuestionType = "AUDIO_UPLOAD"
	QuestionOrdering    QuestionType = "ORDERING"
)

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionText, QuestionNumber, QuestionChoice, QuestionImageUpload, QuestionAudioUpload, QuestionOrdering:
		return true
	}
	return false
}

// Option is a selectable answer of a CHOICE question.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// ExpectedAnswer holds the reference answer. Which fields matter depends on the question type:
// TEXT uses Text/CaseSensitive, NUMBER uses Value/Tolerance, CHOICE uses OptionID.
type ExpectedAnswer struct {
	Text          string   `json:"text,omitempty"`
	CaseSensitive bool     `json:"caseSensitive,omitempty"`
	Value         *float64 `json:"value,omitempty"`
	Tolerance     float64  `json:"tolerance,omitempty"`
	OptionID      string   `json:"optionId,omitempty"`
}

// Question is an authored question document.
type Question struct {
	ID             string          `json:"id"`
	Type           QuestionType    `json:"type"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	Points         int             `json:"points"`
	TimeLimitSec   *int            `json:"timeLimitSec,omitempty"`
	PenaltySeconds int             `json:"penaltySeconds,omitempty"`
	ExpectedAnswer *ExpectedAnswer `json:"expectedAnswer,omitempty"`
	Options        []Option        `json:"options,omitempty"`
	MediaURL       string          `json:"mediaUrl,omitempty"`
	CreatedBy      string          `json:"createdBy"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      *time.Time      `json:"updatedAt,omitempty"`
}

func (q Question) OwnerID() string { return q.CreatedBy }

// Questionnaire is a named, ordered list of question references.
type Questionnaire struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	QuestionIDs []string   `json:"questionIds"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

func (q Questionnaire) OwnerID() string { return q.CreatedBy }

// SessionStatus is the lifecycle state of a game session.
type SessionStatus string

const (
	StatusWaiting  SessionStatus = "WAITING"
	StatusRunning  SessionStatus = "RUNNING"
	StatusFinished SessionStatus = "FINISHED"
)

func (s SessionStatus) rank() int {
	switch s {
	case StatusWaiting:
		return 1
	case StatusRunning:
		return 2
	case StatusFinished:
		return 3
	}
	return 0
}

// Valid reports whether s is a known status.
func (s SessionStatus) Valid() bool { return s.rank() > 0 }

// CanTransitionTo reports whether moving from s to next keeps the lifecycle monotonic.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	return s.Valid() && next.Valid() && next.rank() > s.rank()
}

// Validation is the answer-checking part of a session question.
type Validation struct {
	ExpectedAnswer ExpectedAnswer `json:"expectedAnswer"`
	Options        []Option       `json:"options,omitempty"`
}

// SessionQuestion is the frozen copy of a question inside a game session.
// It carries no ownership or timestamp metadata.
type SessionQuestion struct {
	ID             string       `json:"id"`
	Type           QuestionType `json:"type"`
	Title          string       `json:"title"`
	Description    string       `json:"description,omitempty"`
	Points         int          `json:"points"`
	PenaltySeconds int          `json:"penaltySeconds"`
	Validation     Validation   `json:"validation"`
}

// NewSessionQuestion snapshots q for use in a game session.
func NewSessionQuestion(q Question) SessionQuestion {
	sq := SessionQuestion{
		ID:             q.ID,
		Type:           q.Type,
		Title:          q.Title,
		Description:    q.Description,
		Points:         q.Points,
		PenaltySeconds: q.PenaltySeconds,
	}
	if q.ExpectedAnswer != nil {
		sq.Validation.ExpectedAnswer = *q.ExpectedAnswer
	}
	if len(q.Options) > 0 {
		sq.Validation.Options = append([]Option(nil), q.Options...)
	}
	return sq
}

// GameSession is one run of a questionnaire.
type GameSession struct {
	ID              string            `json:"id"`
	QuestionnaireID string            `json:"questionnaireId"`
	Questions       []SessionQuestion `json:"questions"`
	Status          SessionStatus     `json:"status"`
	CreatedBy       string            `json:"createdBy"`
	StartedAt       time.Time         `json:"startedAt"`
	EndedAt         *time.Time        `json:"endedAt,omitempty"`
	IsOpen          bool              `json:"isOpen"`
	Players         []string          `json:"players"`
}

func (s GameSession) OwnerID() string { return s.CreatedBy }

// HasPlayer reports whether userID already joined the session.
func (s GameSession) HasPlayer(userID string) bool {
	for _, p := range s.Players {
		if p == userID {
			return true
		}
	}
	return false
}

// PlayerProgress is a player's mutable state within a session.
type PlayerProgress struct {
	UserID               string     `json:"userId"`
	DisplayName          string     `json:"displayName"`
	CurrentQuestionIndex int        `json:"currentQuestionIndex"`
	Score                int        `json:"score"`
	TotalPenaltySeconds  int        `json:"totalPenaltySeconds"`
	StartedAt            time.Time  `json:"startedAt"`
	FinishedAt           *time.Time `json:"finishedAt,omitempty"`
	LastAnswerAt         *time.Time `json:"lastAnswerAt,omitempty"`
	// Revision increments on every answer write; stores compare it on update.
	Revision int `json:"-"`
}

// RankingEntry is one row of a session ranking.
type RankingEntry struct {
	UserID               string     `json:"userId"`
	DisplayName          string     `json:"displayName"`
	Score                int        `json:"score"`
	TotalPenaltySeconds  int        `json:"totalPenaltySeconds"`
	CurrentQuestionIndex int        `json:"currentQuestionIndex"`
	FinishedAt           *time.Time `json:"finishedAt,omitempty"`
}

// Ranking captures the ordered scoreboard of a game session.
type Ranking struct {
	GameSessionID string         `json:"gameSessionId"`
	Entries       []RankingEntry `json:"entries"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// AnswerResult summarizes the outcome of one answer submission.
type AnswerResult struct {
	Correct           bool   `json:"correct"`
	Message           string `json:"message"`
	NextQuestionIndex int    `json:"nextQuestionIndex"`
	Finished          bool   `json:"finished"`
}

const (
	MessageCorrect   = "CORRECT_ANSWER"
	MessageIncorrect = "INCORRECT_ANSWER"
)

// UserProfile is the stored profile of an authenticated author.
type UserProfile struct {
	UID       string    `json:"uid"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
