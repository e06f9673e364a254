package app

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"trivia-service/internal/domain"
)

// QuestionPatch lists the question fields an update may change. Nil fields are kept.
type QuestionPatch struct {
	Type           *domain.QuestionType   `json:"type"`
	Title          *string                `json:"title"`
	Description    *string                `json:"description"`
	Points         *int                   `json:"points"`
	TimeLimitSec   *int                   `json:"timeLimitSec"`
	PenaltySeconds *int                   `json:"penaltySeconds"`
	ExpectedAnswer *domain.ExpectedAnswer `json:"expectedAnswer"`
	Options        *[]domain.Option       `json:"options"`
}

// MediaUpload is a file attached to a question.
type MediaUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// QuestionService implements question authoring.
type QuestionService struct {
	questions QuestionRepository
	media     MediaStore
	opts      options
}

// NewQuestionService builds the service; media may be nil when no object storage is configured.
func NewQuestionService(questions QuestionRepository, media MediaStore, opts ...Option) *QuestionService {
	return &QuestionService{questions: questions, media: media, opts: buildOptions(opts)}
}

// Create stores q as a new question owned by userID and returns its id.
func (s *QuestionService) Create(ctx context.Context, userID string, q domain.Question) (string, error) {
	if err := requireUser(userID); err != nil {
		return "", err
	}
	if err := validateQuestion(q); err != nil {
		return "", err
	}
	q.ID = s.opts.newID()
	q.CreatedBy = userID
	q.CreatedAt = s.opts.now()
	q.UpdatedAt = nil
	q.MediaURL = ""
	if err := s.questions.CreateQuestion(ctx, q); err != nil {
		return "", fmt.Errorf("create question: %w", err)
	}
	return q.ID, nil
}

// ListByOwner returns every question created by userID.
func (s *QuestionService) ListByOwner(ctx context.Context, userID string) ([]domain.Question, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.questions.ListQuestionsByOwner(ctx, userID)
}

// Get returns a question to its owner.
func (s *QuestionService) Get(ctx context.Context, id, callerID string) (domain.Question, error) {
	q, err := s.questions.GetQuestion(ctx, id)
	if err != nil {
		return domain.Question{}, err
	}
	if err := authorizeOwner(q, callerID); err != nil {
		return domain.Question{}, err
	}
	return q, nil
}

// Update applies patch to the question if userID owns it.
func (s *QuestionService) Update(ctx context.Context, id, userID string, patch QuestionPatch) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	q, err := s.questions.GetQuestion(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizeOwner(q, userID); err != nil {
		return err
	}

	patch.apply(&q)
	if err := validateQuestion(q); err != nil {
		return err
	}
	now := s.opts.now()
	q.UpdatedAt = &now
	if err := s.questions.UpdateQuestion(ctx, q); err != nil {
		return fmt.Errorf("update question %s: %w", id, err)
	}
	return nil
}

// Delete removes the question if userID owns it.
func (s *QuestionService) Delete(ctx context.Context, id, userID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	q, err := s.questions.GetQuestion(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizeOwner(q, userID); err != nil {
		return err
	}
	return s.questions.DeleteQuestion(ctx, id)
}

// AttachMedia uploads a file for the question and records its URL.
func (s *QuestionService) AttachMedia(ctx context.Context, id, userID string, upload MediaUpload) (string, error) {
	if s.media == nil {
		return "", domain.ErrMediaUnavailable
	}
	if err := requireUser(userID); err != nil {
		return "", err
	}
	if upload.Body == nil || upload.Size <= 0 {
		return "", domain.ErrInvalidInput
	}
	q, err := s.questions.GetQuestion(ctx, id)
	if err != nil {
		return "", err
	}
	if err := authorizeOwner(q, userID); err != nil {
		return "", err
	}

	key := "questions/" + q.ID + "/" + s.opts.newID() + strings.ToLower(path.Ext(upload.Filename))
	url, err := s.media.PutObject(ctx, key, upload.Body, upload.Size, upload.ContentType)
	if err != nil {
		return "", fmt.Errorf("store media for question %s: %w", id, err)
	}

	now := s.opts.now()
	q.MediaURL = url
	q.UpdatedAt = &now
	if err := s.questions.UpdateQuestion(ctx, q); err != nil {
		return "", fmt.Errorf("update question %s: %w", id, err)
	}
	return url, nil
}

func (p QuestionPatch) apply(q *domain.Question) {
	if p.Type != nil {
		q.Type = *p.Type
	}
	if p.Title != nil {
		q.Title = *p.Title
	}
	if p.Description != nil {
		q.Description = *p.Description
	}
	if p.Points != nil {
		q.Points = *p.Points
	}
	if p.TimeLimitSec != nil {
		q.TimeLimitSec = p.TimeLimitSec
	}
	if p.PenaltySeconds != nil {
		q.PenaltySeconds = *p.PenaltySeconds
	}
	if p.ExpectedAnswer != nil {
		q.ExpectedAnswer = p.ExpectedAnswer
	}
	if p.Options != nil {
		q.Options = *p.Options
	}
}

func validateQuestion(q domain.Question) error {
	if !q.Type.Valid() {
		return fmt.Errorf("%w: unknown question type %q", domain.ErrInvalidInput, q.Type)
	}
	if strings.TrimSpace(q.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if q.Points < 0 || q.PenaltySeconds < 0 {
		return fmt.Errorf("%w: points and penaltySeconds must not be negative", domain.ErrInvalidInput)
	}
	return nil
}
