package app

import (
	"context"
	"fmt"
	"strings"

	"trivia-service/internal/domain"
)

// QuestionnairePatch lists the questionnaire fields an update may change.
type QuestionnairePatch struct {
	Title       *string   `json:"title"`
	QuestionIDs *[]string `json:"questionIds"`
}

// QuestionnaireService implements questionnaire authoring.
type QuestionnaireService struct {
	questionnaires QuestionnaireRepository
	opts           options
}

func NewQuestionnaireService(questionnaires QuestionnaireRepository, opts ...Option) *QuestionnaireService {
	return &QuestionnaireService{questionnaires: questionnaires, opts: buildOptions(opts)}
}

func (s *QuestionnaireService) Create(ctx context.Context, userID, title string, questionIDs []string) (string, error) {
	if err := requireUser(userID); err != nil {
		return "", err
	}
	if strings.TrimSpace(title) == "" {
		return "", domain.ErrInvalidInput
	}
	if questionIDs == nil {
		questionIDs = []string{}
	}
	q := domain.Questionnaire{
		ID:          s.opts.newID(),
		Title:       title,
		QuestionIDs: questionIDs,
		CreatedBy:   userID,
		CreatedAt:   s.opts.now(),
	}
	if err := s.questionnaires.CreateQuestionnaire(ctx, q); err != nil {
		return "", fmt.Errorf("create questionnaire: %w", err)
	}
	return q.ID, nil
}

func (s *QuestionnaireService) ListByOwner(ctx context.Context, userID string) ([]domain.Questionnaire, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.questionnaires.ListQuestionnairesByOwner(ctx, userID)
}

// Get returns a questionnaire. Questionnaires hold no answers, so any authenticated caller may read one.
func (s *QuestionnaireService) Get(ctx context.Context, id string) (domain.Questionnaire, error) {
	return s.questionnaires.GetQuestionnaire(ctx, id)
}

func (s *QuestionnaireService) Update(ctx context.Context, id, userID string, patch QuestionnairePatch) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	q, err := s.questionnaires.GetQuestionnaire(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizeOwner(q, userID); err != nil {
		return err
	}

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return domain.ErrInvalidInput
		}
		q.Title = *patch.Title
	}
	if patch.QuestionIDs != nil {
		q.QuestionIDs = append([]string{}, (*patch.QuestionIDs)...)
	}
	now := s.opts.now()
	q.UpdatedAt = &now
	if err := s.questionnaires.UpdateQuestionnaire(ctx, q); err != nil {
		return fmt.Errorf("update questionnaire %s: %w", id, err)
	}
	return nil
}

func (s *QuestionnaireService) Delete(ctx context.Context, id, userID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	q, err := s.questionnaires.GetQuestionnaire(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizeOwner(q, userID); err != nil {
		return err
	}
	return s.questionnaires.DeleteQuestionnaire(ctx, id)
}
