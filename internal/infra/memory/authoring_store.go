package memory

import (
	"context"
	"sort"
	"sync"

	"trivia-service/internal/domain"
)

// QuestionStore is an in-memory implementation of app.QuestionRepository.
type QuestionStore struct {
	mu        sync.RWMutex
	questions map[string]domain.Question
}

func NewQuestionStore() *QuestionStore {
	return &QuestionStore{questions: make(map[string]domain.Question)}
}

func (s *QuestionStore) CreateQuestion(_ context.Context, q domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[q.ID] = q
	return nil
}

func (s *QuestionStore) GetQuestion(_ context.Context, id string) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return q, nil
}

func (s *QuestionStore) ListQuestionsByOwner(_ context.Context, ownerID string) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Question, 0)
	for _, q := range s.questions {
		if q.CreatedBy == ownerID {
			result = append(result, q)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *QuestionStore) UpdateQuestion(_ context.Context, q domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[q.ID]; !ok {
		return domain.ErrQuestionNotFound
	}
	s.questions[q.ID] = q
	return nil
}

func (s *QuestionStore) DeleteQuestion(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	delete(s.questions, id)
	return nil
}

// QuestionnaireStore is an in-memory implementation of app.QuestionnaireRepository.
type QuestionnaireStore struct {
	mu             sync.RWMutex
	questionnaires map[string]domain.Questionnaire
}

func NewQuestionnaireStore() *QuestionnaireStore {
	return &QuestionnaireStore{questionnaires: make(map[string]domain.Questionnaire)}
}

func (s *QuestionnaireStore) CreateQuestionnaire(_ context.Context, q domain.Questionnaire) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questionnaires[q.ID] = cloneQuestionnaire(q)
	return nil
}

func (s *QuestionnaireStore) GetQuestionnaire(_ context.Context, id string) (domain.Questionnaire, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questionnaires[id]
	if !ok {
		return domain.Questionnaire{}, domain.ErrQuestionnaireNotFound
	}
	return cloneQuestionnaire(q), nil
}

func (s *QuestionnaireStore) ListQuestionnairesByOwner(_ context.Context, ownerID string) ([]domain.Questionnaire, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Questionnaire, 0)
	for _, q := range s.questionnaires {
		if q.CreatedBy == ownerID {
			result = append(result, cloneQuestionnaire(q))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *QuestionnaireStore) UpdateQuestionnaire(_ context.Context, q domain.Questionnaire) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questionnaires[q.ID]; !ok {
		return domain.ErrQuestionnaireNotFound
	}
	s.questionnaires[q.ID] = cloneQuestionnaire(q)
	return nil
}

func (s *QuestionnaireStore) DeleteQuestionnaire(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questionnaires[id]; !ok {
		return domain.ErrQuestionnaireNotFound
	}
	delete(s.questionnaires, id)
	return nil
}

func cloneQuestionnaire(q domain.Questionnaire) domain.Questionnaire {
	q.QuestionIDs = append([]string{}, q.QuestionIDs...)
	return q
}

// UserStore is an in-memory implementation of app.UserRepository.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]domain.UserProfile
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]domain.UserProfile)}
}

func (s *UserStore) PutUser(_ context.Context, u domain.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.UID] = u
	return nil
}

func (s *UserStore) GetUser(_ context.Context, uid string) (domain.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[uid]
	if !ok {
		return domain.UserProfile{}, domain.ErrUserNotFound
	}
	return u, nil
}
