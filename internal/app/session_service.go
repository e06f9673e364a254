package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"trivia-service/internal/domain"
)

// snapshotFetchLimit bounds concurrent question loads while building a snapshot.
const snapshotFetchLimit = 8

// SessionService manages game sessions on behalf of their creator.
type SessionService struct {
	sessions       GameSessionRepository
	questionnaires QuestionnaireRepository
	questions      QuestionRepository
	snapshots      SnapshotCache
	opts           options
}

// NewSessionService builds the service. snapshots may be nil when no cache is used.
func NewSessionService(
	sessions GameSessionRepository,
	questionnaires QuestionnaireRepository,
	questions QuestionRepository,
	snapshots SnapshotCache,
	opts ...Option,
) *SessionService {
	if snapshots == nil {
		snapshots = uncachedSnapshots{sessions: sessions}
	}
	return &SessionService{
		sessions:       sessions,
		questionnaires: questionnaires,
		questions:      questions,
		snapshots:      snapshots,
		opts:           buildOptions(opts),
	}
}

// Create starts a WAITING session from a snapshot of the questionnaire's questions.
func (s *SessionService) Create(ctx context.Context, questionnaireID, userID string) (string, error) {
	if questionnaireID == "" {
		return "", domain.ErrInvalidInput
	}
	if err := requireUser(userID); err != nil {
		return "", err
	}
	questionnaire, err := s.questionnaires.GetQuestionnaire(ctx, questionnaireID)
	if err != nil {
		return "", err
	}
	if err := authorizeOwner(questionnaire, userID); err != nil {
		return "", err
	}

	id := s.opts.newID()
	snapshot, err := s.buildSnapshot(ctx, id, questionnaire, userID)
	if err != nil {
		return "", err
	}

	session := domain.GameSession{
		ID:              id,
		QuestionnaireID: questionnaireID,
		Questions:       snapshot,
		Status:          domain.StatusWaiting,
		CreatedBy:       userID,
		StartedAt:       s.opts.now(),
		IsOpen:          true,
		Players:         []string{},
	}
	if err := s.sessions.CreateGameSession(ctx, session); err != nil {
		return "", fmt.Errorf("create game session: %w", err)
	}

	log.Info().
		Str("gameSessionId", id).
		Str("questionnaireId", questionnaireID).
		Int("questions", len(snapshot)).
		Msg("game session created")
	s.opts.publish(ctx, domain.Event{Type: domain.EventSessionCreated, GameSessionID: id, Status: session.Status})
	return id, nil
}

func (s *SessionService) ListByOwner(ctx context.Context, userID string) ([]domain.GameSession, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.sessions.ListGameSessionsByOwner(ctx, userID)
}

// Get returns the full session document, expected answers included, to its creator.
func (s *SessionService) Get(ctx context.Context, id, callerID string) (domain.GameSession, error) {
	session, err := s.sessions.GetGameSession(ctx, id)
	if err != nil {
		return domain.GameSession{}, err
	}
	if err := authorizeOwner(session, callerID); err != nil {
		return domain.GameSession{}, err
	}
	return session, nil
}

// UpdateStatus moves the session forward in its lifecycle. FINISHED also closes enrollment.
func (s *SessionService) UpdateStatus(ctx context.Context, id, userID string, status domain.SessionStatus) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	session, err := s.ownedSession(ctx, id, userID)
	if err != nil {
		return err
	}
	if !session.Status.CanTransitionTo(status) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, session.Status, status)
	}

	session.Status = status
	if status == domain.StatusFinished {
		now := s.opts.now()
		session.IsOpen = false
		session.EndedAt = &now
	}
	if err := s.sessions.UpdateGameSession(ctx, session); err != nil {
		return fmt.Errorf("update game session %s: %w", id, err)
	}
	s.opts.publish(ctx, domain.Event{Type: domain.EventSessionStatusChanged, GameSessionID: id, Status: status})
	return nil
}

// SetOpen toggles enrollment. A finished session cannot be reopened.
func (s *SessionService) SetOpen(ctx context.Context, id, userID string, isOpen bool) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	session, err := s.ownedSession(ctx, id, userID)
	if err != nil {
		return err
	}
	if isOpen && session.Status == domain.StatusFinished {
		return fmt.Errorf("%w: cannot reopen a finished game session", domain.ErrInvalidTransition)
	}
	if session.IsOpen == isOpen {
		return nil
	}
	session.IsOpen = isOpen
	if err := s.sessions.UpdateGameSession(ctx, session); err != nil {
		return fmt.Errorf("update game session %s: %w", id, err)
	}
	return nil
}

// RefreshQuestions re-derives the snapshot of a WAITING session and returns the new question count.
func (s *SessionService) RefreshQuestions(ctx context.Context, id, userID string) (int, error) {
	if err := requireUser(userID); err != nil {
		return 0, err
	}
	session, err := s.ownedSession(ctx, id, userID)
	if err != nil {
		return 0, err
	}
	if session.Status != domain.StatusWaiting {
		return 0, domain.ErrSessionNotWaiting
	}
	questionnaire, err := s.questionnaires.GetQuestionnaire(ctx, session.QuestionnaireID)
	if err != nil {
		return 0, err
	}
	snapshot, err := s.buildSnapshot(ctx, id, questionnaire, userID)
	if err != nil {
		return 0, err
	}

	session.Questions = snapshot
	if err := s.sessions.UpdateGameSession(ctx, session); err != nil {
		return 0, fmt.Errorf("update game session %s: %w", id, err)
	}
	s.invalidate(ctx, id)
	return len(snapshot), nil
}

// Delete removes a session that has not started yet.
func (s *SessionService) Delete(ctx context.Context, id, userID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	session, err := s.ownedSession(ctx, id, userID)
	if err != nil {
		return err
	}
	if session.Status != domain.StatusWaiting {
		return domain.ErrSessionNotWaiting
	}
	if err := s.sessions.DeleteGameSession(ctx, id); err != nil {
		return fmt.Errorf("delete game session %s: %w", id, err)
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *SessionService) ownedSession(ctx context.Context, id, userID string) (domain.GameSession, error) {
	session, err := s.sessions.GetGameSession(ctx, id)
	if err != nil {
		return domain.GameSession{}, err
	}
	if err := authorizeOwner(session, userID); err != nil {
		return domain.GameSession{}, err
	}
	return session, nil
}

func (s *SessionService) invalidate(ctx context.Context, id string) {
	if err := s.snapshots.Invalidate(ctx, id); err != nil {
		log.Warn().Err(err).Str("gameSessionId", id).Msg("invalidate question snapshot failed")
	}
}

// buildSnapshot copies the questionnaire's questions in order. Questions that are missing or
// owned by someone other than ownerID are skipped, producing a shorter session.
func (s *SessionService) buildSnapshot(ctx context.Context, sessionID string, questionnaire domain.Questionnaire, ownerID string) ([]domain.SessionQuestion, error) {
	loaded := make([]*domain.Question, len(questionnaire.QuestionIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(snapshotFetchLimit)
	for i, questionID := range questionnaire.QuestionIDs {
		i, questionID := i, questionID
		g.Go(func() error {
			q, err := s.questions.GetQuestion(gctx, questionID)
			if errors.Is(err, domain.ErrQuestionNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("load question %s: %w", questionID, err)
			}
			loaded[i] = &q
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snapshot := make([]domain.SessionQuestion, 0, len(loaded))
	for i, q := range loaded {
		questionID := questionnaire.QuestionIDs[i]
		if q == nil {
			log.Warn().
				Str("gameSessionId", sessionID).
				Str("questionnaireId", questionnaire.ID).
				Str("questionId", questionID).
				Msg("question not found, skipped from snapshot")
			continue
		}
		if q.CreatedBy != ownerID {
			log.Warn().
				Str("gameSessionId", sessionID).
				Str("questionnaireId", questionnaire.ID).
				Str("questionId", questionID).
				Msg("question owned by another user, skipped from snapshot")
			continue
		}
		snapshot = append(snapshot, domain.NewSessionQuestion(*q))
	}
	return snapshot, nil
}

// uncachedSnapshots reads snapshots straight from the session documents.
type uncachedSnapshots struct {
	sessions GameSessionRepository
}

func (u uncachedSnapshots) Questions(ctx context.Context, sessionID string) ([]domain.SessionQuestion, error) {
	session, err := u.sessions.GetGameSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Questions, nil
}

func (uncachedSnapshots) Invalidate(context.Context, string) error { return nil }
