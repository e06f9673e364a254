package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"trivia-service/internal/domain"
)

// DefaultDisplayName is used when a player joins without a name.
const DefaultDisplayName = "Anonymous player"

// GameService contains the public player use cases: join, answer, progress and ranking.
type GameService struct {
	sessions  GameSessionRepository
	players   PlayerRepository
	snapshots SnapshotCache
	hub       *RankingHub
	opts      options
}

// NewGameService builds the service. snapshots and hub may be nil.
func NewGameService(sessions GameSessionRepository, players PlayerRepository, snapshots SnapshotCache, hub *RankingHub, opts ...Option) *GameService {
	if snapshots == nil {
		snapshots = uncachedSnapshots{sessions: sessions}
	}
	if hub == nil {
		hub = NewRankingHub()
	}
	return &GameService{
		sessions:  sessions,
		players:   players,
		snapshots: snapshots,
		hub:       hub,
		opts:      buildOptions(opts),
	}
}

// Session returns the session document; callers strip expected answers before exposing it.
func (g *GameService) Session(ctx context.Context, sessionID string) (domain.GameSession, error) {
	return g.sessions.GetGameSession(ctx, sessionID)
}

// Join registers userID in a running, open session. Joining again only updates the display name.
func (g *GameService) Join(ctx context.Context, sessionID, userID, displayName string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	session, err := g.sessions.GetGameSession(ctx, sessionID)
	if err != nil {
		return err
	}
	switch session.Status {
	case domain.StatusWaiting:
		return domain.ErrSessionNotStarted
	case domain.StatusFinished:
		return domain.ErrSessionFinished
	}
	if !session.IsOpen {
		return domain.ErrSessionClosed
	}

	displayName = strings.TrimSpace(displayName)
	_, err = g.players.GetPlayer(ctx, sessionID, userID)
	switch {
	case err == nil:
		return g.rename(ctx, sessionID, userID, displayName)
	case !errors.Is(err, domain.ErrPlayerNotFound):
		return err
	}

	name := displayName
	if name == "" {
		name = DefaultDisplayName
	}
	progress := domain.PlayerProgress{
		UserID:      userID,
		DisplayName: name,
		StartedAt:   g.opts.now(),
	}
	if err := g.players.CreatePlayer(ctx, sessionID, progress); err != nil {
		if errors.Is(err, domain.ErrPlayerExists) {
			return g.rename(ctx, sessionID, userID, displayName)
		}
		return fmt.Errorf("create player %s: %w", userID, err)
	}
	if err := g.sessions.AddPlayer(ctx, sessionID, userID); err != nil {
		return fmt.Errorf("add player %s to session %s: %w", userID, sessionID, err)
	}

	g.opts.publish(ctx, domain.Event{Type: domain.EventPlayerJoined, GameSessionID: sessionID, UserID: userID})
	g.pushRanking(ctx, sessionID)
	return nil
}

func (g *GameService) rename(ctx context.Context, sessionID, userID, displayName string) error {
	if displayName == "" {
		return nil
	}
	if err := g.players.UpdateDisplayName(ctx, sessionID, userID, displayName); err != nil {
		return fmt.Errorf("update display name of %s: %w", userID, err)
	}
	g.pushRanking(ctx, sessionID)
	return nil
}

// Progress returns the player's progress, or nil when the player has not joined.
func (g *GameService) Progress(ctx context.Context, sessionID, userID string) (*domain.PlayerProgress, error) {
	p, err := g.players.GetPlayer(ctx, sessionID, userID)
	if errors.Is(err, domain.ErrPlayerNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SubmitAnswer validates answer for the player's current question and records the outcome.
// The write is conditional on the progress the decision was based on.
func (g *GameService) SubmitAnswer(ctx context.Context, sessionID, userID string, questionIndex int, answer any) (domain.AnswerResult, error) {
	if answer == nil {
		return domain.AnswerResult{}, domain.ErrInvalidInput
	}
	progress, err := g.players.GetPlayer(ctx, sessionID, userID)
	if err != nil {
		return domain.AnswerResult{}, err
	}
	if progress.FinishedAt != nil || progress.CurrentQuestionIndex != questionIndex {
		return domain.AnswerResult{}, domain.ErrInvalidQuestionIndex
	}

	questions, err := g.snapshots.Questions(ctx, sessionID)
	if err != nil {
		return domain.AnswerResult{}, err
	}
	if questionIndex < 0 || questionIndex >= len(questions) {
		return domain.AnswerResult{}, domain.ErrQuestionNotFound
	}
	question := questions[questionIndex]

	correct, err := domain.CheckAnswer(question, answer)
	if err != nil {
		return domain.AnswerResult{}, err
	}

	now := g.opts.now()
	next := progress
	next.Revision++
	next.LastAnswerAt = &now
	if correct {
		next.CurrentQuestionIndex++
		next.Score += question.Points
		if next.CurrentQuestionIndex >= len(questions) {
			next.FinishedAt = &now
		}
	} else {
		next.TotalPenaltySeconds += question.PenaltySeconds
	}

	if err := g.players.SwapProgress(ctx, sessionID, progress, next); err != nil {
		return domain.AnswerResult{}, err
	}

	result := domain.AnswerResult{
		Correct:           correct,
		Message:           domain.MessageIncorrect,
		NextQuestionIndex: next.CurrentQuestionIndex,
		Finished:          next.FinishedAt != nil,
	}
	if correct {
		result.Message = domain.MessageCorrect
	}
	if result.Finished {
		log.Info().Str("gameSessionId", sessionID).Str("userId", userID).Int("score", next.Score).Msg("player finished")
		g.opts.publish(ctx, domain.Event{Type: domain.EventPlayerFinished, GameSessionID: sessionID, UserID: userID})
	}
	g.pushRanking(ctx, sessionID)
	return result, nil
}

// Ranking returns every player of the session, best first.
func (g *GameService) Ranking(ctx context.Context, sessionID string) ([]domain.RankingEntry, error) {
	if _, err := g.sessions.GetGameSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return g.ranking(ctx, sessionID)
}

// SubscribeRanking returns a channel that receives the current ranking and every later change.
// The caller must invoke the returned cancel function to avoid leaks.
func (g *GameService) SubscribeRanking(ctx context.Context, sessionID string) (<-chan domain.Ranking, func(), error) {
	entries, err := g.Ranking(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := g.hub.subscribe(sessionID, domain.Ranking{
		GameSessionID: sessionID,
		Entries:       entries,
		UpdatedAt:     g.opts.now(),
	})
	return ch, cancel, nil
}

func (g *GameService) ranking(ctx context.Context, sessionID string) ([]domain.RankingEntry, error) {
	players, err := g.players.ListPlayers(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list players of %s: %w", sessionID, err)
	}
	return SortRanking(players), nil
}

func (g *GameService) pushRanking(ctx context.Context, sessionID string) {
	if !g.hub.hasSubscribers(sessionID) {
		return
	}
	entries, err := g.ranking(ctx, sessionID)
	if err != nil {
		log.Warn().Err(err).Str("gameSessionId", sessionID).Msg("refresh live ranking failed")
		return
	}
	g.hub.broadcast(domain.Ranking{GameSessionID: sessionID, Entries: entries, UpdatedAt: g.opts.now()})
}
