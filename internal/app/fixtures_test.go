package app_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
	"trivia-service/internal/infra/memory"
)

var fixedNow = time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	questions      *memory.QuestionStore
	questionnaires *memory.QuestionnaireStore
	sessionStore   *memory.SessionStore
	players        *memory.PlayerStore
	events         *recordingPublisher

	questionSvc      *app.QuestionService
	questionnaireSvc *app.QuestionnaireService
	sessionSvc       *app.SessionService
	gameSvc          *app.GameService
}

func newFixture() *fixture {
	f := &fixture{
		questions:      memory.NewQuestionStore(),
		questionnaires: memory.NewQuestionnaireStore(),
		sessionStore:   memory.NewSessionStore(),
		players:        memory.NewPlayerStore(),
		events:         &recordingPublisher{},
	}
	var (
		mu  sync.Mutex
		seq int
	)
	opts := []app.Option{
		app.WithClock(func() time.Time { return fixedNow }),
		app.WithIDGenerator(func() string {
			mu.Lock()
			defer mu.Unlock()
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
		app.WithEventPublisher(f.events),
	}
	snapshots := memory.NewSnapshotCache(f.sessionStore, time.Minute)
	f.questionSvc = app.NewQuestionService(f.questions, nil, opts...)
	f.questionnaireSvc = app.NewQuestionnaireService(f.questionnaires, opts...)
	f.sessionSvc = app.NewSessionService(f.sessionStore, f.questionnaires, f.questions, snapshots, opts...)
	f.gameSvc = app.NewGameService(f.sessionStore, f.players, snapshots, nil, opts...)
	return f
}

func (f *fixture) putQuestion(t *testing.T, q domain.Question) {
	t.Helper()
	if err := f.questions.CreateQuestion(context.Background(), q); err != nil {
		t.Fatalf("seed question %s: %v", q.ID, err)
	}
}

func (f *fixture) putQuestionnaire(t *testing.T, q domain.Questionnaire) {
	t.Helper()
	if err := f.questionnaires.CreateQuestionnaire(context.Background(), q); err != nil {
		t.Fatalf("seed questionnaire %s: %v", q.ID, err)
	}
}

// runningSession seeds a two question quiz owned by "author" and returns a RUNNING session id.
func (f *fixture) runningSession(t *testing.T) string {
	t.Helper()
	value := 4.0
	f.putQuestion(t, domain.Question{
		ID: "q1", Type: domain.QuestionText, Title: "Capital of France?", Points: 10, PenaltySeconds: 2,
		ExpectedAnswer: &domain.ExpectedAnswer{Text: "Paris"}, CreatedBy: "author",
	})
	f.putQuestion(t, domain.Question{
		ID: "q2", Type: domain.QuestionNumber, Title: "2+2?", Points: 5, PenaltySeconds: 3,
		ExpectedAnswer: &domain.ExpectedAnswer{Value: &value}, CreatedBy: "author",
	})
	f.putQuestionnaire(t, domain.Questionnaire{ID: "qn", Title: "Warmup", QuestionIDs: []string{"q1", "q2"}, CreatedBy: "author"})

	ctx := context.Background()
	id, err := f.sessionSvc.Create(ctx, "qn", "author")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if err := f.sessionSvc.UpdateStatus(ctx, id, "author", domain.StatusRunning); err != nil {
		t.Fatalf("start session: %v", err)
	}
	return id
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []domain.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.EventType, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}
