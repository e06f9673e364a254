package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"trivia-service/internal/domain"
	"trivia-service/internal/infra/memory"
)

func TestSnapshotCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{SnapshotLoader: seededSessions(t)}
	cache := NewSnapshotCache(newClient(mr), loader, time.Minute)

	questions, err := cache.Questions(context.Background(), "gs-1")
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if len(questions) != 2 || questions[1].Validation.ExpectedAnswer.Text != "Paris" {
		t.Fatalf("unexpected snapshot %+v", questions)
	}
	if !mr.Exists("gamesession:gs-1:questions") {
		t.Fatalf("expected snapshot key in redis")
	}
	if ttl := mr.TTL("gamesession:gs-1:questions"); ttl < time.Minute || ttl > time.Minute+6*time.Second {
		t.Fatalf("unexpected ttl %v", ttl)
	}

	// Second call should hit cache and keep question order.
	questions, _ = cache.Questions(context.Background(), "gs-1")
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if questions[0].ID != "q1" || questions[1].ID != "q2" {
		t.Fatalf("cached snapshot lost order: %+v", questions)
	}
}

func TestSnapshotCacheInvalidate(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{SnapshotLoader: seededSessions(t)}
	cache := NewSnapshotCache(newClient(mr), loader, time.Minute)

	_, _ = cache.Questions(context.Background(), "gs-1")
	if err := cache.Invalidate(context.Background(), "gs-1"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if mr.Exists("gamesession:gs-1:questions") {
		t.Fatalf("expected snapshot key removed")
	}
	_, _ = cache.Questions(context.Background(), "gs-1")
	if loader.calls != 2 {
		t.Fatalf("expected reload after invalidate, loader calls=%d", loader.calls)
	}
}

func TestSnapshotCacheFallsBackWhenRedisDown(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	client := newClient(mr)
	mr.Close()

	loader := &countingLoader{SnapshotLoader: seededSessions(t)}
	cache := NewSnapshotCache(client, loader, time.Minute)

	questions, err := cache.Questions(context.Background(), "gs-1")
	if err != nil {
		t.Fatalf("expected loader fallback, got %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("unexpected snapshot %+v", questions)
	}
}

type countingLoader struct {
	SnapshotLoader
	calls int
}

func (l *countingLoader) LoadSnapshot(ctx context.Context, sessionID string) ([]domain.SessionQuestion, error) {
	l.calls++
	return l.SnapshotLoader.LoadSnapshot(ctx, sessionID)
}

func seededSessions(t *testing.T) *memory.SessionStore {
	t.Helper()
	store := memory.NewSessionStore()
	err := store.CreateGameSession(context.Background(), domain.GameSession{
		ID:     "gs-1",
		Status: domain.StatusRunning,
		Questions: []domain.SessionQuestion{
			{ID: "q1", Type: domain.QuestionNumber, Title: "What is 2 + 2?", Points: 1},
			{
				ID: "q2", Type: domain.QuestionText, Title: "Capital of France?", Points: 2,
				Validation: domain.Validation{ExpectedAnswer: domain.ExpectedAnswer{Text: "Paris"}},
			},
		},
	})
	if err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return store
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:       mr.Addr(),
		MaxRetries: -1,
	})
}
