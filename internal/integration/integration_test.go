package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
	"trivia-service/internal/infra/postgres"
	infraredis "trivia-service/internal/infra/redis"
	pgmigrations "trivia-service/internal/infra/postgres/migrations"
)

func TestGameSessionEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	migrateSchema(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()
	store := postgres.NewStore(pool)

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()
	snapshots := infraredis.NewSnapshotCache(redisClient, store, 5*time.Minute)

	questions := app.NewQuestionService(store, nil)
	questionnaires := app.NewQuestionnaireService(store)
	sessions := app.NewSessionService(store, store, store, snapshots)
	game := app.NewGameService(store, store, snapshots, nil)

	four := 4.0
	q1, err := questions.Create(ctx, "author", domain.Question{
		Type: domain.QuestionNumber, Title: "2 + 2", Points: 3, PenaltySeconds: 5,
		ExpectedAnswer: &domain.ExpectedAnswer{Value: &four},
	})
	if err != nil {
		t.Fatalf("create q1: %v", err)
	}
	q2, err := questions.Create(ctx, "author", domain.Question{
		Type: domain.QuestionText, Title: "Capital of France", Points: 2,
		ExpectedAnswer: &domain.ExpectedAnswer{Text: "Paris"},
	})
	if err != nil {
		t.Fatalf("create q2: %v", err)
	}
	foreign, err := questions.Create(ctx, "someone-else", domain.Question{Type: domain.QuestionText, Title: "Not yours"})
	if err != nil {
		t.Fatalf("create foreign: %v", err)
	}
	qn, err := questionnaires.Create(ctx, "author", "Warmup", []string{q1, foreign, q2})
	if err != nil {
		t.Fatalf("create questionnaire: %v", err)
	}

	id, err := sessions.Create(ctx, qn, "author")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	session, err := sessions.Get(ctx, id, "author")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if len(session.Questions) != 2 || session.Questions[0].ID != q1 || session.Questions[1].ID != q2 {
		t.Fatalf("expected foreign question skipped, got %+v", session.Questions)
	}
	if err := sessions.UpdateStatus(ctx, id, "author", domain.StatusRunning); err != nil {
		t.Fatalf("start session: %v", err)
	}

	if err := game.Join(ctx, id, "u1", "Alice"); err != nil {
		t.Fatalf("join u1: %v", err)
	}
	if err := game.Join(ctx, id, "u2", "Bob"); err != nil {
		t.Fatalf("join u2: %v", err)
	}
	if err := game.Join(ctx, id, "u1", "Alicia"); err != nil {
		t.Fatalf("rejoin u1: %v", err)
	}

	if _, err := game.SubmitAnswer(ctx, id, "u1", 0, "5"); err != nil {
		t.Fatalf("wrong answer: %v", err)
	}
	for _, step := range []struct {
		user   string
		index  int
		answer any
	}{
		{"u1", 0, 4.0},
		{"u1", 1, "paris"},
		{"u2", 0, "4"},
	} {
		result, err := game.SubmitAnswer(ctx, id, step.user, step.index, step.answer)
		if err != nil || !result.Correct {
			t.Fatalf("answer %+v: result=%+v err=%v", step, result, err)
		}
	}

	ranking, err := game.Ranking(ctx, id)
	if err != nil {
		t.Fatalf("ranking: %v", err)
	}
	if len(ranking) != 2 || ranking[0].UserID != "u1" || ranking[0].Score != 5 || ranking[0].TotalPenaltySeconds != 5 || ranking[0].FinishedAt == nil {
		t.Fatalf("unexpected leader %+v", ranking)
	}
	if ranking[0].DisplayName != "Alicia" || ranking[1].Score != 3 {
		t.Fatalf("unexpected ranking %+v", ranking)
	}

	// Closing the session rewrites the document; the player set must survive.
	if err := sessions.SetOpen(ctx, id, "author", false); err != nil {
		t.Fatalf("close session: %v", err)
	}
	session, err = sessions.Get(ctx, id, "author")
	if err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if session.IsOpen || len(session.Players) != 2 {
		t.Fatalf("expected closed session with two players, got %+v", session)
	}

	stale, err := store.GetPlayer(ctx, id, "u2")
	if err != nil {
		t.Fatalf("get player: %v", err)
	}
	next := stale
	next.Revision++
	next.Score = 99
	if err := store.SwapProgress(ctx, id, stale, next); err != nil {
		t.Fatalf("first swap: %v", err)
	}
	if err := store.SwapProgress(ctx, id, stale, next); !errors.Is(err, domain.ErrProgressConflict) {
		t.Fatalf("expected progress conflict, got %v", err)
	}

	if _, err := redisClient.Get(ctx, "gamesession:"+id+":questions").Result(); err != nil {
		t.Fatalf("expected cached snapshot: %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "trivia", "POSTGRES_PASSWORD": "triviapass", "POSTGRES_DB": "trivia"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://trivia:triviapass@%s:%s/trivia?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func migrateSchema(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
