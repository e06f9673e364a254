package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"trivia-service/internal/app"
	"trivia-service/internal/auth"
	"trivia-service/internal/config"
	"trivia-service/internal/infra/memory"
	"trivia-service/internal/infra/postgres"
	"trivia-service/internal/infra/rabbitmq"
	redissnapshots "trivia-service/internal/infra/redis"
	"trivia-service/internal/infra/s3"
	"trivia-service/internal/logger"
	transport "trivia-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the trivia server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

// stores groups the repositories the services run on.
type stores struct {
	questions      app.QuestionRepository
	questionnaires app.QuestionnaireRepository
	sessions       app.GameSessionRepository
	players        app.PlayerRepository
	users          app.UserRepository
	loader         memory.SnapshotLoader
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger.Init(cfg.Log.Level, cfg.Log.Pretty)

	if cfg.Auth.Secret == "" {
		return fmt.Errorf("auth secret not configured")
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var st stores
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()
		pg := postgres.NewStore(pool)
		st = stores{questions: pg, questionnaires: pg, sessions: pg, players: pg, users: pg, loader: pg}
		log.Info().Msg("using postgres document store")
	} else {
		sessions := memory.NewSessionStore()
		st = stores{
			questions:      memory.NewQuestionStore(),
			questionnaires: memory.NewQuestionnaireStore(),
			sessions:       sessions,
			players:        memory.NewPlayerStore(),
			users:          memory.NewUserStore(),
			loader:         sessions,
		}
		log.Warn().Msg("postgres not configured, data is kept in memory")
	}

	snapshotTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)
	var snapshots app.SnapshotCache
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, snapshot reads will fall back to the store")
		}
		snapshots = redissnapshots.NewSnapshotCache(client, st.loader, snapshotTTL)
	} else {
		snapshots = memory.NewSnapshotCache(st.loader, snapshotTTL)
	}

	opts := []app.Option{}
	if cfg.RabbitMQ.URL != "" {
		queue := cfg.RabbitMQ.Queue
		if queue == "" {
			queue = "game-events"
		}
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, queue)
		if err != nil {
			return err
		}
		defer publisher.Close()
		opts = append(opts, app.WithEventPublisher(publisher))
	}

	var media app.MediaStore
	if cfg.S3.Endpoint != "" {
		store, err := s3.NewMediaStore(s3.Config{
			Endpoint:      cfg.S3.Endpoint,
			AccessKey:     cfg.S3.AccessKey,
			SecretKey:     cfg.S3.SecretKey,
			Bucket:        cfg.S3.Bucket,
			UseSSL:        cfg.S3.UseSSL,
			PublicBaseURL: cfg.S3.PublicBaseURL,
		})
		if err != nil {
			return err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return err
		}
		media = store
	}

	services := transport.Services{
		Questions:      app.NewQuestionService(st.questions, media, opts...),
		Questionnaires: app.NewQuestionnaireService(st.questionnaires, opts...),
		Sessions:       app.NewSessionService(st.sessions, st.questionnaires, st.questions, snapshots, opts...),
		Game:           app.NewGameService(st.sessions, st.players, snapshots, app.NewRankingHub(), opts...),
		Users:          app.NewUserService(st.users, opts...),
	}

	routerCfg := transport.Config{
		Identity:           auth.NewVerifier(cfg.Auth.Secret, cfg.Auth.Issuer),
		EnforceAttestation: cfg.Auth.AppCheckEnforce,
		BindCallerIdentity: cfg.Auth.BindCallerIdentity,
	}
	if cfg.Auth.AppCheckSecret != "" {
		routerCfg.Attestation = auth.NewAttestationVerifier(cfg.Auth.AppCheckSecret)
	}

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(services, routerCfg),
		ReadTimeout:  config.TTLDuration(cfg.Server.ReadTimeout, 15*time.Second),
		WriteTimeout: config.TTLDuration(cfg.Server.WriteTimeout, 15*time.Second),
	}

	go func() {
		log.Info().Str("port", finalPort).Msg("starting trivia service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info().Msg("shutting down server...")
	case <-ctx.Done():
		log.Info().Msg("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
