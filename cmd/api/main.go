package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-code-review/internal/catalog"
	"github.com/noah-isme/gema-code-review/internal/config"
	"github.com/noah-isme/gema-code-review/internal/database"
	"github.com/noah-isme/gema-code-review/internal/handler"
	"github.com/noah-isme/gema-code-review/internal/middleware"
	"github.com/noah-isme/gema-code-review/internal/repository"
	"github.com/noah-isme/gema-code-review/internal/router"
	"github.com/noah-isme/gema-code-review/internal/service"
	"github.com/noah-isme/gema-code-review/internal/session"
	"github.com/noah-isme/gema-code-review/pkg/ai"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	cat, err := catalog.Default()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load challenge catalog")
	}

	challengeRepo := repository.NewChallengeRepository(db)
	if _, err := service.NewSeedService(challengeRepo, logger).SeedChallenges(ctx, cat); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed challenges")
	}

	store, closeStore := buildSessionStore(ctx, cfg, logger)
	defer closeStore()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			logger.Warn().Err(err).Msg("evaluation events disabled")
		} else {
			defer natsConn.Drain()
		}
	}

	randomSource := ai.DefaultRandomSource()
	if cfg.EvaluatorSeed != 0 {
		randomSource = ai.NewSeededSource(cfg.EvaluatorSeed)
	}
	evaluator := ai.NewHeuristicEvaluator(ai.HeuristicConfig{
		Latency: cfg.EvaluatorLatency,
		Random:  randomSource,
		Logger:  logger,
	})

	validate := validator.New(validator.WithRequiredStructEnabled())

	challengeService := service.NewChallengeService(challengeRepo, logger)
	evaluationService := service.NewEvaluationService(challengeRepo, evaluator, store, service.NewNATSEvaluationPublisher(natsConn, cfg.EventsSubject), validate, logger)
	quickService := service.NewQuickChallengeService(store, validate, cfg.EvaluatorLatency, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{
		Logger:    &logger,
		AccessLog: !cfg.IsProduction(),
		Session: middleware.SessionConfig{
			CookieName: cfg.SessionCookie,
			TTL:        cfg.SessionTTL,
			Secure:     cfg.SessionSecure,
		},
	})
	router.Register(app, cfg, router.Dependencies{
		ChallengeHandler:      handler.NewChallengeHandler(challengeService, validate, logger),
		EvaluationHandler:     handler.NewEvaluationHandler(evaluationService, logger),
		QuickChallengeHandler: handler.NewQuickChallengeHandler(quickService, logger),
		SessionHandler:        handler.NewSessionHandler(evaluationService, logger),
	})

	go func() {
		logger.Info().Str("address", cfg.HTTPAddress()).Int("challenges", cat.Len()).Msg("server starting")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(ctx, app, logger)
}

func buildSessionStore(ctx context.Context, cfg config.Config, logger zerolog.Logger) (session.Store, func()) {
	if cfg.RedisURL != "" {
		client, err := database.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		return session.NewRedisStore(client, cfg.SessionTTL, logger), func() { _ = client.Close() }
	}

	store := session.NewMemoryStore(cfg.SessionTTL)
	go sweepSessions(ctx, store, cfg.SessionTTL, logger)
	return store, func() {}
}

func sweepSessions(ctx context.Context, store *session.MemoryStore, ttl time.Duration, logger zerolog.Logger) {
	interval := ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := store.Sweep(); removed > 0 {
				logger.Debug().Int("removed", removed).Msg("expired sessions swept")
			}
		}
	}
}

func waitForShutdown(ctx context.Context, app *fiber.App, logger zerolog.Logger) {
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
