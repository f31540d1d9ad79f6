package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/devforge/auth-service/internal/api"
	"github.com/devforge/auth-service/internal/api/handler"
	"github.com/devforge/auth-service/internal/core/ports"
	"github.com/devforge/auth-service/internal/core/service"
	"github.com/devforge/auth-service/internal/infrastructure/config"
	"github.com/devforge/auth-service/internal/infrastructure/db/memory"
	mongodb "github.com/devforge/auth-service/internal/infrastructure/db/mongo"
	"github.com/devforge/auth-service/internal/infrastructure/db/postgres"
	redisdb "github.com/devforge/auth-service/internal/infrastructure/db/redis"
	"github.com/devforge/auth-service/internal/infrastructure/queue"
	"github.com/devforge/auth-service/pkg/logger"
)

func main() {
	// Local development convenience; production provides real env vars.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fallback := logger.Init(logger.Options{})
		fallback.Fatal().Err(err).Msg("configuration invalid")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	tokens, err := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Algorithm, cfg.TokenTTL())
	if err != nil {
		log.Fatal().Err(err).Msg("token service init failed")
	}

	var (
		repo      ports.UserRepository
		recorder  ports.AuditRecorder = queue.NewLogRecorder(log)
		readiness []handler.DependencyCheck
	)

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, postgres.Config{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
			SSLMode:  cfg.Postgres.SSLMode,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("postgres connection failed")
		}
		defer pool.Close()

		pgRepo := postgres.NewUserRepository(pool)
		if err := pgRepo.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("postgres schema setup failed")
		}
		repo = pgRepo
		readiness = append(readiness, handler.DependencyCheck{Name: "postgres", Ping: pool.Ping})

	case config.DriverMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connection failed")
		}
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}()

		mongoRepo := mongodb.NewUserRepository(db)
		if err := mongoRepo.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("mongo index setup failed")
		}
		repo = mongoRepo
		recorder = mongodb.NewAuditRepository(db)
		readiness = append(readiness, handler.DependencyCheck{
			Name: "mongodb",
			Ping: func(ctx context.Context) error { return client.Ping(ctx, nil) },
		})

	case config.DriverMemory:
		repo = memory.NewUserRepository()
	}

	authService, err := service.NewAuthService(repo, tokens)
	if err != nil {
		log.Fatal().Err(err).Msg("auth service init failed")
	}

	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer func() { _ = rdb.Close() }()

		authService.WithThrottle(redisdb.NewLoginThrottle(rdb, cfg.Throttle.MaxAttempts, cfg.Throttle.Window))
		readiness = append(readiness, handler.DependencyCheck{
			Name: "redis",
			Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}

	dispatcher := queue.NewDispatcher(0, recorder, log)
	dispatcher.Start(ctx)
	authService.WithAudit(dispatcher)

	e := api.NewRouter(api.Dependencies{
		AuthService:   authService,
		Verifier:      tokens,
		Readiness:     readiness,
		Log:           log,
		EnableMetrics: true,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().
		Str("port", cfg.Port).
		Str("driver", cfg.Store.Driver).
		Msg("auth service started")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
