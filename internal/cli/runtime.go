package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"quiz-hosting-service/internal/app"
	"quiz-hosting-service/internal/config"
	"quiz-hosting-service/internal/infra/memory"
	"quiz-hosting-service/internal/infra/postgres"
	redisstore "quiz-hosting-service/internal/infra/redis"
	"quiz-hosting-service/internal/infra/sqlite"
	"quiz-hosting-service/internal/logging"

	"github.com/redis/go-redis/v9"
)

// quizStore is what every backend provides.
type quizStore interface {
	app.QuizStore
	Ping(ctx context.Context) error
	Close() error
}

// loadRuntime reads config and installs the configured logger as the slog default.
func loadRuntime(path string) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}
	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return cfg, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func openStore(ctx context.Context, cfg config.Config) (quizStore, string, error) {
	backend, err := cfg.Backend()
	if err != nil {
		return nil, "", err
	}

	switch backend {
	case config.BackendPostgres:
		if cfg.Postgres.URL == "" {
			return nil, backend, fmt.Errorf("postgres url not configured")
		}
		store, err := postgres.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, backend, fmt.Errorf("connect postgres: %w", err)
		}
		return store, backend, nil
	case config.BackendRedis:
		if cfg.Redis.Addr == "" {
			return nil, backend, fmt.Errorf("redis addr not configured")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return redisstore.NewQuizStore(client), backend, nil
	case config.BackendSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, backend, fmt.Errorf("open sqlite: %w", err)
		}
		return store, backend, nil
	}
	return memory.NewQuizStore(), backend, nil
}
