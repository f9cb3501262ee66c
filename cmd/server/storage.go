package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/artem13815/interview/pkg/config"
	"github.com/artem13815/interview/pkg/health"
	"github.com/artem13815/interview/pkg/health/checkers"
	"github.com/artem13815/interview/pkg/interview"
	"github.com/artem13815/interview/pkg/repository/memory"
	pgrepo "github.com/artem13815/interview/pkg/repository/postgres"
	redisrepo "github.com/artem13815/interview/pkg/repository/redis"
	sqliterepo "github.com/artem13815/interview/pkg/repository/sqlite"
	"github.com/artem13815/interview/pkg/storage/migrations"
	"github.com/artem13815/interview/pkg/storage/postgres"
	redisstore "github.com/artem13815/interview/pkg/storage/redis"
	"github.com/artem13815/interview/pkg/storage/sqlite"
)

// storage is the history backend selected by STORAGE_DRIVER.
type storage struct {
	repo     interview.SessionRepository
	checkers []health.Checker
	close    func()
}

// openStorage connects the configured driver and brings SQL schemas up to date.
func openStorage(ctx context.Context, cfg config.Config, log *slog.Logger) (*storage, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		log.Warn("using in-memory session history, data is lost on restart")
		return &storage{repo: memory.NewSessionRepository(), close: func() {}}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		version, err := migrations.Up(ctx, db, migrations.SQLite)
		if err != nil {
			db.Close()
			return nil, err
		}
		log.Info("sqlite schema ready", "path", cfg.SQLitePath, "version", version)
		repo, err := sqliterepo.NewSessionRepository(db)
		if err != nil {
			db.Close()
			return nil, err
		}
		return &storage{
			repo:     repo,
			checkers: []health.Checker{checkers.NewSQLChecker("sqlite", db)},
			close:    func() { _ = db.Close() },
		}, nil

	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgres connect: %w", err)
		}
		version, err := migrations.Up(ctx, postgres.SQL(pool), migrations.Postgres)
		if err != nil {
			pool.Close()
			return nil, err
		}
		log.Info("postgres schema ready", "version", version)
		return &storage{
			repo:     pgrepo.NewSessionRepository(pool),
			checkers: []health.Checker{checkers.NewPostgresChecker(pool)},
			close:    pool.Close,
		}, nil

	case config.DriverRedis:
		client, err := redisstore.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return &storage{
			repo:     redisrepo.NewSessionRepository(client),
			checkers: []health.Checker{checkers.NewRedisChecker(client)},
			close:    func() { _ = client.Close() },
		}, nil
	}
	return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
}
