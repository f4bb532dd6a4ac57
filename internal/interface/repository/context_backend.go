package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"flightassist-service/internal/domain/repository"
	"flightassist-service/internal/infrastructure/config"
	"flightassist-service/internal/infrastructure/persistence"
)

// OpenContextRepository builds the context repository selected by CONTEXT_BACKEND.
// The returned close func releases the backend's own connection and is never nil.
func OpenContextRepository(ctx context.Context, cfg *config.Config, db *gorm.DB) (repository.ContextRepository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.ContextBackend {
	case config.BackendRedis:
		client, err := persistence.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return NewRedisContextRepository(client, cfg.ContextTTL), client.Close, nil
	case config.BackendBadger:
		bdb, err := persistence.NewBadgerDB(cfg.BadgerPath)
		if err != nil {
			return nil, noop, err
		}
		return NewBadgerContextRepository(bdb, cfg.ContextTTL), bdb.Close, nil
	case config.BackendPostgres:
		if db == nil {
			return nil, noop, fmt.Errorf("postgres context backend needs a database")
		}
		return NewGormContextRepository(db), noop, nil
	}
	return nil, noop, fmt.Errorf("unknown context backend %q", cfg.ContextBackend)
}
