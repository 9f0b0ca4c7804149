package storage

import (
	"context"
	"fmt"

	"github.com/bradymd/trading212/internal/config"
	"github.com/bradymd/trading212/internal/logger"
	"github.com/bradymd/trading212/internal/postgres"
)

// OpenBackend builds the backend selected by cfg.Driver.
func OpenBackend(ctx context.Context, cfg config.StorageConfig, logger logger.Logger) (Backend, error) {
	switch cfg.Driver {
	case config.PostgresStorage:
		pgConfig := postgres.NewConfigFromEnv().Setup()
		logger.Debugf("trying to connect to db with: %s", pgConfig.Redacted())

		db, err := postgres.NewDB(ctx, pgConfig)
		if err != nil {
			return nil, err
		}

		backend := NewPostgresBackend(db, cfg.Installation)
		if err := backend.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return backend, nil
	case config.FileStorage, "":
		logger.Debugf("using state file %s", cfg.Path)
		return NewFileBackend(cfg.Path), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
