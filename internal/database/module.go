package database

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/backtesting-org/coinbase-streaming/internal/config"
)

//go:embed migrations/001_connection_events.sql
var initialSchema string

// Module provides the optional connection event journal store
var Module = fx.Module("database",
	fx.Provide(ProvideRepository),
	fx.Invoke(registerLifecycle),
)

// ProvideRepository connects to the journal database. It returns a nil
// repository when the journal is disabled.
func ProvideRepository(cfg *config.Config, logger *zap.Logger) (*Repository, error) {
	if !cfg.Journal.Enabled() {
		logger.Info("Connection journal disabled")
		return nil, nil
	}

	logger.Info("Connecting to journal database...")
	repo, err := NewRepository(cfg.Journal.ConnectionString, PoolConfig{
		MaxOpenConns:    cfg.Journal.MaxOpenConns,
		ConnMaxLifetime: time.Duration(cfg.Journal.ConnMaxLifetime) * time.Minute,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return repo, nil
}

func registerLifecycle(lc fx.Lifecycle, repo *Repository, logger *zap.Logger) {
	if repo == nil {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Running database migrations...")
			if err := repo.RunMigrations(ctx, initialSchema); err != nil {
				return err
			}
			logger.Info("Migrations completed successfully")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := repo.Close(); err != nil {
				logger.Error("Failed to close database connection", zap.Error(err))
			}
			return nil
		},
	})
}
