package infrastructure

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/backtesting-org/coinbase-streaming/internal/config"
	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase"
)

// RegisterLifecycle sets up application startup and shutdown hooks
func RegisterLifecycle(
	lc fx.Lifecycle,
	cfg *config.Config,
	spec coinbase.ExchangeSpecification,
	logger *zap.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			feed, err := spec.ResolveFeed()
			if err != nil {
				return err
			}
			logger.Info("Coinbase streaming client started",
				zap.String("feed", feed.URL),
				zap.String("order_book_mode", feed.Mode),
				zap.Bool("authenticated", spec.HasCredentials()),
				zap.Bool("journal", cfg.Journal.Enabled()))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Coinbase streaming client stopped")
			// Sync fails on stdout/stderr on some platforms; nothing to do about it
			_ = logger.Sync()
			return nil
		},
	})
}
