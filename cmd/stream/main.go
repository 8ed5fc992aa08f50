package main

import (
	"go.uber.org/fx"

	"github.com/backtesting-org/coinbase-streaming/internal/cli"
	"github.com/backtesting-org/coinbase-streaming/internal/config"
	"github.com/backtesting-org/coinbase-streaming/internal/database"
	"github.com/backtesting-org/coinbase-streaming/internal/infrastructure"
	"github.com/backtesting-org/coinbase-streaming/internal/services"
	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase"
)

func main() {
	fx.New(
		fx.Provide(
			config.LoadConfig,
			config.ProvideSpecification,
		),
		fx.WithLogger(infrastructure.EventLogger),

		// Logging and lifecycle
		infrastructure.Module,

		// Optional connection journal
		database.Module,
		services.Module,

		// Streaming exchange, REST client and session factory
		coinbase.Module,

		// CLI commands
		cli.Module,
	).Run()
}
