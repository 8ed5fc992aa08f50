package coinbase

import (
	"context"

	"go.uber.org/fx"

	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase/rest"
	"github.com/backtesting-org/coinbase-streaming/pkg/logging"
	"github.com/backtesting-org/coinbase-streaming/pkg/websocket/performance"
)

// Module wires the streaming exchange. It expects an ExchangeSpecification
// and a logging.ApplicationLogger to be provided elsewhere.
var Module = fx.Module("coinbase",
	fx.Provide(
		performance.NewMetrics,
		NewRESTClient,
		NewStreamingSessionFactory,
		NewStreamingExchange,
	),
	fx.Invoke(registerShutdown),
)

// NewRESTClient builds the REST client for spec. Without an explicit REST URL
// the sandbox flag selects the environment.
func NewRESTClient(spec ExchangeSpecification, logger logging.ApplicationLogger) (RESTClient, error) {
	baseURL := spec.RESTURL
	if baseURL == "" {
		baseURL = rest.ProductionURL
		if opts, _, err := spec.ResolveStreamingOptions(); err == nil && opts.UseSandbox {
			baseURL = rest.SandboxURL
		}
	}

	client, err := rest.NewClient(rest.Config{
		BaseURL:    baseURL,
		APIKey:     spec.APIKey,
		SecretKey:  spec.SecretKey,
		Passphrase: spec.Passphrase,
		UserAgent:  spec.UserAgent,
	}, logger)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func registerShutdown(lc fx.Lifecycle, exchange *StreamingExchange, logger logging.ApplicationLogger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("Disconnecting streaming exchange")
			return exchange.Disconnect(ctx).Wait(ctx)
		},
	})
}
