package coinbase

import (
	"context"

	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase/types"
	"github.com/backtesting-org/coinbase-streaming/pkg/logging"
	"github.com/backtesting-org/coinbase-streaming/pkg/websocket/performance"
)

// AuthDataProvider fetches feed auth data on a best effort basis. Failures
// degrade the session to public data: they are logged, counted and dropped.
type AuthDataProvider struct {
	accounts AccountService
	metrics  performance.Metrics
	logger   logging.ApplicationLogger
}

func NewAuthDataProvider(accounts AccountService, metrics performance.Metrics, logger logging.ApplicationLogger) *AuthDataProvider {
	if metrics == nil {
		metrics = performance.NewMetrics()
	}
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &AuthDataProvider{
		accounts: accounts,
		metrics:  metrics,
		logger:   logger,
	}
}

// Fetch returns nil without a network call when spec has no API key
func (p *AuthDataProvider) Fetch(ctx context.Context, spec ExchangeSpecification) *types.AuthData {
	if !spec.HasCredentials() {
		return nil
	}
	if p.accounts == nil {
		p.logger.Warn("API key configured but no account service available, streaming without auth")
		p.metrics.IncrementAuthFailure()
		return nil
	}

	data, err := p.accounts.GetWebsocketAuthData(ctx)
	if err != nil {
		p.logger.Warn("Failed to get authentication data for streaming: %v", err)
		p.metrics.IncrementAuthFailure()
		return nil
	}
	return data
}
