package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/backtesting-org/coinbase-streaming/internal/services"
	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase"
	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase/streaming"
	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase/types"
	"github.com/backtesting-org/coinbase-streaming/pkg/websocket/base"
)

// StatsInterval is how often RunFeed logs message counts
var StatsInterval = 10 * time.Second

const disconnectTimeout = 10 * time.Second

// FeedExchange is the part of the streaming exchange RunFeed drives
type FeedExchange interface {
	services.LifecycleSource
	Connect(ctx context.Context, subs ...types.ProductSubscription) (*coinbase.Completion, error)
	Disconnect(ctx context.Context) *coinbase.Completion
	StreamingMarketDataService() (streaming.MarketDataService, error)
	Stats() (map[string]interface{}, error)
}

// RunFeed connects, journals lifecycle events and logs market data until ctx
// ends or the session is torn down
func RunFeed(ctx context.Context, exchange FeedExchange, journal *services.Journal, subs []types.ProductSubscription, logger *zap.Logger) error {
	completion, err := exchange.Connect(ctx, subs...)
	if err != nil {
		return err
	}
	if err := completion.Wait(ctx); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
		defer cancel()
		if err := exchange.Disconnect(stopCtx).Wait(stopCtx); err != nil {
			logger.Warn("Disconnect did not complete cleanly", zap.Error(err))
		}
	}()

	sessionID, _, err := journal.Track(ctx, exchange)
	if err != nil {
		return fmt.Errorf("failed to track session: %w", err)
	}

	marketData, err := exchange.StreamingMarketDataService()
	if err != nil {
		return err
	}
	book, trades, tickers := marketData.OrderBook(""), marketData.Trades(""), marketData.Ticker("")

	logger.Info("Streaming", zap.Stringer("session", sessionID), zap.Int("subscriptions", len(subs)))

	ticker := time.NewTicker(StatsInterval)
	defer ticker.Stop()

	counts := make(map[string]int)
	count := func(msg base.Message) {
		counts[msg.Type]++
		logger.Debug("Feed message",
			zap.String("type", msg.Type),
			zap.String("product", msg.ProductID),
			zap.Int64("sequence", msg.Sequence))
	}

	for book != nil || trades != nil || tickers != nil {
		select {
		case <-ctx.Done():
			logger.Info("Shutting down...", zap.Any("messages", counts))
			return nil

		case msg, ok := <-book:
			if !ok {
				book = nil
				continue
			}
			count(msg)

		case msg, ok := <-trades:
			if !ok {
				trades = nil
				continue
			}
			count(msg)

		case msg, ok := <-tickers:
			if !ok {
				tickers = nil
				continue
			}
			count(msg)

		case <-ticker.C:
			stats, err := exchange.Stats()
			if err != nil {
				logger.Warn("No stats available", zap.Error(err))
				continue
			}
			logger.Info("Feed stats", zap.Any("messages", counts), zap.Any("transport", stats))
		}
	}

	return errors.New("streaming session closed")
}
