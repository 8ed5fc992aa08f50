package streaming

import (
	"context"
	"time"

	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase/types"
	"github.com/backtesting-org/coinbase-streaming/pkg/websocket/base"
	"github.com/backtesting-org/coinbase-streaming/pkg/websocket/connection"
)

// AuthSupplier is asked for auth data each time a subscribe request is sent.
// A nil result subscribes without authentication.
type AuthSupplier func(ctx context.Context) *types.AuthData

// ConnectionEvent reports a successful connection. Attempt is zero for the
// initial connect and the reconnect attempt number afterwards.
type ConnectionEvent struct {
	Attempt int
	At      time.Time
}

// Session is one live feed connection together with its views. Every stream
// accessor returns a new subscription that is closed when the session is torn down.
type Session interface {
	// SubscribeProducts registers subscriptions. Before Connect they are sent with
	// the initial subscribe request; afterwards they are sent immediately.
	SubscribeProducts(subs ...types.ProductSubscription) error

	// Connect dials the feed and sends the subscribe request. ctx bounds the
	// lifetime of the session including reconnects.
	Connect(ctx context.Context) error
	Disconnect() error
	IsSocketOpen() bool

	ReconnectFailures() <-chan error
	ConnectionSuccess() <-chan ConnectionEvent
	ConnectionStates() <-chan connection.ConnectionState
	Idle() <-chan time.Duration

	MarketData() MarketDataService
	Trade() TradeService

	Subscriptions() []types.ProductSubscription
	Stats() map[string]interface{}
}

// MarketDataService streams public market messages. An empty product id
// subscribes to every product.
type MarketDataService interface {
	OrderBook(productID string) <-chan base.Message
	Trades(productID string) <-chan base.Message
	Ticker(productID string) <-chan base.Message
	Heartbeats(productID string) <-chan base.Message

	// LastSequence is the highest sequence number seen for the product
	LastSequence(productID string) int64
}

// TradeService streams the authenticated user's activity
type TradeService interface {
	UserTrades(productID string) <-chan base.Message
	OrderChanges(productID string) <-chan base.Message
}
