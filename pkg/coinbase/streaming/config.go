package streaming

import (
	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase/types"
	"github.com/backtesting-org/coinbase-streaming/pkg/websocket/connection"
)

// Config is everything a session needs to dial and subscribe
type Config struct {
	URL           string
	OrderBookMode types.OrderBookMode
	Auth          AuthSupplier
	UserAgent     string

	// Connection tunes the transport; its URL is replaced by URL
	Connection connection.Config

	// Dialer overrides the gorilla dialer
	Dialer connection.WebSocketDialer
}

// DefaultConfig returns a feed configuration for url
func DefaultConfig(url string, mode types.OrderBookMode) Config {
	return Config{
		URL:           url,
		OrderBookMode: mode,
		Connection:    connection.FeedConfig(url),
	}
}
