package types

import "fmt"

// OrderBookMode selects the granularity of order book updates for a session
type OrderBookMode int

const (
	OrderBookDefault OrderBookMode = iota
	OrderBookBatch
	OrderBookFull
)

var orderBookModes = []OrderBookMode{OrderBookDefault, OrderBookBatch, OrderBookFull}

// OrderBookModes returns every known mode in declaration order
func OrderBookModes() []OrderBookMode {
	return append([]OrderBookMode(nil), orderBookModes...)
}

// ParseOrderBookMode matches name exactly against the mode names
func ParseOrderBookMode(name string) (OrderBookMode, bool) {
	for _, m := range orderBookModes {
		if m.String() == name {
			return m, true
		}
	}
	return OrderBookDefault, false
}

func (m OrderBookMode) String() string {
	switch m {
	case OrderBookDefault:
		return "Default"
	case OrderBookBatch:
		return "Batch"
	case OrderBookFull:
		return "Full"
	default:
		return fmt.Sprintf("OrderBookMode(%d)", int(m))
	}
}

// FeedChannel is the feed channel carrying order book updates in this mode
func (m OrderBookMode) FeedChannel() string {
	switch m {
	case OrderBookBatch:
		return "level2_batch"
	case OrderBookFull:
		return "full"
	default:
		return "level2"
	}
}

// Channel is a logical stream a product can be subscribed to
type Channel string

const (
	ChannelOrderBook Channel = "orderbook"
	ChannelTrades    Channel = "trades"
	ChannelTicker    Channel = "ticker"
	ChannelHeartbeat Channel = "heartbeat"
	ChannelStatus    Channel = "status"

	// ChannelUser carries the authenticated user's orders and fills
	ChannelUser Channel = "user"
)

var channels = []Channel{ChannelOrderBook, ChannelTrades, ChannelTicker, ChannelHeartbeat, ChannelStatus, ChannelUser}

func Channels() []Channel {
	return append([]Channel(nil), channels...)
}

func (c Channel) Valid() bool {
	for _, known := range channels {
		if c == known {
			return true
		}
	}
	return false
}

// FeedName maps the channel to its feed name; the order book depends on mode
func (c Channel) FeedName(mode OrderBookMode) string {
	switch c {
	case ChannelOrderBook:
		return mode.FeedChannel()
	case ChannelTrades:
		return "matches"
	default:
		return string(c)
	}
}

// RequiresAuth reports whether the feed rejects the channel without auth data
func (c Channel) RequiresAuth() bool {
	return c == ChannelUser
}

// ProductSubscription requests channels for one product
type ProductSubscription struct {
	ProductID string    `json:"product_id"`
	Channels  []Channel `json:"channels"`
}

func NewProductSubscription(productID string, channels ...Channel) ProductSubscription {
	return ProductSubscription{ProductID: productID, Channels: channels}
}

// AuthData signs a subscribe request for private channels
type AuthData struct {
	Key        string `json:"key"`
	Passphrase string `json:"passphrase"`
	Signature  string `json:"signature"`
	Timestamp  string `json:"timestamp"`
}
