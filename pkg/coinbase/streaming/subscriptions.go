package streaming

import (
	"errors"
	"fmt"
	"slices"

	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase/types"
	"github.com/backtesting-org/coinbase-streaming/pkg/websocket/base"
)

var ErrInvalidSubscription = errors.New("invalid subscription")

// ValidateSubscription checks a subscription names a product and known channels
func ValidateSubscription(sub types.ProductSubscription) error {
	if sub.ProductID == "" {
		return fmt.Errorf("%w: product id is empty", ErrInvalidSubscription)
	}
	if len(sub.Channels) == 0 {
		return fmt.Errorf("%w: no channels for %s", ErrInvalidSubscription, sub.ProductID)
	}
	for _, ch := range sub.Channels {
		if !ch.Valid() {
			return fmt.Errorf("%w: unknown channel %q for %s, use one of %v",
				ErrInvalidSubscription, ch, sub.ProductID, types.Channels())
		}
	}
	return nil
}

// buildSubscribeRequest groups products by feed channel, keeping first-seen order
func buildSubscribeRequest(msgType string, subs []types.ProductSubscription, mode types.OrderBookMode) base.SubscribeRequest {
	var names []string
	products := make(map[string][]string)

	for _, sub := range subs {
		for _, ch := range sub.Channels {
			name := ch.FeedName(mode)
			ids, seen := products[name]
			if !seen {
				names = append(names, name)
			}
			if !slices.Contains(ids, sub.ProductID) {
				products[name] = append(ids, sub.ProductID)
			}
		}
	}

	channels := make([]base.ChannelSpec, 0, len(names))
	for _, name := range names {
		channels = append(channels, base.ChannelSpec{Name: name, ProductIDs: products[name]})
	}
	return base.SubscribeRequest{Type: msgType, Channels: channels}
}

func requiresAuth(subs []types.ProductSubscription) bool {
	for _, sub := range subs {
		if slices.ContainsFunc(sub.Channels, types.Channel.RequiresAuth) {
			return true
		}
	}
	return false
}

func authorize(req *base.SubscribeRequest, auth *types.AuthData) {
	if auth == nil {
		return
	}
	req.Key = auth.Key
	req.Passphrase = auth.Passphrase
	req.Signature = auth.Signature
	req.Timestamp = auth.Timestamp
}
