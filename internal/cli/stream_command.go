package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/backtesting-org/coinbase-streaming/internal/cli/handlers"
	"github.com/backtesting-org/coinbase-streaming/internal/services"
	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase"
	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase/types"
)

var defaultChannels = []string{string(types.ChannelOrderBook), string(types.ChannelTicker)}

// NewStreamCmd creates the stream command
func NewStreamCmd(exchange *coinbase.StreamingExchange, journal *services.Journal, logger *zap.Logger) *cobra.Command {
	var (
		products []string
		channels []string
	)

	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Stream market data for one or more products",
		Example: `  coinbase-stream stream -p BTC-USD -p ETH-USD
  coinbase-stream stream -p BTC-USD -c orderbook,trades,user`,
		RunE: func(cmd *cobra.Command, args []string) error {
			subs, err := buildSubscriptions(products, channels)
			if err != nil {
				return err
			}
			return handlers.RunFeed(cmd.Context(), exchange, journal, subs, logger)
		},
	}

	cmd.Flags().StringSliceVarP(&products, "product", "p", nil, "Product id to subscribe to (repeatable)")
	cmd.Flags().StringSliceVarP(&channels, "channel", "c", defaultChannels, "Channels for every product")
	_ = cmd.MarkFlagRequired("product")

	return cmd
}

// buildSubscriptions subscribes every product to the same channels
func buildSubscriptions(products, channels []string) ([]types.ProductSubscription, error) {
	parsed := make([]types.Channel, 0, len(channels))
	for _, name := range channels {
		ch := types.Channel(strings.ToLower(strings.TrimSpace(name)))
		if !ch.Valid() {
			return nil, fmt.Errorf("unknown channel %q, use one of %v", name, types.Channels())
		}
		parsed = append(parsed, ch)
	}

	subs := make([]types.ProductSubscription, 0, len(products))
	for _, product := range products {
		subs = append(subs, types.NewProductSubscription(strings.ToUpper(strings.TrimSpace(product)), parsed...))
	}
	return subs, nil
}
