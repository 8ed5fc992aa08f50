package cli

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase"
)

// NewEndpointCmd creates a command printing the feed a stream would use
func NewEndpointCmd(exchange *coinbase.StreamingExchange) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "endpoint",
		Short: "Show the resolved feed URL and order book mode",
		Long: `Show the resolved feed URL and order book mode.

Resolution uses the same configuration a stream would use, so configuration
errors are reported here without opening a connection.
Use --json flag for machine-readable JSON output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			feed, err := exchange.Specification().ResolveFeed()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				output, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(feed, "", "  ")
				if err != nil {
					return fmt.Errorf("error marshalling feed: %w", err)
				}
				_, _ = fmt.Fprintln(out, string(output))
				return nil
			}

			_, _ = fmt.Fprintf(out, "Feed URL:        %s\n", feed.URL)
			_, _ = fmt.Fprintf(out, "Order book mode: %s\n", feed.Mode)
			for _, key := range feed.IgnoredParameters {
				_, _ = fmt.Fprintf(out, "Ignored:         %s\n", key)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}
