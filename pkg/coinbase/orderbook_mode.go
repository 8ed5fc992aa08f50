package coinbase

import (
	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase/types"
)

// ResolveOrderBookMode combines the explicit mode with the legacy full order
// book flag. Conflicting settings are an error, never merged.
func ResolveOrderBookMode(mode *string, legacyFull *bool) (types.OrderBookMode, error) {
	resolved := types.OrderBookDefault
	if mode != nil {
		m, ok := types.ParseOrderBookMode(*mode)
		if !ok {
			return types.OrderBookDefault, &ConfigError{
				Kind:    InvalidOrderBookMode,
				Message: "order book mode is not supported",
				Value:   *mode,
				Valid:   orderBookModeNames(),
			}
		}
		resolved = m
	}

	if legacyFull == nil || !*legacyFull {
		return resolved, nil
	}

	switch resolved {
	case types.OrderBookDefault, types.OrderBookFull:
		return types.OrderBookFull, nil
	default:
		return types.OrderBookDefault, &ConfigError{
			Kind:    ConflictingOrderBookModeConfig,
			Message: "parameter " + ParamLegacyFullOrderBook + " cannot be combined with " + ParamOrderBookMode,
			Value:   resolved.String(),
			Valid:   []string{types.OrderBookDefault.String(), types.OrderBookFull.String()},
		}
	}
}

func orderBookModeNames() []string {
	modes := types.OrderBookModes()
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = m.String()
	}
	return names
}
