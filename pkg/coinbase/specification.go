package coinbase

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase/rest"
	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase/types"
	"github.com/backtesting-org/coinbase-streaming/pkg/websocket/security"
)

// Recognised ExtensionParameters keys
const (
	ParamUseSandbox           = "Use_Sandbox"
	ParamUsePrime             = "Use_Prime"
	ParamOrderBookMode        = "OrderBook_Mode"
	ParamLegacyFullOrderBook  = "L3_ORDERBOOK"
	ParamOverrideWebsocketURL = "Override_Websocket_Api_Uri"
)

var knownParameters = []string{
	ParamUseSandbox, ParamUsePrime, ParamOrderBookMode, ParamLegacyFullOrderBook, ParamOverrideWebsocketURL,
}

var validate = validator.New()

// ParameterPolicy decides what happens to unrecognised extension parameters
type ParameterPolicy int

const (
	// StrictParameters rejects unknown keys with an UnknownParameter error
	StrictParameters ParameterPolicy = iota
	// PermissiveParameters ignores unknown keys; they are logged by the caller
	PermissiveParameters
)

// StreamingOptions are the typed streaming settings. Nil pointers mean unset.
type StreamingOptions struct {
	UseSandbox          bool
	UsePrime            bool
	OverrideURL         string `validate:"omitempty,url"`
	OrderBookMode       *string
	LegacyFullOrderBook *bool
}

// ExchangeSpecification configures a StreamingExchange. The exchange keeps its
// own copy; later changes by the caller have no effect.
type ExchangeSpecification struct {
	APIKey     string `validate:"required_with=SecretKey Passphrase"`
	SecretKey  string `validate:"required_with=APIKey"`
	Passphrase string `validate:"required_with=APIKey"`

	RESTURL string `validate:"omitempty,url"`

	Streaming StreamingOptions

	// ExtensionParameters is the legacy string keyed form of Streaming
	ExtensionParameters map[string]any
	ParameterPolicy     ParameterPolicy

	UseCompressedMessages bool
	IdleTimeout           time.Duration `validate:"gte=0"`
	UserAgent             string
}

// DefaultExchangeSpecification returns production defaults without credentials
func DefaultExchangeSpecification() ExchangeSpecification {
	return ExchangeSpecification{
		RESTURL:         rest.ProductionURL,
		ParameterPolicy: StrictParameters,
		IdleTimeout:     15 * time.Second,
		UserAgent:       security.DefaultUserAgent,
	}
}

func (s ExchangeSpecification) Validate() error {
	if err := validate.Struct(s); err != nil {
		return &ConfigError{
			Kind:    InvalidSpecification,
			Message: "exchange specification is invalid",
			Err:     err,
		}
	}
	return nil
}

// HasCredentials reports whether an API key is configured
func (s ExchangeSpecification) HasCredentials() bool {
	return s.APIKey != ""
}

// Clone copies the specification including its parameter map
func (s ExchangeSpecification) Clone() ExchangeSpecification {
	if s.ExtensionParameters != nil {
		params := make(map[string]any, len(s.ExtensionParameters))
		for k, v := range s.ExtensionParameters {
			params[k] = v
		}
		s.ExtensionParameters = params
	}
	if s.Streaming.OrderBookMode != nil {
		mode := *s.Streaming.OrderBookMode
		s.Streaming.OrderBookMode = &mode
	}
	if s.Streaming.LegacyFullOrderBook != nil {
		legacy := *s.Streaming.LegacyFullOrderBook
		s.Streaming.LegacyFullOrderBook = &legacy
	}
	return s
}

// ResolveStreamingOptions merges the typed options with the parameter bag.
// ignored lists the unknown keys skipped under PermissiveParameters.
func (s ExchangeSpecification) ResolveStreamingOptions() (opts StreamingOptions, ignored []string, err error) {
	fromParams, ignored, err := ParseStreamingOptions(s.ExtensionParameters, s.ParameterPolicy)
	if err != nil {
		return StreamingOptions{}, nil, err
	}
	opts, err = mergeOptions(s.Streaming, fromParams)
	return opts, ignored, err
}

// Feed is where and how a session would subscribe
type Feed struct {
	URL               string              `json:"url"`
	OrderBookMode     types.OrderBookMode `json:"-"`
	Mode              string              `json:"order_book_mode"`
	IgnoredParameters []string            `json:"ignored_parameters,omitempty"`
}

// ResolveFeed runs the option, endpoint and order book mode resolution that
// Connect performs, without side effects
func (s ExchangeSpecification) ResolveFeed() (Feed, error) {
	opts, ignored, err := s.ResolveStreamingOptions()
	if err != nil {
		return Feed{}, err
	}
	mode, err := ResolveOrderBookMode(opts.OrderBookMode, opts.LegacyFullOrderBook)
	if err != nil {
		return Feed{}, err
	}
	return Feed{
		URL:               ResolveEndpoint(opts.UseSandbox, opts.UsePrime, opts.OverrideURL),
		OrderBookMode:     mode,
		Mode:              mode.String(),
		IgnoredParameters: ignored,
	}, nil
}

// ParseStreamingOptions reads the recognised keys of params. Keys are visited
// in sorted order so the reported error is deterministic.
func ParseStreamingOptions(params map[string]any, policy ParameterPolicy) (StreamingOptions, []string, error) {
	var (
		opts    StreamingOptions
		ignored []string
	)

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := params[key]
		if value == nil {
			continue
		}

		switch key {
		case ParamUseSandbox:
			b, err := boolParameter(key, value)
			if err != nil {
				return StreamingOptions{}, nil, err
			}
			opts.UseSandbox = b
		case ParamUsePrime:
			b, err := boolParameter(key, value)
			if err != nil {
				return StreamingOptions{}, nil, err
			}
			opts.UsePrime = b
		case ParamLegacyFullOrderBook:
			b, err := boolParameter(key, value)
			if err != nil {
				return StreamingOptions{}, nil, err
			}
			opts.LegacyFullOrderBook = &b
		case ParamOrderBookMode:
			mode := fmt.Sprint(value)
			opts.OrderBookMode = &mode
		case ParamOverrideWebsocketURL:
			url, ok := value.(string)
			if !ok {
				return StreamingOptions{}, nil, &ConfigError{
					Kind:    InvalidParameter,
					Message: "parameter " + key + " must be a string",
					Value:   fmt.Sprint(value),
				}
			}
			opts.OverrideURL = url
		default:
			if policy == StrictParameters {
				return StreamingOptions{}, nil, &ConfigError{
					Kind:    UnknownParameter,
					Message: "unrecognised extension parameter",
					Value:   key,
					Valid:   knownParameters,
				}
			}
			ignored = append(ignored, key)
		}
	}

	return opts, ignored, nil
}

func boolParameter(key string, value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b, nil
		}
	}
	return false, &ConfigError{
		Kind:    InvalidParameter,
		Message: "parameter " + key + " must be a boolean",
		Value:   fmt.Sprint(value),
		Valid:   []string{"true", "false"},
	}
}

// mergeOptions lets parameters fill what the typed options leave unset.
// Disagreeing order book settings are rejected.
func mergeOptions(typed, params StreamingOptions) (StreamingOptions, error) {
	merged := typed
	merged.UseSandbox = typed.UseSandbox || params.UseSandbox
	merged.UsePrime = typed.UsePrime || params.UsePrime
	if merged.OverrideURL == "" {
		merged.OverrideURL = params.OverrideURL
	}

	switch {
	case typed.OrderBookMode == nil:
		merged.OrderBookMode = params.OrderBookMode
	case params.OrderBookMode != nil && *params.OrderBookMode != *typed.OrderBookMode:
		return StreamingOptions{}, &ConfigError{
			Kind:    ConflictingOrderBookModeConfig,
			Message: "typed order book mode disagrees with parameter " + ParamOrderBookMode,
			Value:   *params.OrderBookMode,
			Valid:   []string{*typed.OrderBookMode},
		}
	}

	switch {
	case typed.LegacyFullOrderBook == nil:
		merged.LegacyFullOrderBook = params.LegacyFullOrderBook
	case params.LegacyFullOrderBook != nil && *params.LegacyFullOrderBook != *typed.LegacyFullOrderBook:
		return StreamingOptions{}, &ConfigError{
			Kind:    ConflictingOrderBookModeConfig,
			Message: "typed legacy full order book flag disagrees with parameter " + ParamLegacyFullOrderBook,
			Value:   strconv.FormatBool(*params.LegacyFullOrderBook),
		}
	}

	if err := validate.Struct(merged); err != nil {
		return StreamingOptions{}, &ConfigError{
			Kind:    InvalidParameter,
			Message: "override websocket URL is not a URL",
			Value:   merged.OverrideURL,
			Err:     err,
		}
	}
	return merged, nil
}
