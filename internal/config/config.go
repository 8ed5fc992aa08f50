package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase"
)

// Config represents the application configuration
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Coinbase CoinbaseConfig `mapstructure:"coinbase"`
	Journal  JournalConfig  `mapstructure:"journal"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`                                // debug, info, warn, error
	Format     string `mapstructure:"format" validate:"oneof=json console"` // json, console
	OutputPath string `mapstructure:"output_path" validate:"required"`      // stdout, stderr or a file path

	// Rotation settings, used only when OutputPath is a file
	MaxSizeMB  int `mapstructure:"max_size_mb" validate:"gte=1"`
	MaxBackups int `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int `mapstructure:"max_age_days" validate:"gte=0"`
}

// CoinbaseConfig represents exchange configuration
type CoinbaseConfig struct {
	APIKey               string        `mapstructure:"api_key"`
	SecretKey            string        `mapstructure:"secret_key" validate:"required_with=APIKey"`
	Passphrase           string        `mapstructure:"passphrase" validate:"required_with=APIKey"`
	RESTURL              string        `mapstructure:"rest_url" validate:"omitempty,url"`
	UseSandbox           bool          `mapstructure:"use_sandbox"`
	UsePrime             bool          `mapstructure:"use_prime"`
	OverrideWebsocketURL string        `mapstructure:"override_websocket_url" validate:"omitempty,url"`
	OrderBookMode        string        `mapstructure:"order_book_mode"`
	L3OrderBook          bool          `mapstructure:"l3_orderbook"`
	StrictParameters     bool          `mapstructure:"strict_parameters"`
	CompressedMessages   bool          `mapstructure:"compressed_messages"`
	IdleTimeout          time.Duration `mapstructure:"idle_timeout" validate:"gte=0"`
	UserAgent            string        `mapstructure:"user_agent"`
}

// JournalConfig represents the connection event journal. An empty connection
// string disables it.
type JournalConfig struct {
	ConnectionString string `mapstructure:"connection_string"`
	MaxOpenConns     int    `mapstructure:"max_open_conns" validate:"gte=1"`
	ConnMaxLifetime  int    `mapstructure:"conn_max_lifetime" validate:"gte=1"` // in minutes
}

// Enabled reports whether events should be persisted
func (j JournalConfig) Enabled() bool {
	return j.ConnectionString != ""
}

var validate = validator.New()

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("COINBASE_STREAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values. Every key needs a default
// so that AutomaticEnv can bind it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output_path", "stdout")
	v.SetDefault("logging.max_size_mb", 100)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 28)

	// Coinbase defaults
	v.SetDefault("coinbase.api_key", "")
	v.SetDefault("coinbase.secret_key", "")
	v.SetDefault("coinbase.passphrase", "")
	v.SetDefault("coinbase.rest_url", "")
	v.SetDefault("coinbase.use_sandbox", false)
	v.SetDefault("coinbase.use_prime", false)
	v.SetDefault("coinbase.override_websocket_url", "")
	v.SetDefault("coinbase.order_book_mode", "")
	v.SetDefault("coinbase.l3_orderbook", false)
	v.SetDefault("coinbase.strict_parameters", true)
	v.SetDefault("coinbase.compressed_messages", false)
	v.SetDefault("coinbase.idle_timeout", 15*time.Second)
	v.SetDefault("coinbase.user_agent", "")

	// Journal defaults
	v.SetDefault("journal.connection_string", "")
	v.SetDefault("journal.max_open_conns", 5)
	v.SetDefault("journal.conn_max_lifetime", 5)
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[config.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", config.Logging.Level)
	}

	if err := validate.Struct(config); err != nil {
		return err
	}

	return nil
}

// ToSpecification maps the exchange section onto an ExchangeSpecification
func (c *Config) ToSpecification() coinbase.ExchangeSpecification {
	spec := coinbase.DefaultExchangeSpecification()

	spec.APIKey = c.Coinbase.APIKey
	spec.SecretKey = c.Coinbase.SecretKey
	spec.Passphrase = c.Coinbase.Passphrase
	// left empty, the REST client follows the sandbox flag
	spec.RESTURL = c.Coinbase.RESTURL

	spec.Streaming = coinbase.StreamingOptions{
		UseSandbox:  c.Coinbase.UseSandbox,
		UsePrime:    c.Coinbase.UsePrime,
		OverrideURL: c.Coinbase.OverrideWebsocketURL,
	}
	if c.Coinbase.OrderBookMode != "" {
		mode := c.Coinbase.OrderBookMode
		spec.Streaming.OrderBookMode = &mode
	}
	if c.Coinbase.L3OrderBook {
		legacy := true
		spec.Streaming.LegacyFullOrderBook = &legacy
	}

	if !c.Coinbase.StrictParameters {
		spec.ParameterPolicy = coinbase.PermissiveParameters
	}
	spec.UseCompressedMessages = c.Coinbase.CompressedMessages
	spec.IdleTimeout = c.Coinbase.IdleTimeout
	if c.Coinbase.UserAgent != "" {
		spec.UserAgent = c.Coinbase.UserAgent
	}

	return spec
}

// ProvideSpecification exposes the exchange specification to fx
func ProvideSpecification(cfg *Config) coinbase.ExchangeSpecification {
	return cfg.ToSpecification()
}
