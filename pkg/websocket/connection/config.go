package connection

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds WebSocket connection configuration
type Config struct {
	// Connection settings
	URL              string        `json:"url" validate:"required,url"`
	ConnectTimeout   time.Duration `json:"connect_timeout"`
	HandshakeTimeout time.Duration `json:"handshake_timeout"`

	// Buffer settings
	ReadBufferSize  int   `json:"read_buffer_size"`
	WriteBufferSize int   `json:"write_buffer_size"`
	MaxMessageSize  int64 `json:"max_message_size"`

	// Timing settings
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	PingInterval time.Duration `json:"ping_interval"`

	// Reconnection settings
	EnableReconnect   bool          `json:"enable_reconnect"`
	ReconnectDelay    time.Duration `json:"reconnect_delay"`
	MaxReconnectDelay time.Duration `json:"max_reconnect_delay"`
	MaxReconnects     int           `json:"max_reconnects"`

	// Security settings
	RequireSSL bool `json:"require_ssl"`

	// Rate limiting of outbound messages
	RateLimitCapacity int           `json:"rate_limit_capacity"`
	RateLimitRefill   time.Duration `json:"rate_limit_refill"`

	// Per-message deflate
	EnableCompression bool `json:"enable_compression"`

	// Idle detection: OnIdle fires when nothing was read for IdleTimeout
	EnableHealthMonitoring bool          `json:"enable_health_monitoring"`
	EnableHealthPings      bool          `json:"enable_health_pings"`
	HealthCheckInterval    time.Duration `json:"health_check_interval"`
	IdleTimeout            time.Duration `json:"idle_timeout"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		ConnectTimeout:         30 * time.Second,
		HandshakeTimeout:       45 * time.Second,
		ReadBufferSize:         4096,
		WriteBufferSize:        4096,
		MaxMessageSize:         1024 * 1024, // 1MB
		ReadTimeout:            5 * time.Minute,
		WriteTimeout:           10 * time.Second,
		PingInterval:           30 * time.Second,
		EnableReconnect:        true,
		ReconnectDelay:         5 * time.Second,
		MaxReconnectDelay:      5 * time.Minute,
		MaxReconnects:          10,
		RequireSSL:             true,
		RateLimitCapacity:      8,
		RateLimitRefill:        time.Second,
		EnableCompression:      false,
		EnableHealthMonitoring: true,
		EnableHealthPings:      false,
		HealthCheckInterval:    5 * time.Second,
		IdleTimeout:            15 * time.Second,
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("URL is required")
	}

	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid WebSocket URL: %w", err)
	}
	if c.RequireSSL && u.Scheme != "wss" {
		return fmt.Errorf("insecure WebSocket scheme: %s (must be wss)", u.Scheme)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("unsupported WebSocket scheme: %s", u.Scheme)
	}

	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("connect timeout must be positive")
	}

	if c.ReadBufferSize <= 0 {
		return fmt.Errorf("read buffer size must be positive")
	}

	if c.WriteBufferSize <= 0 {
		return fmt.Errorf("write buffer size must be positive")
	}

	if c.MaxMessageSize <= 0 {
		return fmt.Errorf("max message size must be positive")
	}

	if c.EnableReconnect && c.MaxReconnects <= 0 {
		return fmt.Errorf("max reconnects must be positive when reconnection is enabled")
	}

	if c.EnableHealthMonitoring && c.HealthCheckInterval <= 0 {
		return fmt.Errorf("health check interval must be positive when health monitoring is enabled")
	}

	if c.EnableHealthMonitoring && c.IdleTimeout <= 0 {
		return fmt.Errorf("idle timeout must be positive when health monitoring is enabled")
	}

	return nil
}

// ApplyDefaults fills in missing values with defaults
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()

	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = defaults.ConnectTimeout
	}
	if c.HandshakeTimeout == 0 {
		c.HandshakeTimeout = defaults.HandshakeTimeout
	}
	if c.ReadBufferSize == 0 {
		c.ReadBufferSize = defaults.ReadBufferSize
	}
	if c.WriteBufferSize == 0 {
		c.WriteBufferSize = defaults.WriteBufferSize
	}
	if c.MaxMessageSize == 0 {
		c.MaxMessageSize = defaults.MaxMessageSize
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = defaults.ReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = defaults.WriteTimeout
	}
	if c.PingInterval == 0 {
		c.PingInterval = defaults.PingInterval
	}
	if c.ReconnectDelay == 0 {
		c.ReconnectDelay = defaults.ReconnectDelay
	}
	if c.MaxReconnectDelay == 0 {
		c.MaxReconnectDelay = defaults.MaxReconnectDelay
	}
	if c.MaxReconnects == 0 {
		c.MaxReconnects = defaults.MaxReconnects
	}
	if c.RateLimitCapacity == 0 {
		c.RateLimitCapacity = defaults.RateLimitCapacity
	}
	if c.RateLimitRefill == 0 {
		c.RateLimitRefill = defaults.RateLimitRefill
	}
	if c.HealthCheckInterval == 0 {
		c.HealthCheckInterval = defaults.HealthCheckInterval
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = defaults.IdleTimeout
	}
}

// FeedConfig returns a configuration tuned for a market-data feed
func FeedConfig(url string) Config {
	config := DefaultConfig()
	config.URL = url
	config.MaxMessageSize = 8 * 1024 * 1024 // full-channel snapshots are large
	config.ReadBufferSize = 64 * 1024
	return config
}

// TestConfig returns a configuration suitable for testing
func TestConfig(url string) Config {
	config := DefaultConfig()
	config.URL = url
	config.ConnectTimeout = 5 * time.Second
	config.HandshakeTimeout = 10 * time.Second
	config.MaxReconnects = 3
	config.ReconnectDelay = 10 * time.Millisecond
	config.MaxReconnectDelay = 50 * time.Millisecond
	config.HealthCheckInterval = 10 * time.Millisecond
	config.IdleTimeout = 50 * time.Millisecond
	config.RequireSSL = false
	return config
}
