package streaming

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase/types"
	"github.com/backtesting-org/coinbase-streaming/pkg/logging"
	"github.com/backtesting-org/coinbase-streaming/pkg/websocket/base"
	"github.com/backtesting-org/coinbase-streaming/pkg/websocket/connection"
	"github.com/backtesting-org/coinbase-streaming/pkg/websocket/events"
	"github.com/backtesting-org/coinbase-streaming/pkg/websocket/performance"
	"github.com/backtesting-org/coinbase-streaming/pkg/websocket/security"
)

var ErrSessionClosed = errors.New("session closed")

// Ensure session implements Session at compile time
var _ Session = (*session)(nil)

type session struct {
	config Config
	logger logging.ApplicationLogger

	connectionManager connection.ConnectionManager
	reconnectManager  connection.ReconnectManager
	handlerRegistry   *base.HandlerRegistry
	processor         *base.Processor
	limiter           security.RateLimiter
	metrics           performance.Metrics

	marketData *marketDataService
	trade      *tradeService

	failures  *events.Broadcaster[error]
	successes *events.Broadcaster[ConnectionEvent]
	states    *events.Broadcaster[connection.ConnectionState]
	idle      *events.Broadcaster[time.Duration]

	// mu guards ctx, subscriptions, acknowledged and closed
	mu            sync.Mutex
	ctx           context.Context
	subscriptions []types.ProductSubscription
	acknowledged  []base.ChannelSpec
	closed        bool
}

// NewSession builds a session from config without dialing
func NewSession(config Config, logger logging.ApplicationLogger, metrics performance.Metrics) (Session, error) {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	if metrics == nil {
		metrics = performance.NewMetrics()
	}

	connConfig := config.Connection
	connConfig.URL = config.URL
	connConfig.ApplyDefaults()
	if err := connConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session config: %w", err)
	}
	config.Connection = connConfig

	headers := security.NewStaticHeaders(config.UserAgent, nil)
	connectionManager := connection.NewConnectionManager(connConfig, headers, metrics, logger, config.Dialer)
	reconnectStrategy := connection.NewExponentialBackoffStrategy(connConfig.ReconnectDelay, connConfig.MaxReconnectDelay, connConfig.MaxReconnects)
	handlerRegistry := base.NewHandlerRegistry(logger)
	validator := security.NewMessageValidator(base.FeedValidationConfig(int(connConfig.MaxMessageSize)))

	s := &session{
		config:            config,
		logger:            logger,
		connectionManager: connectionManager,
		reconnectManager:  connection.NewReconnectManager(connectionManager, reconnectStrategy, logger),
		handlerRegistry:   handlerRegistry,
		processor:         base.NewProcessor(handlerRegistry, validator, metrics, logger),
		limiter:           security.NewRateLimiter(connConfig.RateLimitCapacity, connConfig.RateLimitRefill),
		metrics:           metrics,
		marketData:        newMarketDataService(config.OrderBookMode, logger),
		trade:             newTradeService(),
		failures:          events.NewBroadcaster[error](),
		successes:         events.NewBroadcaster[ConnectionEvent](),
		states:            events.NewBroadcaster[connection.ConnectionState](),
		idle:              events.NewBroadcaster[time.Duration](),
		ctx:               context.Background(),
	}

	s.setupCallbacks()
	if err := s.registerHandlers(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *session) SubscribeProducts(subs ...types.ProductSubscription) error {
	for _, sub := range subs {
		if err := ValidateSubscription(sub); err != nil {
			return err
		}
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.subscriptions = append(s.subscriptions, subs...)
	ctx := s.ctx
	s.mu.Unlock()

	if !s.connectionManager.IsSocketOpen() {
		return nil
	}
	return s.sendSubscribe(ctx, subs)
}

func (s *session) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.ctx = ctx
	s.mu.Unlock()

	s.logger.Info("Connecting to %s (order book mode %s)", s.config.URL, s.config.OrderBookMode)
	if err := s.connectionManager.Connect(ctx); err != nil {
		return err
	}

	s.successes.Publish(ConnectionEvent{At: time.Now()})
	return nil
}

// Disconnect closes the socket, stops reconnecting and closes every stream
func (s *session) Disconnect() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	err := s.connectionManager.Disconnect()
	s.reconnectManager.StopReconnection()

	s.failures.Close()
	s.successes.Close()
	s.states.Close()
	s.idle.Close()
	s.marketData.close()
	s.trade.close()

	s.logger.Info("Session to %s closed", s.config.URL)
	return err
}

func (s *session) IsSocketOpen() bool {
	return s.connectionManager.IsSocketOpen()
}

func (s *session) ReconnectFailures() <-chan error {
	return s.failures.Subscribe(events.DefaultBufferSize)
}

func (s *session) ConnectionSuccess() <-chan ConnectionEvent {
	return s.successes.Subscribe(events.DefaultBufferSize)
}

func (s *session) ConnectionStates() <-chan connection.ConnectionState {
	return s.states.Subscribe(events.DefaultBufferSize)
}

func (s *session) Idle() <-chan time.Duration {
	return s.idle.Subscribe(events.DefaultBufferSize)
}

func (s *session) MarketData() MarketDataService {
	return s.marketData
}

func (s *session) Trade() TradeService {
	return s.trade
}

func (s *session) Subscriptions() []types.ProductSubscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.ProductSubscription(nil), s.subscriptions...)
}

func (s *session) Stats() map[string]interface{} {
	stats := s.connectionManager.GetConnectionStats()

	s.mu.Lock()
	stats["subscriptions"] = len(s.subscriptions)
	stats["acknowledged_channels"] = len(s.acknowledged)
	s.mu.Unlock()

	stats["order_book_mode"] = s.config.OrderBookMode.String()
	return stats
}

func (s *session) context() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

func (s *session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// sendSubscribe asks the auth supplier for fresh auth data on every call so
// that resubscribes after a reconnect carry a current signature
func (s *session) sendSubscribe(ctx context.Context, subs []types.ProductSubscription) error {
	if len(subs) == 0 {
		return nil
	}

	req := buildSubscribeRequest(base.TypeSubscribe, subs, s.config.OrderBookMode)
	if s.config.Auth != nil {
		authorize(&req, s.config.Auth(ctx))
	}
	if req.Signature == "" && requiresAuth(subs) {
		s.logger.Warn("Subscribing to the user channel without auth data, the feed will reject it")
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("subscribe rate limit: %w", err)
	}
	if err := s.connectionManager.SendJSON(req); err != nil {
		return fmt.Errorf("failed to send subscribe request: %w", err)
	}
	return nil
}
