package coinbase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase/streaming"
	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase/types"
	"github.com/backtesting-org/coinbase-streaming/pkg/logging"
	"github.com/backtesting-org/coinbase-streaming/pkg/websocket/connection"
	"github.com/backtesting-org/coinbase-streaming/pkg/websocket/performance"
)

// SessionFactory builds an unconnected streaming session
type SessionFactory func(config streaming.Config) (streaming.Session, error)

// NewStreamingSessionFactory returns a factory producing feed sessions
func NewStreamingSessionFactory(logger logging.ApplicationLogger, metrics performance.Metrics) SessionFactory {
	return func(config streaming.Config) (streaming.Session, error) {
		return streaming.NewSession(config, logger, metrics)
	}
}

// StreamingExchange owns at most one streaming session at a time and composes
// the REST client for account and trading calls.
type StreamingExchange struct {
	specMu sync.RWMutex
	spec   ExchangeSpecification

	rest     RESTClient
	auth     *AuthDataProvider
	factory  SessionFactory
	registry sessionRegistry

	logger  logging.ApplicationLogger
	metrics performance.Metrics
}

func NewStreamingExchange(
	spec ExchangeSpecification,
	rest RESTClient,
	factory SessionFactory,
	logger logging.ApplicationLogger,
	metrics performance.Metrics,
) (*StreamingExchange, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	if metrics == nil {
		metrics = performance.NewMetrics()
	}
	if factory == nil {
		factory = NewStreamingSessionFactory(logger, metrics)
	}

	var accounts AccountService
	if rest != nil {
		accounts = rest
	}

	return &StreamingExchange{
		spec:    spec.Clone(),
		rest:    rest,
		auth:    NewAuthDataProvider(accounts, metrics, logger),
		factory: factory,
		logger:  logger,
		metrics: metrics,
	}, nil
}

// Connect validates the request synchronously and establishes the session in
// the background. Any session already held is torn down before the new one
// is published.
func (e *StreamingExchange) Connect(ctx context.Context, subs ...types.ProductSubscription) (*Completion, error) {
	if len(subs) == 0 {
		return nil, &ConfigError{
			Kind:    MissingSubscription,
			Message: "at least one product subscription is required",
		}
	}
	for _, sub := range subs {
		if err := streaming.ValidateSubscription(sub); err != nil {
			return nil, &ConfigError{
				Kind:    InvalidSubscription,
				Message: "subscription rejected",
				Value:   sub.ProductID,
				Err:     err,
			}
		}
	}

	spec := e.Specification()
	config, err := e.sessionConfig(spec)
	if err != nil {
		return nil, err
	}

	subs = append([]types.ProductSubscription(nil), subs...)
	p := e.registry.begin(ctx)
	stop := context.AfterFunc(ctx, p.cancel)
	completion := newCompletion()

	e.logger.Info("Connecting to %s with %d subscriptions (order book mode %s)", config.URL, len(subs), config.OrderBookMode)
	go e.establish(ctx, p, stop, spec, config, subs, completion)

	return completion, nil
}

func (e *StreamingExchange) establish(
	ctx context.Context,
	p *pendingConnect,
	stop func() bool,
	spec ExchangeSpecification,
	config streaming.Config,
	subs []types.ProductSubscription,
	completion *Completion,
) {
	defer e.registry.finish(p)

	auth := e.auth.Fetch(p.ctx, spec)
	if p.ctx.Err() != nil {
		stop()
		completion.resolve(abandoned(ctx))
		return
	}
	config.Auth = authSupplier(e.auth, spec, auth)

	session, err := e.factory(config)
	if err != nil {
		stop()
		completion.resolve(fmt.Errorf("failed to create streaming session: %w", err))
		return
	}
	if err := session.SubscribeProducts(subs...); err != nil {
		stop()
		e.closeSession(session)
		completion.resolve(fmt.Errorf("failed to register subscriptions: %w", err))
		return
	}

	if previous := e.registry.detach(p); previous != nil {
		e.logger.Info("Replacing existing streaming session")
		e.teardown(previous)
	}
	if !e.registry.publish(p, session) {
		stop()
		e.closeSession(session)
		completion.resolve(abandoned(ctx))
		return
	}

	err = session.Connect(p.ctx)
	stop()

	switch {
	case p.ctx.Err() != nil:
		e.registry.release(session)
		e.closeSession(session)
		completion.resolve(abandoned(ctx))
	case err != nil:
		e.registry.release(session)
		e.closeSession(session)
		e.metrics.IncrementConnectionError()
		completion.resolve(fmt.Errorf("failed to connect to %s: %w", config.URL, err))
	default:
		e.logger.Info("Streaming session connected to %s", config.URL)
		completion.resolve(nil)
	}
}

// abandoned explains why a connect gave up without a transport error
func abandoned(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return ErrConnectSuperseded
}

// authSupplier hands out the prefetched auth data once, then refetches so
// every resubscribe is signed at a current timestamp
func authSupplier(provider *AuthDataProvider, spec ExchangeSpecification, prefetched *types.AuthData) streaming.AuthSupplier {
	if !spec.HasCredentials() {
		return nil
	}
	var used atomic.Bool
	return func(ctx context.Context) *types.AuthData {
		if used.CompareAndSwap(false, true) {
			return prefetched
		}
		return provider.Fetch(ctx, spec)
	}
}

// sessionConfig builds the session config for the resolved feed
func (e *StreamingExchange) sessionConfig(spec ExchangeSpecification) (streaming.Config, error) {
	feed, err := spec.ResolveFeed()
	if err != nil {
		return streaming.Config{}, err
	}
	for _, key := range feed.IgnoredParameters {
		e.logger.Warn("Ignoring unrecognised extension parameter %q", key)
	}

	config := streaming.DefaultConfig(feed.URL, feed.OrderBookMode)
	config.UserAgent = spec.UserAgent
	config.Connection.EnableCompression = spec.UseCompressedMessages
	if spec.IdleTimeout > 0 {
		config.Connection.IdleTimeout = spec.IdleTimeout
	}
	return config, nil
}

// Disconnect tears down the session and any connect in flight. It is safe to
// call at any time; with nothing held it completes immediately.
func (e *StreamingExchange) Disconnect(ctx context.Context) *Completion {
	handle, pending := e.registry.takeAll()
	if handle == nil && pending == nil {
		return completed(nil)
	}

	completion := newCompletion()
	if pending != nil {
		pending.cancel()
	}

	// The handle is no longer reachable from the registry, so it is closed
	// before waiting on the pending connect, which can no longer publish.
	go func() {
		var err error
		if handle != nil {
			err = e.teardown(handle)
		}
		if pending != nil {
			select {
			case <-pending.done:
			case <-ctx.Done():
				if err == nil {
					err = ctx.Err()
				}
			}
		}
		completion.resolve(err)
	}()

	return completion
}

func (e *StreamingExchange) teardown(h *sessionHandle) error {
	h.cancel()
	return e.closeSession(h.session)
}

func (e *StreamingExchange) closeSession(s streaming.Session) error {
	start := time.Now()
	if err := s.Disconnect(); err != nil {
		e.logger.Warn("Error closing streaming session: %v", err)
		return fmt.Errorf("failed to close streaming session: %w", err)
	}
	e.logger.Debug("Streaming session closed in %v", time.Since(start))
	return nil
}

// IsAlive reports whether a session is held and its socket is open
func (e *StreamingExchange) IsAlive() bool {
	s := e.registry.session()
	return s != nil && s.IsSocketOpen()
}

func (e *StreamingExchange) current() (streaming.Session, error) {
	s := e.registry.session()
	if s == nil {
		return nil, ErrNoSession
	}
	return s, nil
}

// ReconnectFailure streams reconnect errors of the current session
func (e *StreamingExchange) ReconnectFailure() (<-chan error, error) {
	s, err := e.current()
	if err != nil {
		return nil, err
	}
	return s.ReconnectFailures(), nil
}

func (e *StreamingExchange) ConnectionSuccess() (<-chan streaming.ConnectionEvent, error) {
	s, err := e.current()
	if err != nil {
		return nil, err
	}
	return s.ConnectionSuccess(), nil
}

func (e *StreamingExchange) ConnectionState() (<-chan connection.ConnectionState, error) {
	s, err := e.current()
	if err != nil {
		return nil, err
	}
	return s.ConnectionStates(), nil
}

func (e *StreamingExchange) ConnectionIdle() (<-chan time.Duration, error) {
	s, err := e.current()
	if err != nil {
		return nil, err
	}
	return s.Idle(), nil
}

func (e *StreamingExchange) StreamingMarketDataService() (streaming.MarketDataService, error) {
	s, err := e.current()
	if err != nil {
		return nil, err
	}
	return s.MarketData(), nil
}

func (e *StreamingExchange) StreamingTradeService() (streaming.TradeService, error) {
	s, err := e.current()
	if err != nil {
		return nil, err
	}
	return s.Trade(), nil
}

// StreamingAccountService is not offered by the Coinbase feed
func (e *StreamingExchange) StreamingAccountService() (any, error) {
	return nil, fmt.Errorf("streaming account service: %w", ErrNotYetImplemented)
}

// Stats returns transport statistics of the current session
func (e *StreamingExchange) Stats() (map[string]interface{}, error) {
	s, err := e.current()
	if err != nil {
		return nil, err
	}
	return s.Stats(), nil
}

func (e *StreamingExchange) AccountService() (AccountService, error) {
	if e.rest == nil {
		return nil, errors.New("no REST client configured")
	}
	return e.rest, nil
}

func (e *StreamingExchange) TradeService() (TradeService, error) {
	if e.rest == nil {
		return nil, errors.New("no REST client configured")
	}
	return e.rest, nil
}

// Specification returns a copy of the current specification
func (e *StreamingExchange) Specification() ExchangeSpecification {
	e.specMu.RLock()
	defer e.specMu.RUnlock()
	return e.spec.Clone()
}

// SetOverrideAPIURI replaces the feed URL used by the next Connect. An empty
// string restores endpoint resolution.
func (e *StreamingExchange) SetOverrideAPIURI(uri string) {
	e.specMu.Lock()
	defer e.specMu.Unlock()
	e.spec.Streaming.OverrideURL = uri
}

func (e *StreamingExchange) OverrideAPIURI() string {
	e.specMu.RLock()
	defer e.specMu.RUnlock()
	return e.spec.Streaming.OverrideURL
}

// UseCompressedMessages toggles per-message deflate for the next session
func (e *StreamingExchange) UseCompressedMessages(enabled bool) {
	e.specMu.Lock()
	defer e.specMu.Unlock()
	e.spec.UseCompressedMessages = enabled
}
