package streaming

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/backtesting-org/coinbase-streaming/pkg/websocket/base"
	"github.com/backtesting-org/coinbase-streaming/pkg/websocket/connection"
)

func (s *session) setupCallbacks() {
	s.connectionManager.SetCallbacks(connection.Callbacks{
		OnConnect:     s.onConnect,
		OnDisconnect:  s.onDisconnect,
		OnMessage:     s.onMessage,
		OnError:       s.onError,
		OnStateChange: s.onStateChange,
		OnIdle:        s.onIdle,
	})

	s.reconnectManager.SetCallbacks(
		s.onReconnectStart,
		s.onReconnectFail,
		s.onReconnectSuccess,
	)
}

func (s *session) registerHandlers() error {
	handlers := []base.MessageHandler{
		s.marketData,
		s.trade,
		base.NewTypedHandler([]string{base.TypeSubscriptions}, s.onSubscriptions),
		base.NewTypedHandler([]string{base.TypeError}, s.onFeedError),
	}
	for _, h := range handlers {
		if err := s.handlerRegistry.RegisterHandler(h); err != nil {
			return fmt.Errorf("failed to register handler: %w", err)
		}
	}
	return nil
}

// onConnect (re)sends every registered subscription
func (s *session) onConnect() error {
	return s.sendSubscribe(s.context(), s.Subscriptions())
}

func (s *session) onDisconnect() {
	if s.isClosed() {
		return
	}
	if !s.config.Connection.EnableReconnect {
		s.logger.Warn("Feed connection lost, reconnection disabled")
		return
	}

	s.states.Publish(connection.StateReconnecting)
	if err := s.reconnectManager.StartReconnection(s.context()); err != nil {
		s.logger.Error("Failed to start reconnection: %v", err)
	}
}

func (s *session) onMessage(message []byte) error {
	return s.processor.Process(s.context(), message)
}

func (s *session) onError(err error) {
	s.logger.Debug("Feed connection error: %v", err)
}

func (s *session) onStateChange(state connection.ConnectionState) {
	s.states.Publish(state)
}

func (s *session) onIdle(quiet time.Duration) {
	s.logger.Warn("No feed data for %v", quiet)
	s.idle.Publish(quiet)
}

func (s *session) onReconnectStart(attempt int) {
	s.metrics.IncrementReconnection()
	s.logger.Info("Starting feed reconnection attempt %d", attempt)
}

func (s *session) onReconnectFail(attempt int, err error) {
	if errors.Is(err, connection.ErrMaxReconnectAttempts) {
		s.logger.Error("Giving up on feed after %d reconnection attempts", attempt)
		s.states.Publish(connection.StateFailed)
	} else {
		s.logger.Warn("Feed reconnection attempt %d failed: %v", attempt, err)
	}
	s.failures.Publish(fmt.Errorf("reconnect attempt %d: %w", attempt, err))
}

func (s *session) onReconnectSuccess(attempt int) {
	s.logger.Info("Feed reconnected after %d attempts", attempt)
	s.successes.Publish(ConnectionEvent{Attempt: attempt, At: time.Now()})
}

func (s *session) onSubscriptions(_ context.Context, _ base.Envelope, ack base.SubscriptionsMessage) error {
	s.mu.Lock()
	s.acknowledged = ack.Channels
	s.mu.Unlock()

	s.logger.Debug("Feed acknowledged %d channels", len(ack.Channels))
	return nil
}

func (s *session) onFeedError(_ context.Context, _ base.Envelope, msg base.ErrorMessage) error {
	s.logger.Error("Feed rejected request: %v", msg)
	return nil
}
