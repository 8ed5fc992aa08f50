package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/backtesting-org/coinbase-streaming/internal/database"
	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase/streaming"
	"github.com/backtesting-org/coinbase-streaming/pkg/websocket/connection"
)

// EventStore persists journal entries
type EventStore interface {
	RecordEvent(ctx context.Context, event *database.ConnectionEvent) error
}

// LifecycleSource exposes the lifecycle streams of the current session
type LifecycleSource interface {
	IsAlive() bool
	ReconnectFailure() (<-chan error, error)
	ConnectionSuccess() (<-chan streaming.ConnectionEvent, error)
	ConnectionState() (<-chan connection.ConnectionState, error)
	ConnectionIdle() (<-chan time.Duration, error)
}

// Journal logs every lifecycle event of a session and stores it when a store
// is configured
type Journal struct {
	store  EventStore
	logger *zap.Logger
}

// NewJournal creates a journal. store may be nil.
func NewJournal(store EventStore, logger *zap.Logger) *Journal {
	return &Journal{store: store, logger: logger.Named("journal")}
}

// ProvideEventStore turns a possibly disabled repository into an EventStore
func ProvideEventStore(repo *database.Repository) EventStore {
	if repo == nil {
		return nil
	}
	return repo
}

// Track subscribes to the lifecycle streams of source and records events
// until they close or ctx ends. The returned channel closes when tracking stops.
// A connect that completed before tracking began is recorded first, since its
// events were emitted before the subscription existed.
func (j *Journal) Track(ctx context.Context, source LifecycleSource) (uuid.UUID, <-chan struct{}, error) {
	failures, err := source.ReconnectFailure()
	if err != nil {
		return uuid.Nil, nil, err
	}
	successes, err := source.ConnectionSuccess()
	if err != nil {
		return uuid.Nil, nil, err
	}
	states, err := source.ConnectionState()
	if err != nil {
		return uuid.Nil, nil, err
	}
	idle, err := source.ConnectionIdle()
	if err != nil {
		return uuid.Nil, nil, err
	}

	sessionID := uuid.New()
	alive := source.IsAlive()
	done := make(chan struct{})
	go func() {
		defer close(done)
		if alive {
			j.logger.Info("Connected", zap.Stringer("session", sessionID))
			j.record(ctx, &database.ConnectionEvent{
				SessionID: sessionID,
				Kind:      database.EventConnected,
				State:     connection.StateConnected.String(),
				Detail:    "initial connect",
				CreatedAt: time.Now().UTC(),
			})
		}
		j.run(ctx, sessionID, failures, successes, states, idle)
	}()

	return sessionID, done, nil
}

func (j *Journal) run(
	ctx context.Context,
	sessionID uuid.UUID,
	failures <-chan error,
	successes <-chan streaming.ConnectionEvent,
	states <-chan connection.ConnectionState,
	idle <-chan time.Duration,
) {
	for failures != nil || successes != nil || states != nil || idle != nil {
		var event database.ConnectionEvent

		select {
		case <-ctx.Done():
			return
		case err, ok := <-failures:
			if !ok {
				failures = nil
				continue
			}
			event = database.ConnectionEvent{Kind: database.EventReconnectFailure, Detail: err.Error()}
			j.logger.Warn("Reconnect failed", zap.Error(err))
		case success, ok := <-successes:
			if !ok {
				successes = nil
				continue
			}
			event = database.ConnectionEvent{Kind: database.EventConnected, State: connection.StateConnected.String()}
			event.CreatedAt = success.At.UTC()
			if success.Attempt > 0 {
				event.Detail = fmt.Sprintf("reconnect attempt %d", success.Attempt)
			}
			j.logger.Info("Connected", zap.Int("attempt", success.Attempt))
		case state, ok := <-states:
			if !ok {
				states = nil
				continue
			}
			event = database.ConnectionEvent{Kind: database.EventStateChange, State: state.String()}
			j.logger.Info("Connection state changed", zap.Stringer("state", state))
		case quiet, ok := <-idle:
			if !ok {
				idle = nil
				continue
			}
			event = database.ConnectionEvent{Kind: database.EventIdle, Detail: quiet.String()}
			j.logger.Warn("Feed idle", zap.Duration("quiet", quiet))
		}

		event.SessionID = sessionID
		j.record(ctx, &event)
	}
}

func (j *Journal) record(ctx context.Context, event *database.ConnectionEvent) {
	if j.store == nil {
		return
	}
	if err := j.store.RecordEvent(ctx, event); err != nil {
		j.logger.Error("Failed to journal connection event",
			zap.String("kind", string(event.Kind)),
			zap.Error(err))
	}
}
