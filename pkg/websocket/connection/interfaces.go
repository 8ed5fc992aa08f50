package connection

import (
	"context"
	"time"
)

// ConnectionManager defines WebSocket connection operations
type ConnectionManager interface {
	Connect(ctx context.Context) error
	Disconnect() error
	Send(data []byte) error
	SendJSON(v interface{}) error
	SendPing() error
	SetCallbacks(callbacks Callbacks)
	GetState() ConnectionState
	IsSocketOpen() bool
	GetConnectionStats() map[string]interface{}
	IsHealthy() bool
}

// ReconnectManager defines reconnection operations
type ReconnectManager interface {
	StartReconnection(ctx context.Context) error
	StopReconnection()
	IsReconnecting() bool
	SetCallbacks(onStart func(int), onFail func(int, error), onSuccess func(int))
}

// ReconnectionStrategy defines strategies for reconnection backoff
type ReconnectionStrategy interface {
	NextDelay(attempt int) time.Duration
	MaxAttempts() int
}

// Callbacks are invoked from the manager's goroutines. OnStateChange runs with
// the state lock held and must not call back into the manager.
type Callbacks struct {
	// OnConnect runs after the socket is open; an error fails Connect and closes the socket.
	OnConnect func() error

	// OnDisconnect runs when the socket is lost without a Disconnect call.
	OnDisconnect func()

	OnMessage     func([]byte) error
	OnError       func(error)
	OnStateChange func(ConnectionState)

	// OnIdle runs once per quiet period longer than Config.IdleTimeout.
	OnIdle func(quiet time.Duration)
}
