package connection

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/backtesting-org/coinbase-streaming/pkg/logging"
	"github.com/backtesting-org/coinbase-streaming/pkg/websocket/performance"
	"github.com/backtesting-org/coinbase-streaming/pkg/websocket/security"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
	StateReconnecting
	StateFailed
	StateStopped
)

func (cs ConnectionState) String() string {
	switch cs {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateFailed:
		return "failed"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

var (
	ErrNotConnected      = errors.New("WebSocket not connected")
	ErrAlreadyConnecting = errors.New("already connected or connecting")
	ErrStopped           = errors.New("connection manager stopped")
)

// connectionManager handles WebSocket connection lifecycle
type connectionManager struct {
	config         Config
	headers        security.HeaderProvider
	metrics        performance.Metrics
	circuitBreaker performance.CircuitBreaker
	dialer         WebSocketDialer
	logger         logging.ApplicationLogger

	// mu guards state, conn, cancel and connectedAt
	mu          sync.Mutex
	state       ConnectionState
	conn        WebSocketConn
	cancel      context.CancelFunc
	connectedAt time.Time

	writeMu sync.Mutex

	lastActivity  time.Time
	activityMutex sync.RWMutex

	callbacks Callbacks
}

// NewConnectionManager creates a manager. A nil dialer selects the gorilla dialer.
func NewConnectionManager(
	config Config,
	headers security.HeaderProvider,
	metrics performance.Metrics,
	logger logging.ApplicationLogger,
	dialer WebSocketDialer,
) ConnectionManager {
	if dialer == nil {
		dialer = NewGorillaDialer(config)
	}
	if metrics == nil {
		metrics = performance.NewMetrics()
	}
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &connectionManager{
		config:         config,
		headers:        headers,
		metrics:        metrics,
		circuitBreaker: performance.NewCircuitBreaker(3, 30*time.Second),
		dialer:         dialer,
		logger:         logger,
		state:          StateDisconnected,
	}
}

// SetCallbacks must be called before Connect
func (cm *connectionManager) SetCallbacks(callbacks Callbacks) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = callbacks
}

func (cm *connectionManager) Connect(ctx context.Context) error {
	cm.mu.Lock()
	switch cm.state {
	case StateConnected, StateConnecting:
		cm.mu.Unlock()
		return ErrAlreadyConnecting
	case StateStopped:
		cm.mu.Unlock()
		return ErrStopped
	}
	connCtx, cancel := context.WithCancel(ctx)
	cm.cancel = cancel
	cm.setState(StateConnecting)
	cm.mu.Unlock()

	var conn WebSocketConn
	err := cm.circuitBreaker.Execute(func() error {
		var dialErr error
		conn, dialErr = cm.dial(connCtx)
		return dialErr
	})
	if err != nil {
		cancel()
		cm.mu.Lock()
		if cm.state == StateConnecting {
			cm.setState(StateFailed)
		}
		cm.mu.Unlock()
		cm.metrics.IncrementConnectionError()
		return err
	}

	cm.mu.Lock()
	if cm.state != StateConnecting {
		// Disconnect won the race while we were dialing.
		cm.mu.Unlock()
		cancel()
		_ = conn.Close()
		return ErrStopped
	}
	cm.conn = conn
	cm.connectedAt = time.Now()
	cm.setState(StateConnected)
	onConnect := cm.callbacks.OnConnect
	cm.mu.Unlock()

	cm.updateLastActivity()
	conn.SetPongHandler(func(string) error {
		cm.updateLastActivity()
		return nil
	})

	go cm.readMessages(connCtx, conn)
	if cm.config.EnableHealthMonitoring {
		go cm.healthMonitor(connCtx, conn)
	}

	if onConnect != nil {
		if err := onConnect(); err != nil {
			cm.logger.Error("Connect callback failed: %v", err)
			cm.closeConn(conn, StateFailed)
			return fmt.Errorf("connect callback: %w", err)
		}
	}

	cm.logger.Info("WebSocket connected successfully to %s", cm.config.URL)
	return nil
}

func (cm *connectionManager) dial(ctx context.Context) (WebSocketConn, error) {
	if err := cm.config.Validate(); err != nil {
		return nil, err
	}

	var headers http.Header
	if cm.headers != nil {
		h, err := cm.headers.GetSecureHeaders(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get handshake headers: %w", err)
		}
		headers = h
	}

	connectCtx, cancel := context.WithTimeout(ctx, cm.config.ConnectTimeout)
	defer cancel()

	conn, _, err := cm.dialer.DialContext(connectCtx, cm.config.URL, headers)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to WebSocket: %w", err)
	}
	return conn, nil
}

// Disconnect is a user command: the manager ends in StateStopped and
// OnDisconnect is not invoked.
func (cm *connectionManager) Disconnect() error {
	cm.mu.Lock()
	if cm.state == StateStopped {
		cm.mu.Unlock()
		return nil
	}

	if cm.cancel != nil {
		cm.cancel()
		cm.cancel = nil
	}

	conn := cm.conn
	cm.conn = nil
	if conn != nil {
		cm.metrics.RecordConnectionDuration(time.Since(cm.connectedAt))
	}
	cm.setState(StateStopped)
	cm.mu.Unlock()

	var err error
	if conn != nil {
		err = conn.Close()
	}

	cm.logger.Info("WebSocket disconnected")
	return err
}

func (cm *connectionManager) Send(data []byte) error {
	return cm.write(websocket.TextMessage, data)
}

func (cm *connectionManager) SendJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	cm.logger.Debug("Sending WebSocket message: %s", string(data))
	return cm.write(websocket.TextMessage, data)
}

func (cm *connectionManager) SendPing() error {
	cm.logger.Debug("Sending WebSocket ping control frame")
	return cm.write(websocket.PingMessage, nil)
}

func (cm *connectionManager) write(messageType int, data []byte) error {
	cm.mu.Lock()
	conn := cm.conn
	connected := cm.state == StateConnected
	cm.mu.Unlock()

	if !connected || conn == nil {
		return ErrNotConnected
	}

	cm.writeMu.Lock()
	defer cm.writeMu.Unlock()

	if err := conn.SetWriteDeadline(time.Now().Add(cm.config.WriteTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}
	if err := conn.WriteMessage(messageType, data); err != nil {
		return err
	}
	if messageType == websocket.TextMessage {
		cm.metrics.IncrementSent()
	}
	return nil
}

func (cm *connectionManager) GetState() ConnectionState {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.state
}

func (cm *connectionManager) IsSocketOpen() bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.state == StateConnected && cm.conn != nil
}

func (cm *connectionManager) GetConnectionStats() map[string]interface{} {
	state := cm.GetState()

	cm.activityMutex.RLock()
	lastActivity := cm.lastActivity
	cm.activityMutex.RUnlock()

	stats := map[string]interface{}{
		"state":         state.String(),
		"connected":     state == StateConnected,
		"last_activity": lastActivity,
		"url":           cm.config.URL,
		"breaker":       cm.circuitBreaker.GetState(),
	}

	for k, v := range cm.metrics.GetStats() {
		stats[k] = v
	}

	return stats
}

func (cm *connectionManager) IsHealthy() bool {
	if cm.GetState() != StateConnected {
		return false
	}
	return cm.quietFor() <= cm.config.IdleTimeout
}

// setState requires cm.mu
func (cm *connectionManager) setState(state ConnectionState) {
	if cm.state == state {
		return
	}
	cm.state = state
	cm.logger.Debug("Connection state changed to: %s", state.String())
	if cm.callbacks.OnStateChange != nil {
		cm.callbacks.OnStateChange(state)
	}
}

func (cm *connectionManager) updateLastActivity() {
	cm.activityMutex.Lock()
	defer cm.activityMutex.Unlock()
	cm.lastActivity = time.Now()
}

func (cm *connectionManager) quietFor() time.Duration {
	cm.activityMutex.RLock()
	defer cm.activityMutex.RUnlock()
	return time.Since(cm.lastActivity)
}

func (cm *connectionManager) readMessages(ctx context.Context, conn WebSocketConn) {
	defer func() {
		if r := recover(); r != nil {
			cm.logger.Error("WebSocket read panic: %v", r)
			cm.handleConnectionError(conn, fmt.Errorf("read panic: %v", r))
		}
	}()

	for {
		if ctx.Err() != nil {
			return
		}

		if err := conn.SetReadDeadline(time.Now().Add(cm.config.ReadTimeout)); err != nil {
			cm.handleConnectionError(conn, fmt.Errorf("failed to set read deadline: %w", err))
			return
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				cm.logger.Info("WebSocket closed by server")
			} else {
				cm.logger.Error("WebSocket read error: %v", err)
			}
			cm.handleConnectionError(conn, err)
			return
		}

		cm.updateLastActivity()
		cm.metrics.IncrementReceived()

		if onMessage := cm.callbacks.OnMessage; onMessage != nil {
			if err := onMessage(message); err != nil {
				cm.logger.Debug("Message handler error: %v", err)
				cm.metrics.IncrementDropped()
				if cm.callbacks.OnError != nil {
					cm.callbacks.OnError(fmt.Errorf("message processing error: %w", err))
				}
			}
		}
	}
}

// healthMonitor reports idle periods and optionally probes the socket with pings
func (cm *connectionManager) healthMonitor(ctx context.Context, conn WebSocketConn) {
	ticker := time.NewTicker(cm.config.HealthCheckInterval)
	defer ticker.Stop()

	idleReported := false
	var lastPing time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if cm.GetState() != StateConnected {
				return
			}

			quiet := cm.quietFor()
			if quiet <= cm.config.IdleTimeout {
				idleReported = false
				continue
			}

			if !idleReported {
				idleReported = true
				cm.logger.Warn("No activity for %v, connection may be stale", quiet)
				cm.metrics.IncrementIdle()
				if cm.callbacks.OnIdle != nil {
					cm.callbacks.OnIdle(quiet)
				}
			}

			if cm.config.EnableHealthPings && time.Since(lastPing) >= cm.config.PingInterval {
				lastPing = time.Now()
				if err := cm.SendPing(); err != nil {
					cm.logger.Debug("Health ping failed: %v", err)
					cm.handleConnectionError(conn, fmt.Errorf("health ping: %w", err))
					return
				}
			}
		}
	}
}

// handleConnectionError tears down conn after an unexpected loss. Stale
// connections (already replaced or closed by Disconnect) are ignored.
func (cm *connectionManager) handleConnectionError(conn WebSocketConn, cause error) {
	if !cm.closeConn(conn, StateDisconnected) {
		return
	}

	cm.logger.Error("WebSocket connection lost: %v", cause)
	cm.metrics.IncrementConnectionError()

	if cm.callbacks.OnDisconnect != nil {
		cm.callbacks.OnDisconnect()
	}
	if cm.callbacks.OnError != nil {
		cm.callbacks.OnError(fmt.Errorf("WebSocket connection lost: %w", cause))
	}
}

func (cm *connectionManager) closeConn(conn WebSocketConn, next ConnectionState) bool {
	cm.mu.Lock()
	if cm.conn != conn || cm.state != StateConnected {
		cm.mu.Unlock()
		return false
	}
	if cm.cancel != nil {
		cm.cancel()
		cm.cancel = nil
	}
	cm.conn = nil
	cm.metrics.RecordConnectionDuration(time.Since(cm.connectedAt))
	cm.setState(next)
	cm.mu.Unlock()

	_ = conn.Close()
	return true
}
