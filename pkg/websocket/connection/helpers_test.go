package connection_test

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/mock"

	mockconn "github.com/backtesting-org/coinbase-streaming/mocks/github.com/backtesting-org/coinbase-streaming/pkg/websocket/connection"
	mockperf "github.com/backtesting-org/coinbase-streaming/mocks/github.com/backtesting-org/coinbase-streaming/pkg/websocket/performance"
)

var errClosed = errors.New("use of closed network connection")

// serverFeed drives a mocked connection: ReadMessage blocks until a frame is
// pushed or the connection is closed from either side.
type serverFeed struct {
	frames chan []byte
	closed chan struct{}
	once   sync.Once
}

func newServerFeed() *serverFeed {
	return &serverFeed{
		frames: make(chan []byte, 16),
		closed: make(chan struct{}),
	}
}

func (f *serverFeed) read() (int, []byte, error) {
	select {
	case frame := <-f.frames:
		return websocket.TextMessage, frame, nil
	case <-f.closed:
		return 0, nil, errClosed
	}
}

func (f *serverFeed) close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *serverFeed) push(frame string) {
	f.frames <- []byte(frame)
}

// wire installs permissive expectations on conn backed by feed
func (f *serverFeed) wire(conn *mockconn.WebSocketConn) {
	conn.On("SetReadDeadline", mock.Anything).Return(nil).Maybe()
	conn.On("SetWriteDeadline", mock.Anything).Return(nil).Maybe()
	conn.On("SetPongHandler", mock.Anything).Return().Maybe()
	conn.On("ReadMessage").Return(f.read).Maybe()
	conn.On("Close").Return(f.close).Maybe()
}

func allowMetrics(m *mockperf.Metrics) {
	for _, name := range []string{
		"IncrementReceived", "IncrementSent", "IncrementDropped", "IncrementConnectionError",
		"IncrementReconnection", "IncrementIdle", "IncrementAuthFailure",
	} {
		m.On(name).Return().Maybe()
	}
	m.On("RecordConnectionDuration", mock.Anything).Return().Maybe()
	m.On("GetStats").Return(map[string]interface{}{}).Maybe()
}
