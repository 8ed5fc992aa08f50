package performance

import (
	"sync"
	"time"
)

type metrics struct {
	MessagesReceived   int64
	MessagesSent       int64
	MessagesDropped    int64
	ConnectionErrors   int64
	ReconnectionCount  int64
	IdleCount          int64
	AuthFailures       int64
	LastMessageTime    time.Time
	ConnectionDuration time.Duration
	mutex              sync.RWMutex
}

func NewMetrics() Metrics {
	return &metrics{}
}

func (m *metrics) IncrementReceived() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.MessagesReceived++
	m.LastMessageTime = time.Now()
}

func (m *metrics) IncrementSent() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.MessagesSent++
}

func (m *metrics) IncrementDropped() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.MessagesDropped++
}

func (m *metrics) IncrementConnectionError() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.ConnectionErrors++
}

func (m *metrics) IncrementReconnection() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.ReconnectionCount++
}

func (m *metrics) IncrementIdle() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.IdleCount++
}

func (m *metrics) IncrementAuthFailure() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.AuthFailures++
}

func (m *metrics) RecordConnectionDuration(d time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.ConnectionDuration = d
}

func (m *metrics) GetStats() map[string]interface{} {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return map[string]interface{}{
		"messages_received":      m.MessagesReceived,
		"messages_sent":          m.MessagesSent,
		"messages_dropped":       m.MessagesDropped,
		"connection_errors":      m.ConnectionErrors,
		"reconnection_count":     m.ReconnectionCount,
		"idle_count":             m.IdleCount,
		"auth_failures":          m.AuthFailures,
		"last_message_time":      m.LastMessageTime,
		"connection_duration_ms": m.ConnectionDuration.Milliseconds(),
	}
}
