package performance

import "time"

// Metrics defines metrics collection operations
type Metrics interface {
	IncrementReceived()
	IncrementSent()
	IncrementDropped()
	IncrementConnectionError()
	IncrementReconnection()
	IncrementIdle()
	IncrementAuthFailure()
	RecordConnectionDuration(d time.Duration)
	GetStats() map[string]interface{}
}

// CircuitBreaker defines circuit breaker operations
type CircuitBreaker interface {
	Execute(fn func() error) error
	GetState() string
}
