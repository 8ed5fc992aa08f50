package security

import (
	"context"
	"net/http"
)

// HeaderProvider supplies the HTTP headers sent with the WebSocket handshake
type HeaderProvider interface {
	GetSecureHeaders(ctx context.Context) (http.Header, error)
}

// RateLimiter defines rate limiting operations
type RateLimiter interface {
	Allow() bool
	Wait(ctx context.Context) error
	Reset()
}

// MessageValidator defines message validation operations
type MessageValidator interface {
	ValidateMessage(message []byte) error
}
