package security

import (
	"context"
	"net/http"
)

const DefaultUserAgent = "coinbase-streaming/1.0"

// staticHeaders sends a fixed header set with every handshake. The Coinbase feed
// authenticates inside the subscribe message, so nothing here is secret.
type staticHeaders struct {
	headers http.Header
}

func NewStaticHeaders(userAgent string, extra http.Header) HeaderProvider {
	headers := make(http.Header)
	for k, v := range extra {
		headers[k] = append([]string(nil), v...)
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	headers.Set("User-Agent", userAgent)
	return &staticHeaders{headers: headers}
}

func (sh *staticHeaders) GetSecureHeaders(ctx context.Context) (http.Header, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return sh.headers.Clone(), nil
}
