package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/backtesting-org/coinbase-streaming/pkg/logging"
)

const (
	ProductionURL = "https://api.exchange.coinbase.com"
	SandboxURL    = "https://api-public.sandbox.exchange.coinbase.com"
)

var Json = jsoniter.ConfigCompatibleWithStandardLibrary

// APIError is returned for 4xx and 5xx responses
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("<APIError> status=%d, message=%s", e.StatusCode, e.Message)
}

type Config struct {
	BaseURL    string
	APIKey     string
	SecretKey  string
	Passphrase string
	Timeout    time.Duration
	UserAgent  string
}

type doFunc func(req *http.Request) (*http.Response, error)

// Client talks to the exchange REST API. Signed calls need full credentials;
// public calls work without them.
type Client struct {
	baseURL   string
	userAgent string
	signer    *Signer
	do        doFunc
	logger    logging.ApplicationLogger
}

func NewClient(config Config, logger logging.ApplicationLogger) (*Client, error) {
	if config.BaseURL == "" {
		config.BaseURL = ProductionURL
	}
	if _, err := url.ParseRequestURI(config.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid REST base URL: %w", err)
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "coinbase-streaming/1.0"
	}
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}

	c := &Client{
		baseURL:   strings.TrimRight(config.BaseURL, "/"),
		userAgent: config.UserAgent,
		do:        (&http.Client{Timeout: config.Timeout}).Do,
		logger:    logger,
	}

	if config.APIKey != "" {
		signer, err := NewSigner(config.APIKey, config.SecretKey, config.Passphrase)
		if err != nil {
			return nil, err
		}
		c.signer = signer
	}
	return c, nil
}

// HasCredentials reports whether signed calls are possible
func (c *Client) HasCredentials() bool {
	return c.signer != nil
}

func (c *Client) call(ctx context.Context, method, path string, body interface{}, signed bool, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = Json.Marshal(body); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	if signed {
		if c.signer == nil {
			return ErrMissingCredentials
		}
		timestamp := strconv.FormatInt(time.Now().Unix(), 10)
		for k, v := range c.signer.Headers(timestamp, method, path, string(payload)) {
			req.Header[k] = v
		}
	}

	c.logger.Debug("REST %s %s", method, path)
	res, err := c.do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if res.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: res.StatusCode}
		if e := Json.Unmarshal(data, apiErr); e != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := Json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
