package rest

import (
	"context"
	"net/http"
	"strconv"

	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase/types"
)

// websocketAuthPath is the request the feed expects a subscribe signature for
const websocketAuthPath = "/users/self/verify"

func (c *Client) ServerTime(ctx context.Context) (*ServerTime, error) {
	var t ServerTime
	if err := c.call(ctx, http.MethodGet, "/time", nil, false, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	var accounts []Account
	if err := c.call(ctx, http.MethodGet, "/accounts", nil, true, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// GetWebsocketAuthData signs the feed's verification request at server time
// so that clock skew cannot invalidate the signature
func (c *Client) GetWebsocketAuthData(ctx context.Context) (*types.AuthData, error) {
	if c.signer == nil {
		return nil, ErrMissingCredentials
	}

	serverTime, err := c.ServerTime(ctx)
	if err != nil {
		return nil, err
	}
	timestamp := strconv.FormatInt(int64(serverTime.Epoch), 10)

	return &types.AuthData{
		Key:        c.signer.Key(),
		Passphrase: c.signer.Passphrase(),
		Signature:  c.signer.Sign(timestamp, http.MethodGet, websocketAuthPath, ""),
		Timestamp:  timestamp,
	}, nil
}
