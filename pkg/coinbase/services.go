package coinbase

import (
	"context"

	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase/rest"
	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase/types"
)

// AccountService fetches account scoped data, including feed auth data
type AccountService interface {
	GetWebsocketAuthData(ctx context.Context) (*types.AuthData, error)
	Accounts(ctx context.Context) ([]rest.Account, error)
}

// TradeService places orders over REST
type TradeService interface {
	PlaceOrder(ctx context.Context, order rest.OrderRequest) (*rest.Order, error)
}

// RESTClient is the REST capability set the exchange composes with
type RESTClient interface {
	AccountService
	TradeService
}

var _ RESTClient = (*rest.Client)(nil)
