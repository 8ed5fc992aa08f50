package coinbase_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	mockcoinbase "github.com/backtesting-org/coinbase-streaming/mocks/github.com/backtesting-org/coinbase-streaming/pkg/coinbase"
	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase"
	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase/rest"
	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase/streaming"
	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase/types"
	"github.com/backtesting-org/coinbase-streaming/pkg/websocket/connection"
)

// restStub completes the mocked account service into a RESTClient
type restStub struct {
	*mockcoinbase.AccountService
}

func (restStub) PlaceOrder(context.Context, rest.OrderRequest) (*rest.Order, error) {
	return nil, errors.New("order placement not used in these tests")
}

// recordingFactory captures every session config it is asked to build
type recordingFactory struct {
	mu      sync.Mutex
	configs []streaming.Config
	build   func(streaming.Config) (streaming.Session, error)
}

func (f *recordingFactory) factory() coinbase.SessionFactory {
	return func(config streaming.Config) (streaming.Session, error) {
		f.mu.Lock()
		f.configs = append(f.configs, config)
		build := f.build
		f.mu.Unlock()
		return build(config)
	}
}

func (f *recordingFactory) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.configs)
}

func (f *recordingFactory) last() streaming.Config {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.configs[len(f.configs)-1]
}

// fakeSession is a lock free session for concurrency tests
type fakeSession struct {
	connectDelay time.Duration
	open         atomic.Bool
	disconnects  atomic.Int32
}

func (s *fakeSession) SubscribeProducts(...types.ProductSubscription) error { return nil }

func (s *fakeSession) Connect(ctx context.Context) error {
	select {
	case <-time.After(s.connectDelay):
		s.open.Store(true)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *fakeSession) Disconnect() error {
	s.open.Store(false)
	s.disconnects.Add(1)
	return nil
}

func (s *fakeSession) IsSocketOpen() bool { return s.open.Load() }

func (s *fakeSession) ReconnectFailures() <-chan error { return nil }

func (s *fakeSession) ConnectionSuccess() <-chan streaming.ConnectionEvent { return nil }

func (s *fakeSession) ConnectionStates() <-chan connection.ConnectionState { return nil }

func (s *fakeSession) Idle() <-chan time.Duration { return nil }

func (s *fakeSession) MarketData() streaming.MarketDataService { return nil }

func (s *fakeSession) Trade() streaming.TradeService { return nil }

func (s *fakeSession) Subscriptions() []types.ProductSubscription { return nil }

func (s *fakeSession) Stats() map[string]interface{} { return map[string]interface{}{} }

func btcBook() types.ProductSubscription {
	return types.NewProductSubscription("BTC-USD", types.ChannelOrderBook)
}

func ptr[T any](v T) *T {
	return &v
}
