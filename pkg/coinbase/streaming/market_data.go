package streaming

import (
	"context"
	"sync"

	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase/types"
	"github.com/backtesting-org/coinbase-streaming/pkg/logging"
	"github.com/backtesting-org/coinbase-streaming/pkg/websocket/base"
)

var _ MarketDataService = (*marketDataService)(nil)

type marketDataService struct {
	mode    types.OrderBookMode
	streams *streamSet
	logger  logging.ApplicationLogger

	seqMu     sync.Mutex
	sequences map[string]int64
}

func newMarketDataService(mode types.OrderBookMode, logger logging.ApplicationLogger) *marketDataService {
	return &marketDataService{
		mode:      mode,
		streams:   newStreamSet(),
		logger:    logger,
		sequences: make(map[string]int64),
	}
}

func (m *marketDataService) OrderBook(productID string) <-chan base.Message {
	return m.streams.subscribe(streamOrderBook, productID)
}

func (m *marketDataService) Trades(productID string) <-chan base.Message {
	return m.streams.subscribe(streamTrades, productID)
}

func (m *marketDataService) Ticker(productID string) <-chan base.Message {
	return m.streams.subscribe(streamTicker, productID)
}

func (m *marketDataService) Heartbeats(productID string) <-chan base.Message {
	return m.streams.subscribe(streamHeartbeat, productID)
}

func (m *marketDataService) LastSequence(productID string) int64 {
	m.seqMu.Lock()
	defer m.seqMu.Unlock()
	return m.sequences[productID]
}

func (m *marketDataService) GetMessageTypes() []string {
	return []string{
		base.TypeSnapshot, base.TypeL2Update, base.TypeTicker, base.TypeHeartbeat,
		base.TypeMatch, base.TypeLastMatch,
		base.TypeReceived, base.TypeOpen, base.TypeDone, base.TypeChange, base.TypeActivate,
	}
}

// Handle ignores user channel messages; those belong to the trade view
func (m *marketDataService) Handle(_ context.Context, msg base.Message) error {
	if msg.UserID != "" {
		return nil
	}
	m.trackSequence(msg)

	switch msg.Type {
	case base.TypeTicker:
		m.streams.publish(streamTicker, msg)
	case base.TypeHeartbeat:
		m.streams.publish(streamHeartbeat, msg)
	case base.TypeMatch, base.TypeLastMatch:
		m.streams.publish(streamTrades, msg)
		if m.mode == types.OrderBookFull && msg.Type == base.TypeMatch {
			m.streams.publish(streamOrderBook, msg)
		}
	default:
		m.streams.publish(streamOrderBook, msg)
	}
	return nil
}

// trackSequence records the product sequence. Only the full channel carries
// every sequence number, so gaps are reported in that mode alone.
func (m *marketDataService) trackSequence(msg base.Message) {
	if msg.Sequence == 0 || msg.ProductID == "" {
		return
	}

	m.seqMu.Lock()
	defer m.seqMu.Unlock()

	last := m.sequences[msg.ProductID]
	if msg.Sequence <= last {
		return
	}
	if m.mode == types.OrderBookFull && last != 0 && msg.Sequence > last+1 && msg.Type != base.TypeHeartbeat && msg.Type != base.TypeTicker {
		m.logger.Warn("Sequence gap on %s: %d -> %d", msg.ProductID, last, msg.Sequence)
	}
	m.sequences[msg.ProductID] = msg.Sequence
}

func (m *marketDataService) close() {
	m.streams.close()
}
