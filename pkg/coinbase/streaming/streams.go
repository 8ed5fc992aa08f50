package streaming

import (
	"sync"

	"github.com/backtesting-org/coinbase-streaming/pkg/websocket/base"
	"github.com/backtesting-org/coinbase-streaming/pkg/websocket/events"
)

type streamKind int

const (
	streamOrderBook streamKind = iota
	streamTrades
	streamTicker
	streamHeartbeat
	streamUserTrades
	streamOrderChanges
)

type streamKey struct {
	kind      streamKind
	productID string
}

// streamSet holds a broadcaster per (kind, product); the empty product id
// receives every product of its kind
type streamSet struct {
	mu      sync.Mutex
	streams map[streamKey]*events.Broadcaster[base.Message]
	closed  bool
}

func newStreamSet() *streamSet {
	return &streamSet{streams: make(map[streamKey]*events.Broadcaster[base.Message])}
}

func (ss *streamSet) subscribe(kind streamKind, productID string) <-chan base.Message {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	key := streamKey{kind: kind, productID: productID}
	b, ok := ss.streams[key]
	if !ok {
		b = events.NewBroadcaster[base.Message]()
		if ss.closed {
			b.Close()
		} else {
			ss.streams[key] = b
		}
	}
	return b.Subscribe(events.DefaultBufferSize * 16)
}

func (ss *streamSet) publish(kind streamKind, msg base.Message) {
	ss.mu.Lock()
	exact := ss.streams[streamKey{kind: kind, productID: msg.ProductID}]
	all := ss.streams[streamKey{kind: kind}]
	ss.mu.Unlock()

	if exact != nil {
		exact.Publish(msg)
	}
	if all != nil && msg.ProductID != "" {
		all.Publish(msg)
	}
}

func (ss *streamSet) close() {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	ss.closed = true
	for _, b := range ss.streams {
		b.Close()
	}
}
