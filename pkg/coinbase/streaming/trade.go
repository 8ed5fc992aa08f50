package streaming

import (
	"context"

	"github.com/backtesting-org/coinbase-streaming/pkg/websocket/base"
)

var _ TradeService = (*tradeService)(nil)

// tradeService carries messages from the user channel, recognised by user_id
type tradeService struct {
	streams *streamSet
}

func newTradeService() *tradeService {
	return &tradeService{streams: newStreamSet()}
}

func (t *tradeService) UserTrades(productID string) <-chan base.Message {
	return t.streams.subscribe(streamUserTrades, productID)
}

func (t *tradeService) OrderChanges(productID string) <-chan base.Message {
	return t.streams.subscribe(streamOrderChanges, productID)
}

func (t *tradeService) GetMessageTypes() []string {
	return []string{
		base.TypeMatch, base.TypeReceived, base.TypeOpen,
		base.TypeDone, base.TypeChange, base.TypeActivate,
	}
}

func (t *tradeService) Handle(_ context.Context, msg base.Message) error {
	if msg.UserID == "" {
		return nil
	}
	if msg.Type == base.TypeMatch {
		t.streams.publish(streamUserTrades, msg)
	} else {
		t.streams.publish(streamOrderChanges, msg)
	}
	return nil
}

func (t *tradeService) close() {
	t.streams.close()
}
