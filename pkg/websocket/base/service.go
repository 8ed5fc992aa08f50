package base

import (
	"context"

	"github.com/backtesting-org/coinbase-streaming/pkg/logging"
	"github.com/backtesting-org/coinbase-streaming/pkg/websocket/performance"
	"github.com/backtesting-org/coinbase-streaming/pkg/websocket/security"
)

// Processor validates inbound frames and routes the survivors. Frames that fail
// validation are counted as dropped and never reach a handler.
type Processor struct {
	registry  *HandlerRegistry
	validator security.MessageValidator
	metrics   performance.Metrics
	logger    logging.ApplicationLogger
}

func NewProcessor(
	registry *HandlerRegistry,
	validator security.MessageValidator,
	metrics performance.Metrics,
	logger logging.ApplicationLogger,
) *Processor {
	if metrics == nil {
		metrics = performance.NewMetrics()
	}
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &Processor{
		registry:  registry,
		validator: validator,
		metrics:   metrics,
		logger:    logger,
	}
}

func (p *Processor) Process(ctx context.Context, raw []byte) error {
	if p.validator != nil {
		if err := p.validator.ValidateMessage(raw); err != nil {
			p.metrics.IncrementDropped()
			p.logger.Warn("Message validation failed: %v", err)
			return nil
		}
	}
	return p.registry.RouteMessage(ctx, raw)
}

// FeedValidationConfig accepts every message type the feed emits
func FeedValidationConfig(maxMessageSize int) security.ValidationConfig {
	allowed := make(map[string]bool)
	for _, t := range []string{
		TypeSubscriptions, TypeError, TypeHeartbeat, TypeTicker, TypeSnapshot,
		TypeL2Update, TypeMatch, TypeLastMatch, TypeReceived, TypeOpen,
		TypeDone, TypeChange, TypeActivate,
	} {
		allowed[t] = true
	}
	return security.ValidationConfig{
		MaxMessageSize: maxMessageSize,
		AllowedTypes:   allowed,
		RequiredFields: map[string][]string{
			TypeSnapshot:  {"product_id"},
			TypeL2Update:  {"product_id", "changes"},
			TypeMatch:     {"product_id", "sequence"},
			TypeHeartbeat: {"product_id", "sequence"},
			TypeError:     {"message"},
		},
	}
}
