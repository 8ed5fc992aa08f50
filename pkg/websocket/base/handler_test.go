package base_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	mockperf "github.com/backtesting-org/coinbase-streaming/mocks/github.com/backtesting-org/coinbase-streaming/pkg/websocket/performance"
	"github.com/backtesting-org/coinbase-streaming/pkg/logging"
	"github.com/backtesting-org/coinbase-streaming/pkg/websocket/base"
	"github.com/backtesting-org/coinbase-streaming/pkg/websocket/security"
)

type recorder struct {
	types    []string
	messages []base.Message
	err      error
}

func (r *recorder) Handle(_ context.Context, msg base.Message) error {
	r.messages = append(r.messages, msg)
	return r.err
}

func (r *recorder) GetMessageTypes() []string { return r.types }

var _ = Describe("HandlerRegistry", func() {
	var (
		registry *base.HandlerRegistry
		ctx      context.Context
	)

	BeforeEach(func() {
		registry = base.NewHandlerRegistry(logging.NewNoOpLogger())
		ctx = context.Background()
	})

	It("should route by message type and keep the raw frame", func() {
		book := &recorder{types: []string{base.TypeSnapshot, base.TypeL2Update}}
		Expect(registry.RegisterHandler(book)).To(Succeed())

		frame := `{"type":"l2update","product_id":"BTC-USD","changes":[["buy","100.00","0.5"]]}`
		Expect(registry.RouteMessage(ctx, []byte(frame))).To(Succeed())

		Expect(book.messages).To(HaveLen(1))
		Expect(book.messages[0].ProductID).To(Equal("BTC-USD"))
		Expect(string(book.messages[0].Raw)).To(Equal(frame))
	})

	It("should fan out to every handler of a type", func() {
		market := &recorder{types: []string{base.TypeMatch}}
		user := &recorder{types: []string{base.TypeMatch, base.TypeDone}}
		Expect(registry.RegisterHandler(market)).To(Succeed())
		Expect(registry.RegisterHandler(user)).To(Succeed())

		Expect(registry.RouteMessage(ctx, []byte(`{"type":"match","product_id":"ETH-USD","sequence":7}`))).To(Succeed())

		Expect(market.messages).To(HaveLen(1))
		Expect(user.messages).To(HaveLen(1))
		Expect(user.messages[0].Sequence).To(Equal(int64(7)))
		Expect(registry.GetRegisteredTypes()).To(ConsistOf(base.TypeMatch, base.TypeDone))
	})

	It("should reject registering the same handler twice", func() {
		h := &recorder{types: []string{base.TypeTicker}}
		Expect(registry.RegisterHandler(h)).To(Succeed())
		Expect(registry.RegisterHandler(h)).To(MatchError(ContainSubstring("already registered")))
	})

	It("should reject handlers without types", func() {
		Expect(registry.RegisterHandler(&recorder{})).ToNot(Succeed())
	})

	It("should run all handlers and return the first error", func() {
		failing := &recorder{types: []string{base.TypeTicker}, err: errors.New("boom")}
		next := &recorder{types: []string{base.TypeTicker}}
		Expect(registry.RegisterHandler(failing)).To(Succeed())
		Expect(registry.RegisterHandler(next)).To(Succeed())

		err := registry.RouteMessage(ctx, []byte(`{"type":"ticker","product_id":"BTC-USD"}`))
		Expect(err).To(MatchError("boom"))
		Expect(next.messages).To(HaveLen(1))
	})

	It("should send unknown types to the fallback", func() {
		fallback := &recorder{types: []string{"*"}}
		registry.SetFallback(fallback)

		Expect(registry.RouteMessage(ctx, []byte(`{"type":"status"}`))).To(Succeed())
		Expect(fallback.messages).To(HaveLen(1))
	})

	It("should ignore unknown types without a fallback", func() {
		Expect(registry.RouteMessage(ctx, []byte(`{"type":"status"}`))).To(Succeed())
	})

	It("should fail on frames that are not JSON", func() {
		Expect(registry.RouteMessage(ctx, []byte(`not json`))).To(MatchError(ContainSubstring("envelope")))
	})

	Describe("TypedHandler", func() {
		It("should decode the payload", func() {
			var got base.ErrorMessage
			h := base.NewTypedHandler([]string{base.TypeError}, func(_ context.Context, _ base.Envelope, e base.ErrorMessage) error {
				got = e
				return nil
			})
			Expect(registry.RegisterHandler(h)).To(Succeed())

			Expect(registry.RouteMessage(ctx, []byte(`{"type":"error","message":"Failed to subscribe","reason":"bad product"}`))).To(Succeed())
			Expect(got.Error()).To(Equal("Failed to subscribe: bad product"))
		})
	})
})

var _ = Describe("Processor", func() {
	var (
		registry    *base.HandlerRegistry
		mockMetrics *mockperf.Metrics
		processor   *base.Processor
		heartbeats  *recorder
	)

	BeforeEach(func() {
		registry = base.NewHandlerRegistry(nil)
		mockMetrics = mockperf.NewMetrics(GinkgoT())
		heartbeats = &recorder{types: []string{base.TypeHeartbeat}}
		Expect(registry.RegisterHandler(heartbeats)).To(Succeed())

		validator := security.NewMessageValidator(base.FeedValidationConfig(1024))
		processor = base.NewProcessor(registry, validator, mockMetrics, nil)
	})

	It("should route valid frames", func() {
		Expect(processor.Process(context.Background(), []byte(`{"type":"heartbeat","product_id":"BTC-USD","sequence":1}`))).To(Succeed())
		Expect(heartbeats.messages).To(HaveLen(1))
	})

	It("should drop frames that fail validation", func() {
		mockMetrics.On("IncrementDropped").Return().Times(2)

		Expect(processor.Process(context.Background(), []byte(`{"type":"heartbeat"}`))).To(Succeed())
		Expect(processor.Process(context.Background(), []byte(`{"type":"nonsense","product_id":"x"}`))).To(Succeed())
		Expect(heartbeats.messages).To(BeEmpty())
		mockMetrics.AssertNumberOfCalls(GinkgoT(), "IncrementDropped", 2)
	})
})
