package types_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase/types"
)

var _ = Describe("OrderBookMode", func() {
	DescribeTable("feed channel",
		func(mode types.OrderBookMode, name, channel string) {
			Expect(mode.String()).To(Equal(name))
			Expect(mode.FeedChannel()).To(Equal(channel))

			parsed, ok := types.ParseOrderBookMode(name)
			Expect(ok).To(BeTrue())
			Expect(parsed).To(Equal(mode))
		},
		Entry("default", types.OrderBookDefault, "Default", "level2"),
		Entry("batch", types.OrderBookBatch, "Batch", "level2_batch"),
		Entry("full", types.OrderBookFull, "Full", "full"),
	)

	It("should match names case-sensitively", func() {
		_, ok := types.ParseOrderBookMode("full")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Channel", func() {
	It("should map logical channels to feed names", func() {
		Expect(types.ChannelOrderBook.FeedName(types.OrderBookFull)).To(Equal("full"))
		Expect(types.ChannelTrades.FeedName(types.OrderBookDefault)).To(Equal("matches"))
		Expect(types.ChannelTicker.FeedName(types.OrderBookDefault)).To(Equal("ticker"))
	})

	It("should know which channels are valid", func() {
		Expect(types.ChannelUser.Valid()).To(BeTrue())
		Expect(types.ChannelUser.RequiresAuth()).To(BeTrue())
		Expect(types.Channel("level3").Valid()).To(BeFalse())
	})
})
