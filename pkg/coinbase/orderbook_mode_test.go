package coinbase_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase"
	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase/types"
)

var _ = Describe("ResolveOrderBookMode", func() {
	DescribeTable("resolves valid combinations",
		func(mode *string, legacy *bool, expected types.OrderBookMode) {
			resolved, err := coinbase.ResolveOrderBookMode(mode, legacy)
			Expect(err).ToNot(HaveOccurred())
			Expect(resolved).To(Equal(expected))
		},
		Entry("nothing set", nil, nil, types.OrderBookDefault),
		Entry("Default", ptr("Default"), nil, types.OrderBookDefault),
		Entry("Batch", ptr("Batch"), nil, types.OrderBookBatch),
		Entry("Full", ptr("Full"), nil, types.OrderBookFull),
		Entry("legacy flag alone", nil, ptr(true), types.OrderBookFull),
		Entry("legacy flag false", nil, ptr(false), types.OrderBookDefault),
		Entry("legacy flag with Default", ptr("Default"), ptr(true), types.OrderBookFull),
		Entry("legacy flag with Full", ptr("Full"), ptr(true), types.OrderBookFull),
		Entry("legacy flag false with Batch", ptr("Batch"), ptr(false), types.OrderBookBatch),
	)

	DescribeTable("rejects unsupported modes",
		func(mode string) {
			_, err := coinbase.ResolveOrderBookMode(&mode, nil)
			Expect(coinbase.IsConfigKind(err, coinbase.InvalidOrderBookMode)).To(BeTrue())
			Expect(errors.Is(err, coinbase.ErrConfig)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring(mode))
			Expect(err.Error()).To(ContainSubstring("Default, Batch, Full"))
		},
		Entry("lower case", "full"),
		Entry("unknown", "Level3"),
		Entry("empty", ""),
	)

	It("rejects the legacy flag combined with Batch", func() {
		_, err := coinbase.ResolveOrderBookMode(ptr("Batch"), ptr(true))

		var cfgErr *coinbase.ConfigError
		Expect(errors.As(err, &cfgErr)).To(BeTrue())
		Expect(cfgErr.Kind).To(Equal(coinbase.ConflictingOrderBookModeConfig))
		Expect(cfgErr.Error()).To(ContainSubstring(coinbase.ParamLegacyFullOrderBook))
	})
})
