package coinbase_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase"
	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase/rest"
	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase/types"
)

var _ = Describe("ExchangeSpecification", func() {
	Describe("DefaultExchangeSpecification", func() {
		It("targets production with strict parameters and no credentials", func() {
			spec := coinbase.DefaultExchangeSpecification()

			Expect(spec.RESTURL).To(Equal(rest.ProductionURL))
			Expect(spec.ParameterPolicy).To(Equal(coinbase.StrictParameters))
			Expect(spec.HasCredentials()).To(BeFalse())
			Expect(spec.Validate()).To(Succeed())
		})
	})

	Describe("Validate", func() {
		It("requires the secret and passphrase with an API key", func() {
			spec := coinbase.DefaultExchangeSpecification()
			spec.APIKey = "key"

			err := spec.Validate()
			Expect(coinbase.IsConfigKind(err, coinbase.InvalidSpecification)).To(BeTrue())
		})

		It("rejects a malformed REST URL", func() {
			spec := coinbase.DefaultExchangeSpecification()
			spec.RESTURL = "not a url"

			Expect(coinbase.IsConfigKind(spec.Validate(), coinbase.InvalidSpecification)).To(BeTrue())
		})

		It("accepts complete credentials", func() {
			spec := coinbase.DefaultExchangeSpecification()
			spec.APIKey, spec.SecretKey, spec.Passphrase = "key", "c2VjcmV0", "pass"

			Expect(spec.Validate()).To(Succeed())
		})
	})

	Describe("Clone", func() {
		It("does not share the parameter map", func() {
			spec := coinbase.DefaultExchangeSpecification()
			spec.ExtensionParameters = map[string]any{coinbase.ParamUseSandbox: true}

			clone := spec.Clone()
			clone.ExtensionParameters[coinbase.ParamUsePrime] = true

			Expect(spec.ExtensionParameters).To(HaveLen(1))
		})
	})

	Describe("ParseStreamingOptions", func() {
		It("reads every recognised key", func() {
			opts, ignored, err := coinbase.ParseStreamingOptions(map[string]any{
				coinbase.ParamUseSandbox:           true,
				coinbase.ParamUsePrime:             "true",
				coinbase.ParamOrderBookMode:        "Batch",
				coinbase.ParamLegacyFullOrderBook:  "false",
				coinbase.ParamOverrideWebsocketURL: "wss://local:9000",
			}, coinbase.StrictParameters)

			Expect(err).ToNot(HaveOccurred())
			Expect(ignored).To(BeEmpty())
			Expect(opts.UseSandbox).To(BeTrue())
			Expect(opts.UsePrime).To(BeTrue())
			Expect(*opts.OrderBookMode).To(Equal("Batch"))
			Expect(*opts.LegacyFullOrderBook).To(BeFalse())
			Expect(opts.OverrideURL).To(Equal("wss://local:9000"))
		})

		It("treats nil values as unset", func() {
			opts, _, err := coinbase.ParseStreamingOptions(map[string]any{
				coinbase.ParamOrderBookMode: nil,
			}, coinbase.StrictParameters)

			Expect(err).ToNot(HaveOccurred())
			Expect(opts.OrderBookMode).To(BeNil())
		})

		It("rejects unknown keys under the strict policy", func() {
			_, _, err := coinbase.ParseStreamingOptions(map[string]any{"Use_Testnet": true}, coinbase.StrictParameters)

			var cfgErr *coinbase.ConfigError
			Expect(errors.As(err, &cfgErr)).To(BeTrue())
			Expect(cfgErr.Kind).To(Equal(coinbase.UnknownParameter))
			Expect(cfgErr.Value).To(Equal("Use_Testnet"))
			Expect(cfgErr.Valid).To(ContainElement(coinbase.ParamOrderBookMode))
		})

		It("reports unknown keys under the permissive policy", func() {
			opts, ignored, err := coinbase.ParseStreamingOptions(map[string]any{
				"Use_Testnet":            true,
				"Remote_Init":            false,
				coinbase.ParamUseSandbox: true,
			}, coinbase.PermissiveParameters)

			Expect(err).ToNot(HaveOccurred())
			Expect(opts.UseSandbox).To(BeTrue())
			Expect(ignored).To(Equal([]string{"Remote_Init", "Use_Testnet"}))
		})

		DescribeTable("rejects values of the wrong type",
			func(key string, value any) {
				_, _, err := coinbase.ParseStreamingOptions(map[string]any{key: value}, coinbase.StrictParameters)
				Expect(coinbase.IsConfigKind(err, coinbase.InvalidParameter)).To(BeTrue())
			},
			Entry("sandbox as number", coinbase.ParamUseSandbox, 1),
			Entry("prime as word", coinbase.ParamUsePrime, "yes please"),
			Entry("legacy flag as number", coinbase.ParamLegacyFullOrderBook, 3.5),
			Entry("override as bool", coinbase.ParamOverrideWebsocketURL, true),
		)
	})

	Describe("ResolveStreamingOptions", func() {
		It("lets parameters fill unset typed options", func() {
			spec := coinbase.DefaultExchangeSpecification()
			spec.Streaming.UsePrime = true
			spec.ExtensionParameters = map[string]any{
				coinbase.ParamUseSandbox:    "true",
				coinbase.ParamOrderBookMode: "Full",
			}

			opts, _, err := spec.ResolveStreamingOptions()
			Expect(err).ToNot(HaveOccurred())
			Expect(opts.UseSandbox).To(BeTrue())
			Expect(opts.UsePrime).To(BeTrue())
			Expect(*opts.OrderBookMode).To(Equal("Full"))
		})

		It("rejects a parameter that disagrees with the typed mode", func() {
			spec := coinbase.DefaultExchangeSpecification()
			spec.Streaming.OrderBookMode = ptr("Batch")
			spec.ExtensionParameters = map[string]any{coinbase.ParamOrderBookMode: "Full"}

			_, _, err := spec.ResolveStreamingOptions()
			Expect(coinbase.IsConfigKind(err, coinbase.ConflictingOrderBookModeConfig)).To(BeTrue())
		})

		It("rejects an override that is not a URL", func() {
			spec := coinbase.DefaultExchangeSpecification()
			spec.ExtensionParameters = map[string]any{coinbase.ParamOverrideWebsocketURL: "::nope"}

			_, _, err := spec.ResolveStreamingOptions()
			Expect(coinbase.IsConfigKind(err, coinbase.InvalidParameter)).To(BeTrue())
		})
	})
})

var _ = Describe("ResolveFeed", func() {
	It("combines endpoint and order book mode", func() {
		spec := coinbase.DefaultExchangeSpecification()
		spec.Streaming.UsePrime = true
		spec.ExtensionParameters = map[string]any{coinbase.ParamLegacyFullOrderBook: true}

		feed, err := spec.ResolveFeed()
		Expect(err).ToNot(HaveOccurred())
		Expect(feed.URL).To(Equal(coinbase.PrimeURL))
		Expect(feed.OrderBookMode).To(Equal(types.OrderBookFull))
		Expect(feed.Mode).To(Equal("Full"))
	})

	It("lists parameters ignored under the permissive policy", func() {
		spec := coinbase.DefaultExchangeSpecification()
		spec.ParameterPolicy = coinbase.PermissiveParameters
		spec.ExtensionParameters = map[string]any{"Use_Testnet": true}

		feed, err := spec.ResolveFeed()
		Expect(err).ToNot(HaveOccurred())
		Expect(feed.IgnoredParameters).To(ConsistOf("Use_Testnet"))
	})
})
