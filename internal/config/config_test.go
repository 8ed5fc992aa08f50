package config_test

import (
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/backtesting-org/coinbase-streaming/internal/config"
	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase"
)

var _ = Describe("LoadConfig", func() {
	setEnv := func(key, value string) {
		Expect(os.Setenv(key, value)).To(Succeed())
		DeferCleanup(os.Unsetenv, key)
	}

	It("applies defaults", func() {
		cfg, err := config.LoadConfig()
		Expect(err).ToNot(HaveOccurred())

		Expect(cfg.Logging.Level).To(Equal("info"))
		Expect(cfg.Logging.OutputPath).To(Equal("stdout"))
		Expect(cfg.Coinbase.StrictParameters).To(BeTrue())
		Expect(cfg.Coinbase.IdleTimeout).To(Equal(15 * time.Second))
		Expect(cfg.Journal.Enabled()).To(BeFalse())
	})

	It("reads prefixed environment variables", func() {
		setEnv("COINBASE_STREAM_COINBASE_USE_SANDBOX", "true")
		setEnv("COINBASE_STREAM_COINBASE_ORDER_BOOK_MODE", "Batch")
		setEnv("COINBASE_STREAM_COINBASE_IDLE_TIMEOUT", "30s")
		setEnv("COINBASE_STREAM_JOURNAL_CONNECTION_STRING", "postgres://localhost/stream")

		cfg, err := config.LoadConfig()
		Expect(err).ToNot(HaveOccurred())

		Expect(cfg.Coinbase.UseSandbox).To(BeTrue())
		Expect(cfg.Coinbase.OrderBookMode).To(Equal("Batch"))
		Expect(cfg.Coinbase.IdleTimeout).To(Equal(30 * time.Second))
		Expect(cfg.Journal.Enabled()).To(BeTrue())
	})

	It("rejects an unknown logging level", func() {
		setEnv("COINBASE_STREAM_LOGGING_LEVEL", "verbose")

		_, err := config.LoadConfig()
		Expect(err).To(MatchError(ContainSubstring("invalid logging level")))
	})

	It("rejects an API key without secret and passphrase", func() {
		setEnv("COINBASE_STREAM_COINBASE_API_KEY", "key")

		_, err := config.LoadConfig()
		Expect(err).To(MatchError(ContainSubstring("SecretKey")))
	})
})

var _ = Describe("ToSpecification", func() {
	It("maps the exchange section", func() {
		cfg := &config.Config{Coinbase: config.CoinbaseConfig{
			APIKey:               "key",
			SecretKey:            "c2VjcmV0",
			Passphrase:           "pass",
			UsePrime:             true,
			OverrideWebsocketURL: "wss://local:9000",
			OrderBookMode:        "Full",
			L3OrderBook:          true,
			CompressedMessages:   true,
			IdleTimeout:          time.Second,
		}}

		spec := cfg.ToSpecification()

		Expect(spec.APIKey).To(Equal("key"))
		Expect(spec.Streaming.UsePrime).To(BeTrue())
		Expect(spec.Streaming.OverrideURL).To(Equal("wss://local:9000"))
		Expect(*spec.Streaming.OrderBookMode).To(Equal("Full"))
		Expect(*spec.Streaming.LegacyFullOrderBook).To(BeTrue())
		Expect(spec.ParameterPolicy).To(Equal(coinbase.PermissiveParameters))
		Expect(spec.UseCompressedMessages).To(BeTrue())
		Expect(spec.Validate()).To(Succeed())

		feed, err := spec.ResolveFeed()
		Expect(err).ToNot(HaveOccurred())
		Expect(feed.URL).To(Equal("wss://local:9000"))
	})

	It("leaves unset modes unset", func() {
		spec := (&config.Config{Coinbase: config.CoinbaseConfig{StrictParameters: true}}).ToSpecification()

		Expect(spec.Streaming.OrderBookMode).To(BeNil())
		Expect(spec.Streaming.LegacyFullOrderBook).To(BeNil())
		Expect(spec.ParameterPolicy).To(Equal(coinbase.StrictParameters))
	})
})
