package infrastructure_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/backtesting-org/coinbase-streaming/internal/config"
	"github.com/backtesting-org/coinbase-streaming/internal/infrastructure"
)

var _ = Describe("NewLogger", func() {
	It("writes JSON lines to a rotated file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "stream.log")
		cfg := &config.Config{Logging: config.LoggingConfig{
			Level:      "debug",
			Format:     "json",
			OutputPath: path,
			MaxSizeMB:  1,
		}}

		logger, err := infrastructure.NewLogger(cfg)
		Expect(err).ToNot(HaveOccurred())

		infrastructure.NewApplicationLogger(logger).Info("Subscribed to %d products", 2)
		Expect(logger.Sync()).To(Succeed())

		data, err := os.ReadFile(path)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(data)).To(ContainSubstring(`"message":"Subscribed to 2 products"`))
		Expect(string(data)).To(ContainSubstring(`"logger":"coinbase"`))
	})

	It("drops entries below the configured level", func() {
		path := filepath.Join(GinkgoT().TempDir(), "stream.log")
		cfg := &config.Config{Logging: config.LoggingConfig{
			Level:      "warn",
			Format:     "console",
			OutputPath: path,
			MaxSizeMB:  1,
		}}

		logger, err := infrastructure.NewLogger(cfg)
		Expect(err).ToNot(HaveOccurred())
		logger.Info("hidden")
		logger.Warn("shown")
		Expect(logger.Sync()).To(Succeed())

		data, err := os.ReadFile(path)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(data)).ToNot(ContainSubstring("hidden"))
		Expect(string(data)).To(ContainSubstring("shown"))
	})
})
