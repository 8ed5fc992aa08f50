package security_test

import (
	"context"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/backtesting-org/coinbase-streaming/pkg/websocket/security"
)

var _ = Describe("StaticHeaders", func() {
	It("sets the user agent and copies extra headers", func() {
		extra := http.Header{}
		extra.Set("X-Trace", "abc")
		provider := security.NewStaticHeaders("", extra)

		headers, err := provider.GetSecureHeaders(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(headers.Get("User-Agent")).To(Equal(security.DefaultUserAgent))
		Expect(headers.Get("X-Trace")).To(Equal("abc"))
	})

	It("returns an independent copy per call", func() {
		provider := security.NewStaticHeaders("ua", nil)
		first, _ := provider.GetSecureHeaders(context.Background())
		first.Set("User-Agent", "mutated")

		second, _ := provider.GetSecureHeaders(context.Background())
		Expect(second.Get("User-Agent")).To(Equal("ua"))
	})

	It("fails when the context is already cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := security.NewStaticHeaders("ua", nil).GetSecureHeaders(ctx)
		Expect(err).To(MatchError(context.Canceled))
	})
})

var _ = Describe("RateLimiter", func() {
	It("allows up to capacity then refuses", func() {
		rl := security.NewRateLimiter(2, time.Hour)
		Expect(rl.Allow()).To(BeTrue())
		Expect(rl.Allow()).To(BeTrue())
		Expect(rl.Allow()).To(BeFalse())
	})

	It("refills on Reset", func() {
		rl := security.NewRateLimiter(1, time.Hour)
		Expect(rl.Allow()).To(BeTrue())
		Expect(rl.Allow()).To(BeFalse())
		rl.Reset()
		Expect(rl.Allow()).To(BeTrue())
	})

	It("is unlimited when capacity is zero", func() {
		rl := security.NewRateLimiter(0, 0)
		for i := 0; i < 100; i++ {
			Expect(rl.Allow()).To(BeTrue())
		}
		Expect(rl.Wait(context.Background())).To(Succeed())
	})
})

var _ = Describe("MessageValidator", func() {
	var validator security.MessageValidator

	BeforeEach(func() {
		validator = security.NewMessageValidator(security.ValidationConfig{
			MaxMessageSize: 64,
			AllowedTypes:   map[string]bool{"ticker": true, "error": true},
			RequiredFields: map[string][]string{"ticker": {"product_id"}},
		})
	})

	It("accepts a well-formed message", func() {
		Expect(validator.ValidateMessage([]byte(`{"type":"ticker","product_id":"BTC-USD"}`))).To(Succeed())
	})

	It("rejects oversized messages", func() {
		big := make([]byte, 65)
		Expect(validator.ValidateMessage(big)).To(MatchError(ContainSubstring("too large")))
	})

	It("rejects unknown types", func() {
		Expect(validator.ValidateMessage([]byte(`{"type":"l2update"}`))).
			To(MatchError(ContainSubstring("invalid message type")))
	})

	It("rejects messages missing required fields", func() {
		Expect(validator.ValidateMessage([]byte(`{"type":"ticker"}`))).
			To(MatchError(ContainSubstring("product_id")))
	})

	It("rejects non-JSON", func() {
		Expect(validator.ValidateMessage([]byte(`nope`))).To(MatchError(ContainSubstring("invalid JSON")))
	})
})
