package rest_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase/rest"
)

var secret = base64.StdEncoding.EncodeToString([]byte("top-secret"))

func expectedSignature(timestamp, method, path, body string) string {
	mac := hmac.New(sha256.New, []byte("top-secret"))
	mac.Write([]byte(timestamp + method + path + body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

type recordedRequest struct {
	method string
	path   string
	header http.Header
	body   string
}

var _ = Describe("Signer", func() {
	It("should require every credential", func() {
		_, err := rest.NewSigner("key", "", "pass")
		Expect(err).To(MatchError(rest.ErrMissingCredentials))
	})

	It("should reject a secret that is not base64", func() {
		_, err := rest.NewSigner("key", "%%%", "pass")
		Expect(err).To(MatchError(ContainSubstring("base64")))
	})

	It("should sign timestamp, method, path and body", func() {
		signer, err := rest.NewSigner("key", secret, "pass")
		Expect(err).ToNot(HaveOccurred())

		headers := signer.Headers("1700000000", "GET", "/users/self/verify", "")
		Expect(headers.Get(rest.HeaderAccessKey)).To(Equal("key"))
		Expect(headers.Get(rest.HeaderAccessPassphrase)).To(Equal("pass"))
		Expect(headers.Get(rest.HeaderAccessTimestamp)).To(Equal("1700000000"))
		Expect(headers.Get(rest.HeaderAccessSign)).To(Equal(expectedSignature("1700000000", "GET", "/users/self/verify", "")))
	})
})

var _ = Describe("Client", func() {
	var (
		server   *httptest.Server
		mu       sync.Mutex
		requests []recordedRequest
		handler  http.HandlerFunc
		client   *rest.Client
		ctx      context.Context
	)

	BeforeEach(func() {
		requests = nil
		ctx = context.Background()
		handler = func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/time":
				_, _ = io.WriteString(w, `{"iso":"2024-01-01T00:00:00Z","epoch":1704067200.123}`)
			case "/accounts":
				_, _ = io.WriteString(w, `[{"id":"71452118-efc7-4cc4-8780-a5e22d4baa53","currency":"BTC","balance":"1.50000000","available":"1.00000000","hold":"0.50000000","profile_id":"p1","trading_enabled":true}]`)
			case "/orders":
				_, _ = io.WriteString(w, `{"id":"d0c5340b-6d6c-49d9-b567-48c4bfca13d2","product_id":"BTC-USD","side":"buy","type":"limit","price":"100.00","size":"0.01","status":"pending","created_at":"2024-01-01T00:00:00Z"}`)
			default:
				w.WriteHeader(http.StatusNotFound)
				_, _ = io.WriteString(w, `{"message":"NotFound"}`)
			}
		}

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			mu.Lock()
			requests = append(requests, recordedRequest{method: r.Method, path: r.URL.Path, header: r.Header.Clone(), body: string(body)})
			mu.Unlock()
			handler(w, r)
		}))

		var err error
		client, err = rest.NewClient(rest.Config{
			BaseURL:    server.URL,
			APIKey:     "key",
			SecretKey:  secret,
			Passphrase: "pass",
		}, nil)
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		server.Close()
	})

	lastRequest := func() recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		Expect(requests).ToNot(BeEmpty())
		return requests[len(requests)-1]
	}

	Describe("GetWebsocketAuthData", func() {
		It("should sign the verify request at server time", func() {
			auth, err := client.GetWebsocketAuthData(ctx)
			Expect(err).ToNot(HaveOccurred())

			Expect(auth.Key).To(Equal("key"))
			Expect(auth.Passphrase).To(Equal("pass"))
			Expect(auth.Timestamp).To(Equal("1704067200"))
			Expect(auth.Signature).To(Equal(expectedSignature("1704067200", "GET", "/users/self/verify", "")))
			Expect(lastRequest().path).To(Equal("/time"))
		})

		It("should fail without credentials", func() {
			public, err := rest.NewClient(rest.Config{BaseURL: server.URL}, nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(public.HasCredentials()).To(BeFalse())

			_, err = public.GetWebsocketAuthData(ctx)
			Expect(err).To(MatchError(rest.ErrMissingCredentials))
		})

		It("should surface API errors", func() {
			handler = func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = io.WriteString(w, `{"message":"maintenance"}`)
			}

			_, err := client.GetWebsocketAuthData(ctx)
			var apiErr *rest.APIError
			Expect(err).To(BeAssignableToTypeOf(apiErr))
			Expect(err.Error()).To(ContainSubstring("maintenance"))
		})
	})

	Describe("Accounts", func() {
		It("should send signed headers and decode balances", func() {
			accounts, err := client.Accounts(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(accounts).To(HaveLen(1))
			Expect(accounts[0].ID).To(Equal(uuid.MustParse("71452118-efc7-4cc4-8780-a5e22d4baa53")))
			Expect(accounts[0].Balance.Equal(decimal.RequireFromString("1.5"))).To(BeTrue())

			req := lastRequest()
			ts := req.header.Get(rest.HeaderAccessTimestamp)
			Expect(ts).ToNot(BeEmpty())
			Expect(req.header.Get(rest.HeaderAccessSign)).To(Equal(expectedSignature(ts, "GET", "/accounts", "")))
		})
	})

	Describe("PlaceOrder", func() {
		It("should generate a client order id and sign the body", func() {
			order, err := client.PlaceOrder(ctx, rest.OrderRequest{
				ProductID: "BTC-USD",
				Side:      rest.SideBuy,
				Type:      rest.OrderTypeLimit,
				Size:      decimal.RequireFromString("0.01"),
				Price:     decimal.RequireFromString("100.00"),
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(order.Status).To(Equal("pending"))

			req := lastRequest()
			Expect(req.method).To(Equal(http.MethodPost))

			var sent map[string]interface{}
			Expect(json.Unmarshal([]byte(req.body), &sent)).To(Succeed())
			Expect(sent).To(HaveKeyWithValue("price", "100"))
			Expect(sent).To(HaveKeyWithValue("size", "0.01"))
			_, err = uuid.Parse(sent["client_oid"].(string))
			Expect(err).ToNot(HaveOccurred())

			ts := req.header.Get(rest.HeaderAccessTimestamp)
			Expect(req.header.Get(rest.HeaderAccessSign)).To(Equal(expectedSignature(ts, "POST", "/orders", req.body)))
		})

		It("should omit the price of market orders", func() {
			_, err := client.PlaceOrder(ctx, rest.OrderRequest{
				ProductID: "BTC-USD",
				Side:      rest.SideSell,
				Type:      rest.OrderTypeMarket,
				Size:      decimal.RequireFromString("0.5"),
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(lastRequest().body).ToNot(ContainSubstring("price"))
		})

		DescribeTable("rejects invalid orders before sending",
			func(order rest.OrderRequest) {
				_, err := client.PlaceOrder(ctx, order)
				Expect(err).To(MatchError(ContainSubstring("invalid order")))

				mu.Lock()
				defer mu.Unlock()
				Expect(requests).To(BeEmpty())
			},
			Entry("missing product", rest.OrderRequest{Side: rest.SideBuy, Type: rest.OrderTypeMarket, Size: decimal.NewFromInt(1)}),
			Entry("unknown side", rest.OrderRequest{ProductID: "BTC-USD", Side: "hold", Type: rest.OrderTypeMarket, Size: decimal.NewFromInt(1)}),
			Entry("zero size", rest.OrderRequest{ProductID: "BTC-USD", Side: rest.SideBuy, Type: rest.OrderTypeMarket}),
			Entry("limit without price", rest.OrderRequest{ProductID: "BTC-USD", Side: rest.SideBuy, Type: rest.OrderTypeLimit, Size: decimal.NewFromInt(1)}),
		)
	})
})
