package coinbase

const (
	ProductionURL   = "wss://ws-feed.pro.coinbase.com"
	SandboxURL      = "wss://ws-feed-public.sandbox.pro.coinbase.com"
	PrimeURL        = "wss://ws-feed.exchange.coinbase.com"
	PrimeSandboxURL = "wss://ws-feed-public.sandbox.exchange.coinbase.com"
)

// ResolveEndpoint picks the feed URL. A non-empty override always wins; an
// empty override means none is set.
func ResolveEndpoint(useSandbox, usePrime bool, override string) string {
	if override != "" {
		return override
	}
	switch {
	case useSandbox && usePrime:
		return PrimeSandboxURL
	case useSandbox:
		return SandboxURL
	case usePrime:
		return PrimeURL
	default:
		return ProductionURL
	}
}
