package constants

type (
	APIStatus   string
	CachePrefix string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixPrices       CachePrefix = "PRICES_"
	CachePrefixAmadeusToken CachePrefix = "AMADEUS_TOKEN_"
)

// Cabin classes understood by the price model and the upstream API
const (
	CabinEconomy        = "ECONOMY"
	CabinPremiumEconomy = "PREMIUM_ECONOMY"
	CabinBusiness       = "BUSINESS"
	CabinFirst          = "FIRST"
)

// Snapshot sources
const (
	SourceLive      = "live"
	SourceSynthetic = "synthetic"
)

const (
	DefaultCurrency   = "USD"
	DefaultAlliance   = "oneworld"
	DateLayout        = "2006-01-02"
	DefaultMaxResults = 10
)

// LookaheadWindows are the departure offsets (in days) probed on every fetch cycle
var LookaheadWindows = []int{7, 14, 30, 60}
