package market

// Domain values are ephemeral: built per call from exchange responses, never
// cached or mutated afterwards.

// TradingPair describes one active linear futures contract.
type TradingPair struct {
	Symbol       string // unified notation, e.g. "BTC/USDT:USDT"
	Base         string // e.g., "BTC"
	Quote        string // e.g., "USDT"
	ContractSize float64
}

// Candle is a single OHLCV candlestick.
type Candle struct {
	Timestamp int64 // open time, ms since epoch
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// BookLevel is one price level of an order book side.
type BookLevel struct {
	Price  float64
	Amount float64
}

// OrderBook is a depth snapshot. Bids are descending by price, asks
// ascending, as the exchange returns them.
type OrderBook struct {
	Bids      []BookLevel
	Asks      []BookLevel
	Timestamp int64 // capture time, ms since epoch
}

const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// Trade is one executed trade, classified by the taker side.
type Trade struct {
	Timestamp int64 // ms since epoch
	Side      string
	Price     float64
	Amount    float64
}

// FundingSnapshot is the current funding state of a perpetual contract.
type FundingSnapshot struct {
	Symbol          string
	LastFundingRate float64
	MarkPrice       float64
	IndexPrice      float64
	NextFundingTime int64 // ms since epoch
}
