package binance

import "fmt"

// APIError is an error payload returned by the exchange,
// e.g. {"code":-1121,"msg":"Invalid symbol."}.
type APIError struct {
	Status int    `json:"-"` // HTTP status code
	Code   int64  `json:"code"`
	Msg    string `json:"msg"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("binance: code %d: %s", e.Code, e.Msg)
}

// ExchangeInfo is the /fapi/v1/exchangeInfo response, reduced to the fields
// this client consumes.
type ExchangeInfo struct {
	Timezone   string       `json:"timezone"`
	ServerTime int64        `json:"serverTime"` // ms since epoch
	Symbols    []SymbolInfo `json:"symbols"`
}

type SymbolInfo struct {
	Symbol       string `json:"symbol"`       // e.g., "BTCUSDT"
	Status       string `json:"status"`       // "TRADING" when active
	BaseAsset    string `json:"baseAsset"`    // e.g., "BTC"
	QuoteAsset   string `json:"quoteAsset"`   // e.g., "USDT"
	MarginAsset  string `json:"marginAsset"`  // settlement currency
	ContractType string `json:"contractType"` // "PERPETUAL", "CURRENT_QUARTER", ...
}

// DepthResponse is an order book snapshot from /fapi/v1/depth.
type DepthResponse struct {
	LastUpdateID int64      `json:"lastUpdateId"`
	EventTime    int64      `json:"E"`    // ms since epoch
	Bids         [][]string `json:"bids"` // each entry: ["price", "quantity"], best first
	Asks         [][]string `json:"asks"`
}

// AggTrade is one aggregated trade from /fapi/v1/aggTrades.
type AggTrade struct {
	ID           int64  `json:"a"`
	Price        string `json:"p"`
	Quantity     string `json:"q"`
	Timestamp    int64  `json:"T"` // ms since epoch
	BuyerIsMaker bool   `json:"m"` // true when the aggressor sold
}

// PremiumIndex is the /fapi/v1/premiumIndex response for one symbol.
type PremiumIndex struct {
	Symbol          string `json:"symbol"`
	MarkPrice       string `json:"markPrice"`
	IndexPrice      string `json:"indexPrice"`
	LastFundingRate string `json:"lastFundingRate"`
	NextFundingTime int64  `json:"nextFundingTime"` // ms since epoch
	Time            int64  `json:"time"`
}
