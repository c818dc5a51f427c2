package market

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"marketfetch/config"
	"marketfetch/pkg/binance"

	"go.uber.org/zap"
)

func newTestService(t *testing.T, handler http.Handler) (*Service, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := binance.NewClient(srv.URL, 5*time.Second, 100, 10)
	defaults := config.DefaultsConfig{
		Symbol:         "BTC/USDT:USDT",
		Timeframe:      "1h",
		OHLCVLimit:     100,
		OrderBookLimit: 20,
		TradesLimit:    50,
		PairsLimit:     20,
	}

	var out bytes.Buffer
	return NewService(client, defaults, zap.NewNop(), &out), &out
}

// go test -v --run TestPairsFiltering
func TestPairsFiltering(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/fapi/v1/exchangeInfo", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"timezone":"UTC","serverTime":1700000000000,"symbols":[
			{"symbol":"BTCUSDT","status":"TRADING","baseAsset":"BTC","quoteAsset":"USDT","marginAsset":"USDT","contractType":"PERPETUAL"},
			{"symbol":"ETHUSDT","status":"TRADING","baseAsset":"ETH","quoteAsset":"USDT","marginAsset":"USDT","contractType":"PERPETUAL"},
			{"symbol":"XRPUSDT","status":"SETTLING","baseAsset":"XRP","quoteAsset":"USDT","marginAsset":"USDT","contractType":"PERPETUAL"},
			{"symbol":"BTCUSD_PERP","status":"TRADING","baseAsset":"BTC","quoteAsset":"USD","marginAsset":"BTC","contractType":"PERPETUAL"},
			{"symbol":"BTCUSDT_240329","status":"TRADING","baseAsset":"BTC","quoteAsset":"USDT","marginAsset":"USDT","contractType":"CURRENT_QUARTER"}
		]}`))
	})
	svc, out := newTestService(t, mux)

	pairs, err := svc.Pairs(context.Background(), 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// All active (TRADING) quote-settled contracts survive in exchange
	// order, dated delivery included; the coin-margined and settling rows
	// are dropped.
	if len(pairs) != 3 {
		t.Fatalf("expected 3 pairs, got %d: %+v", len(pairs), pairs)
	}
	if pairs[0].Symbol != "BTC/USDT:USDT" || pairs[1].Symbol != "ETH/USDT:USDT" {
		t.Errorf("unexpected symbols: %q, %q", pairs[0].Symbol, pairs[1].Symbol)
	}
	if pairs[2].Symbol != "BTC/USDT:USDT-240329" {
		t.Errorf("unexpected delivery symbol: %q", pairs[2].Symbol)
	}
	if pairs[0].Base != "BTC" || pairs[0].Quote != "USDT" {
		t.Errorf("base/quote not passed through: %+v", pairs[0])
	}
	if pairs[0].ContractSize != 1 {
		t.Errorf("contract size should default to 1, got %f", pairs[0].ContractSize)
	}

	if !strings.Contains(out.String(), "Found 3 active linear futures pairs") {
		t.Errorf("missing summary line in output:\n%s", out.String())
	}
}

// go test -v --run TestPairsKeepQuarterlyDelivery
func TestPairsKeepQuarterlyDelivery(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/fapi/v1/exchangeInfo", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbols":[
			{"symbol":"BTCUSDT","status":"TRADING","baseAsset":"BTC","quoteAsset":"USDT","marginAsset":"USDT","contractType":"PERPETUAL"},
			{"symbol":"BTCUSDT_250328","status":"TRADING","baseAsset":"BTC","quoteAsset":"USDT","marginAsset":"USDT","contractType":"CURRENT_QUARTER"}
		]}`))
	})
	svc, _ := newTestService(t, mux)

	pairs, err := svc.Pairs(context.Background(), 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A USDT-margined quarterly delivery contract is linear and active just
	// like the perpetual; both must come back.
	if len(pairs) != 2 {
		t.Fatalf("expected both linear active contracts, got %d: %+v", len(pairs), pairs)
	}
	if pairs[1].Symbol != "BTC/USDT:USDT-250328" {
		t.Errorf("unexpected quarterly symbol: %q", pairs[1].Symbol)
	}
	if pairs[1].Base != "BTC" || pairs[1].Quote != "USDT" {
		t.Errorf("base/quote not passed through: %+v", pairs[1])
	}
}

// go test -v --run TestPairsDisplayLimit
func TestPairsDisplayLimit(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/fapi/v1/exchangeInfo", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbols":[
			{"symbol":"BTCUSDT","status":"TRADING","baseAsset":"BTC","quoteAsset":"USDT","marginAsset":"USDT","contractType":"PERPETUAL"},
			{"symbol":"ETHUSDT","status":"TRADING","baseAsset":"ETH","quoteAsset":"USDT","marginAsset":"USDT","contractType":"PERPETUAL"},
			{"symbol":"SOLUSDT","status":"TRADING","baseAsset":"SOL","quoteAsset":"USDT","marginAsset":"USDT","contractType":"PERPETUAL"}
		]}`))
	})
	svc, out := newTestService(t, mux)

	pairs, err := svc.Pairs(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Full filtered set comes back even though only 2 are displayed.
	if len(pairs) != 3 {
		t.Fatalf("expected full set of 3 pairs, got %d", len(pairs))
	}
	if strings.Contains(out.String(), "SOL/USDT:USDT") {
		t.Errorf("third pair should not be displayed:\n%s", out.String())
	}
}

// go test -v --run TestOHLCVOrdering
func TestOHLCVOrdering(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/fapi/v1/klines", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			[1625097600000,"33500.0","33600.0","33400.0","33550.0","120.5",1625101199999],
			[1625101200000,"33550.0","33700.0","33500.0","33650.0","98.2",1625104799999],
			[1625104800000,"33650.0","33800.0","33600.0","33750.0","50.0",1625108399999]
		]`))
	})
	svc, out := newTestService(t, mux)

	candles, err := svc.OHLCV(context.Background(), "BTC/USDT:USDT", "1h", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candles) > 10 {
		t.Fatalf("got more candles than requested: %d", len(candles))
	}
	for i := 1; i < len(candles); i++ {
		if candles[i].Timestamp < candles[i-1].Timestamp {
			t.Fatal("candles not in non-decreasing timestamp order")
		}
	}
	if !strings.Contains(out.String(), "Fetched 3 candles") {
		t.Errorf("missing count line in output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "2021-07-01T02:00:00.000Z: O=33650.00") {
		t.Errorf("missing candle line in output:\n%s", out.String())
	}
}

// go test -v --run TestOrderBookSpread
func TestOrderBookSpread(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/fapi/v1/depth", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"lastUpdateId": 1,
			"E": 1589436922972,
			"bids": [["43249.50","2.3100"],["43249.00","0.5000"]],
			"asks": [["43250.00","1.2400"],["43250.50","3.0000"]]
		}`))
	})
	svc, out := newTestService(t, mux)

	book, err := svc.OrderBook(context.Background(), "BTC/USDT:USDT", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(book.Bids) != 2 || len(book.Asks) != 2 {
		t.Fatalf("unexpected book shape: %d bids, %d asks", len(book.Bids), len(book.Asks))
	}
	if !strings.Contains(out.String(), "Spread: 0.50") {
		t.Errorf("missing spread line in output:\n%s", out.String())
	}
}

// go test -v --run TestOrderBookEmptyAsks
func TestOrderBookEmptyAsks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/fapi/v1/depth", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"lastUpdateId": 1,
			"E": 1589436922972,
			"bids": [["1.00","1"],["0.99","1"],["0.98","1"],["0.97","1"],["0.96","1"]],
			"asks": []
		}`))
	})
	svc, out := newTestService(t, mux)

	book, err := svc.OrderBook(context.Background(), "BTC/USDT:USDT", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(book.Bids) != 5 || len(book.Asks) != 0 {
		t.Fatalf("unexpected book shape: %d bids, %d asks", len(book.Bids), len(book.Asks))
	}

	got := out.String()
	if !strings.Contains(got, "Top 5 Bids") {
		t.Errorf("missing bids header:\n%s", got)
	}
	if !strings.Contains(got, "Top 0 Asks") {
		t.Errorf("missing empty asks header:\n%s", got)
	}
	if strings.Contains(got, "Spread:") {
		t.Errorf("spread line must be omitted for a one-sided book:\n%s", got)
	}
}

// go test -v --run TestTradesRatio
func TestTradesRatio(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/fapi/v1/aggTrades", func(w http.ResponseWriter, r *http.Request) {
		// m=false: aggressor bought; m=true: aggressor sold.
		w.Write([]byte(`[
			{"a":1,"p":"43250.00","q":"3.0000","T":1700000000000,"m":false},
			{"a":2,"p":"43251.00","q":"1.0000","T":1700000001000,"m":true},
			{"a":3,"p":"43252.00","q":"1.0000","T":1700000002000,"m":true}
		]`))
	})
	svc, out := newTestService(t, mux)

	trades, err := svc.Trades(context.Background(), "BTC/USDT:USDT", 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trades) != 3 {
		t.Fatalf("expected 3 trades, got %d", len(trades))
	}
	if trades[0].Side != SideBuy || trades[1].Side != SideSell {
		t.Errorf("unexpected sides: %+v", trades)
	}
	for i := 1; i < len(trades); i++ {
		if trades[i].Timestamp < trades[i-1].Timestamp {
			t.Fatal("trades not in chronological order")
		}
	}

	if !strings.Contains(out.String(), "Buy/Sell ratio: 60.0% / 40.0%") {
		t.Errorf("missing ratio line in output:\n%s", out.String())
	}
}

// go test -v --run TestFundingSnapshot
func TestFundingSnapshot(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/fapi/v1/premiumIndex", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("symbol"); got != "BTCUSDT" {
			t.Errorf("expected native symbol, got %q", got)
		}
		w.Write([]byte(`{
			"symbol":"BTCUSDT",
			"markPrice":"43250.10000000",
			"indexPrice":"43248.50000000",
			"lastFundingRate":"0.00010000",
			"nextFundingTime":1700000000000,
			"time":1699999000000
		}`))
	})
	svc, out := newTestService(t, mux)

	snap := svc.Funding(context.Background(), "BTC/USDT:USDT")
	if snap == nil {
		t.Fatal("expected a snapshot")
	}
	if snap.LastFundingRate != 0.0001 {
		t.Errorf("unexpected rate: %f", snap.LastFundingRate)
	}
	if snap.MarkPrice != 43250.1 || snap.IndexPrice != 43248.5 {
		t.Errorf("unexpected prices: %+v", snap)
	}
	if !strings.Contains(out.String(), "Funding rate: 0.0100%") {
		t.Errorf("missing funding line in output:\n%s", out.String())
	}
}

// go test -v --run TestFundingErrorSwallowed
func TestFundingErrorSwallowed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/fapi/v1/premiumIndex", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	})
	svc, out := newTestService(t, mux)

	// The funding command reports failures inline and never raises.
	snap := svc.Funding(context.Background(), "NOPE/USDT:USDT")
	if snap != nil {
		t.Fatalf("expected nil snapshot, got %+v", snap)
	}
	if !strings.Contains(out.String(), "Funding rate unavailable for NOPE/USDT:USDT") {
		t.Errorf("missing inline error in output:\n%s", out.String())
	}
}

// go test -v --run TestRunAllPropagatesErrors
func TestRunAllPropagatesErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/fapi/v1/exchangeInfo", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"code":-1000,"msg":"An unknown error occurred."}`))
	})
	svc, _ := newTestService(t, mux)

	if err := svc.RunAll(context.Background()); err == nil {
		t.Fatal("expected legacy mode to propagate the failure")
	}
}
