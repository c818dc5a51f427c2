package market

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"marketfetch/config"
	"marketfetch/pkg/binance"

	"go.uber.org/zap"
)

// Service fetches one kind of market data per call, prints a human-readable
// summary to out, and returns the fetched values. Calls are strictly
// sequential and blocking; pacing lives inside the client.
type Service struct {
	client   *binance.Client
	defaults config.DefaultsConfig
	log      *zap.Logger
	out      io.Writer
}

func NewService(client *binance.Client, defaults config.DefaultsConfig, log *zap.Logger, out io.Writer) *Service {
	return &Service{
		client:   client,
		defaults: defaults,
		log:      log,
		out:      out,
	}
}

// Pairs lists all active linear futures contracts in exchange order. The full
// filtered set is returned; only the first limit symbols are displayed.
func (s *Service) Pairs(ctx context.Context, limit int) ([]TradingPair, error) {
	fmt.Fprintf(s.out, "\n=== Fetching Futures Trading Pairs ===\n")

	info, err := s.client.ExchangeInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch exchange info: %w", err)
	}

	var pairs []TradingPair
	for _, sym := range info.Symbols {
		if !isLinearActive(sym) {
			continue
		}
		pairs = append(pairs, pairFromSymbolInfo(sym))
	}
	s.log.Info("loaded futures pairs",
		zap.Int("total", len(info.Symbols)), zap.Int("linear_active", len(pairs)))

	fmt.Fprintf(s.out, "Found %d active linear futures pairs\n", len(pairs))
	fmt.Fprintf(s.out, "\nSample pairs:\n")
	shown := min(limit, len(pairs))
	if shown < 0 {
		shown = 0
	}
	for _, p := range pairs[:shown] {
		fmt.Fprintf(s.out, "  %s\n", p.Symbol)
	}

	return pairs, nil
}

// OHLCV fetches up to limit candlesticks, oldest first, and shows the most
// recent five.
func (s *Service) OHLCV(ctx context.Context, symbol, timeframe string, limit int) ([]Candle, error) {
	fmt.Fprintf(s.out, "\n=== Fetching OHLCV Data for %s ===\n", symbol)
	fmt.Fprintf(s.out, "Timeframe: %s, Limit: %d\n", timeframe, limit)

	if !binance.Interval(timeframe).IsKnown() {
		// No client-side rejection; the exchange validates timeframes.
		s.log.Debug("timeframe outside documented set", zap.String("timeframe", timeframe))
	}

	klines, err := s.client.Klines(ctx, symbol, timeframe, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch ohlcv: %w", err)
	}
	candles := candlesFromKlines(klines)

	fmt.Fprintf(s.out, "Fetched %d candles\n", len(candles))
	fmt.Fprintf(s.out, "\nLast 5 candles [timestamp, open, high, low, close, volume]:\n")
	for _, c := range candles[max(0, len(candles)-5):] {
		fmt.Fprintf(s.out, "  %s: O=%.2f H=%.2f L=%.2f C=%.2f V=%.2f\n",
			iso8601(c.Timestamp), c.Open, c.High, c.Low, c.Close, c.Volume)
	}

	return candles, nil
}

// OrderBook fetches a depth snapshot, shows the top five levels per side, and
// prints the spread when both sides are populated.
func (s *Service) OrderBook(ctx context.Context, symbol string, limit int) (*OrderBook, error) {
	fmt.Fprintf(s.out, "\n=== Fetching Orderbook for %s ===\n", symbol)

	depth, err := s.client.Depth(ctx, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch orderbook: %w", err)
	}
	book := bookFromDepth(depth)

	fmt.Fprintf(s.out, "Orderbook timestamp: %s\n", iso8601(book.Timestamp))
	fmt.Fprintf(s.out, "Bids: %d, Asks: %d\n", len(book.Bids), len(book.Asks))

	nBids := min(5, len(book.Bids))
	fmt.Fprintf(s.out, "\nTop %d Bids (price, amount):\n", nBids)
	for _, lvl := range book.Bids[:nBids] {
		fmt.Fprintf(s.out, "  %.2f | %.4f\n", lvl.Price, lvl.Amount)
	}

	nAsks := min(5, len(book.Asks))
	fmt.Fprintf(s.out, "\nTop %d Asks (price, amount):\n", nAsks)
	for _, lvl := range book.Asks[:nAsks] {
		fmt.Fprintf(s.out, "  %.2f | %.4f\n", lvl.Price, lvl.Amount)
	}

	if spread, pct, ok := Spread(book); ok {
		fmt.Fprintf(s.out, "\nSpread: %.2f (%.4f%%)\n", spread, pct)
	}

	return &book, nil
}

// Trades fetches recent trades, oldest first, shows the last ten, and prints
// the buy/sell volume split when any volume traded.
func (s *Service) Trades(ctx context.Context, symbol string, limit int) ([]Trade, error) {
	fmt.Fprintf(s.out, "\n=== Fetching Recent Trades for %s ===\n", symbol)

	raw, err := s.client.AggTrades(ctx, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch trades: %w", err)
	}
	trades := tradesFromAggTrades(raw)

	fmt.Fprintf(s.out, "Fetched %d trades\n", len(trades))
	fmt.Fprintf(s.out, "\nLast 10 trades:\n")
	for _, t := range trades[max(0, len(trades)-10):] {
		side := "SELL"
		if t.Side == SideBuy {
			side = "BUY "
		}
		fmt.Fprintf(s.out, "  %s | %s | %.2f | %.4f\n",
			iso8601(t.Timestamp), side, t.Price, t.Amount)
	}

	if buyPct, sellPct, ok := VolumeRatio(trades); ok {
		fmt.Fprintf(s.out, "\nBuy/Sell ratio: %.1f%% / %.1f%%\n", buyPct, sellPct)
	}

	return trades, nil
}

// Funding reports the current funding snapshot for the symbol. Unlike the
// other commands every failure here is logged and reported inline; the
// command itself never fails.
func (s *Service) Funding(ctx context.Context, symbol string) *FundingSnapshot {
	fmt.Fprintf(s.out, "\n=== Fetching Funding Rate for %s ===\n", symbol)

	// This endpoint takes the exchange-native unseparated symbol form.
	idx, err := s.client.PremiumIndex(ctx, binance.NativeSymbol(symbol))
	if err != nil {
		s.log.Warn("funding rate fetch failed", zap.String("symbol", symbol), zap.Error(err))
		fmt.Fprintf(s.out, "Funding rate unavailable for %s: %v\n", symbol, err)
		return nil
	}

	snap, err := fundingFromPremiumIndex(symbol, idx)
	if err != nil {
		s.log.Warn("funding rate response malformed", zap.String("symbol", symbol), zap.Error(err))
		fmt.Fprintf(s.out, "Funding rate unavailable for %s: %v\n", symbol, err)
		return nil
	}

	fmt.Fprintf(s.out, "Funding rate: %.4f%%\n", snap.LastFundingRate*100)
	fmt.Fprintf(s.out, "Mark price: %.2f\n", snap.MarkPrice)
	fmt.Fprintf(s.out, "Index price: %.2f\n", snap.IndexPrice)
	fmt.Fprintf(s.out, "Next funding: %s\n", iso8601(snap.NextFundingTime))

	return snap
}

// RunAll is the legacy all-in-one mode: pair listing, candles, orderbook and
// trades against the configured defaults, strictly in sequence. The first
// error aborts the run.
func (s *Service) RunAll(ctx context.Context) error {
	banner := strings.Repeat("=", 50)
	fmt.Fprintln(s.out, banner)
	fmt.Fprintln(s.out, "Binance Futures Data Fetcher")
	fmt.Fprintln(s.out, banner)

	if _, err := s.Pairs(ctx, s.defaults.PairsLimit); err != nil {
		s.log.Error("pair listing failed", zap.Error(err))
		return err
	}
	if _, err := s.OHLCV(ctx, s.defaults.Symbol, s.defaults.Timeframe, s.defaults.OHLCVLimit); err != nil {
		s.log.Error("ohlcv fetch failed", zap.Error(err))
		return err
	}
	if _, err := s.OrderBook(ctx, s.defaults.Symbol, s.defaults.OrderBookLimit); err != nil {
		s.log.Error("orderbook fetch failed", zap.Error(err))
		return err
	}
	if _, err := s.Trades(ctx, s.defaults.Symbol, s.defaults.TradesLimit); err != nil {
		s.log.Error("trades fetch failed", zap.Error(err))
		return err
	}

	fmt.Fprintf(s.out, "\n%s\n", banner)
	fmt.Fprintln(s.out, "Data fetch complete!")
	fmt.Fprintln(s.out, banner)
	return nil
}

func iso8601(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02T15:04:05.000Z")
}
