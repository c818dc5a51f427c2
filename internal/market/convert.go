package market

import (
	"fmt"
	"strconv"
	"strings"

	"marketfetch/pkg/binance"
)

func pairFromSymbolInfo(s binance.SymbolInfo) TradingPair {
	symbol := binance.UnifiedSymbol(s.BaseAsset, s.QuoteAsset, s.MarginAsset)
	// Delivery contracts carry a date suffix in the native symbol,
	// e.g. "BTCUSDT_250328" -> "BTC/USDT:USDT-250328".
	if i := strings.IndexByte(s.Symbol, '_'); i >= 0 {
		symbol += "-" + s.Symbol[i+1:]
	}

	return TradingPair{
		Symbol: symbol,
		Base:   s.BaseAsset,
		Quote:  s.QuoteAsset,
		// USDT-margined contracts trade in whole base units
		ContractSize: 1,
	}
}

// isLinearActive keeps quote-settled contracts that are currently tradeable,
// perpetual and dated delivery alike. Coin-margined contracts settle in the
// base asset and are excluded.
func isLinearActive(s binance.SymbolInfo) bool {
	return s.Status == "TRADING" && s.MarginAsset == s.QuoteAsset
}

func candlesFromKlines(klines []binance.Kline) []Candle {
	out := make([]Candle, len(klines))
	for i, k := range klines {
		out[i] = Candle{
			Timestamp: k.OpenTime,
			Open:      k.Open,
			High:      k.High,
			Low:       k.Low,
			Close:     k.Close,
			Volume:    k.Volume,
		}
	}
	return out
}

func bookFromDepth(d *binance.DepthResponse) OrderBook {
	return OrderBook{
		Bids:      parseLevels(d.Bids),
		Asks:      parseLevels(d.Asks),
		Timestamp: d.EventTime,
	}
}

func parseLevels(raw [][]string) []BookLevel {
	out := make([]BookLevel, 0, len(raw))
	for _, lvl := range raw {
		if len(lvl) < 2 {
			continue // skip incomplete level
		}
		price, err := strconv.ParseFloat(lvl[0], 64)
		if err != nil {
			continue
		}
		amount, err := strconv.ParseFloat(lvl[1], 64)
		if err != nil {
			continue
		}
		out = append(out, BookLevel{Price: price, Amount: amount})
	}
	return out
}

func tradesFromAggTrades(raw []binance.AggTrade) []Trade {
	out := make([]Trade, 0, len(raw))
	for _, t := range raw {
		price, err := strconv.ParseFloat(t.Price, 64)
		if err != nil {
			continue
		}
		amount, err := strconv.ParseFloat(t.Quantity, 64)
		if err != nil {
			continue
		}

		// Buyer being the maker means the aggressor sold.
		side := SideBuy
		if t.BuyerIsMaker {
			side = SideSell
		}

		out = append(out, Trade{
			Timestamp: t.Timestamp,
			Side:      side,
			Price:     price,
			Amount:    amount,
		})
	}
	return out
}

func fundingFromPremiumIndex(symbol string, idx *binance.PremiumIndex) (*FundingSnapshot, error) {
	rate, err := strconv.ParseFloat(idx.LastFundingRate, 64)
	if err != nil {
		return nil, fmt.Errorf("parse funding rate: %w", err)
	}
	mark, err := strconv.ParseFloat(idx.MarkPrice, 64)
	if err != nil {
		return nil, fmt.Errorf("parse mark price: %w", err)
	}
	index, err := strconv.ParseFloat(idx.IndexPrice, 64)
	if err != nil {
		return nil, fmt.Errorf("parse index price: %w", err)
	}

	return &FundingSnapshot{
		Symbol:          symbol,
		LastFundingRate: rate,
		MarkPrice:       mark,
		IndexPrice:      index,
		NextFundingTime: idx.NextFundingTime,
	}, nil
}
