package market

// Spread returns best-ask minus best-bid, and that spread as a percentage of
// the best ask. ok is false when either side of the book is empty.
func Spread(book OrderBook) (spread, pct float64, ok bool) {
	if len(book.Bids) == 0 || len(book.Asks) == 0 {
		return 0, 0, false
	}
	bestBid := book.Bids[0].Price
	bestAsk := book.Asks[0].Price
	spread = bestAsk - bestBid
	return spread, spread / bestAsk * 100, true
}

// VolumeRatio returns buy and sell volume as percentages of the total traded
// amount. ok is false when total volume is zero.
func VolumeRatio(trades []Trade) (buyPct, sellPct float64, ok bool) {
	var buyVolume, sellVolume float64
	for _, t := range trades {
		switch t.Side {
		case SideBuy:
			buyVolume += t.Amount
		case SideSell:
			sellVolume += t.Amount
		}
	}

	total := buyVolume + sellVolume
	if total <= 0 {
		return 0, 0, false
	}
	return buyVolume / total * 100, sellVolume / total * 100, true
}
