package binance

// Interval is the candlestick timeframe string as the API accepts it.
type Interval string

const (
	Interval1Min  Interval = "1m"
	Interval5Min  Interval = "5m"
	Interval15Min Interval = "15m"
	Interval1Hour Interval = "1h"
	Interval4Hour Interval = "4h"
	Interval1Day  Interval = "1d"
)

// knownIntervals maps the documented timeframes to their span in minutes.
var knownIntervals = map[Interval]int{
	Interval1Min:  1,
	Interval5Min:  5,
	Interval15Min: 15,
	Interval1Hour: 60,
	Interval4Hour: 240,
	Interval1Day:  1440, // 24*60
}

// IsKnown reports whether the timeframe is one of the documented values.
// Unknown values are still sent to the exchange, which rejects them itself.
func (i Interval) IsKnown() bool {
	_, ok := knownIntervals[i]
	return ok
}

// KnownIntervals returns the documented timeframes in ascending span order,
// for help text.
func KnownIntervals() []Interval {
	return []Interval{
		Interval1Min, Interval5Min, Interval15Min,
		Interval1Hour, Interval4Hour, Interval1Day,
	}
}
