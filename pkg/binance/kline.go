package binance

import (
	"fmt"
	"strconv"
)

// Kline is one parsed candlestick row from /fapi/v1/klines.
type Kline struct {
	OpenTime int64 // ms since epoch
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
}

// ParseKlineRows converts raw kline rows to []Kline. Rows come back as mixed
// JSON arrays (open time as a number, prices and volume as strings).
// Malformed rows are skipped rather than failing the whole batch.
func ParseKlineRows(rows [][]any) []Kline {
	out := make([]Kline, 0, len(rows))
	for _, row := range rows {
		if len(row) < 6 {
			continue // skip incomplete row
		}
		openTime, ok := row[0].(float64)
		if !ok {
			continue
		}
		open, err := parseKlineField(row[1])
		if err != nil {
			continue
		}
		high, err := parseKlineField(row[2])
		if err != nil {
			continue
		}
		low, err := parseKlineField(row[3])
		if err != nil {
			continue
		}
		closePrice, err := parseKlineField(row[4])
		if err != nil {
			continue
		}
		volume, err := parseKlineField(row[5])
		if err != nil {
			continue
		}

		out = append(out, Kline{
			OpenTime: int64(openTime),
			Open:     open,
			High:     high,
			Low:      low,
			Close:    closePrice,
			Volume:   volume,
		})
	}
	return out
}

func parseKlineField(v any) (float64, error) {
	switch x := v.(type) {
	case string:
		return strconv.ParseFloat(x, 64)
	case float64:
		return x, nil
	default:
		return 0, fmt.Errorf("unexpected kline field type %T", v)
	}
}
