package binance

import "strings"

// NativeSymbol converts a unified symbol ("BTC/USDT:USDT") to the exchange's
// unseparated form ("BTCUSDT"): the settle suffix after ':' is dropped and
// the '/' separator removed. A delivery date in the settle part
// ("BTC/USDT:USDT-250328") maps back to the native underscore notation
// ("BTCUSDT_250328"). Symbols already in native form pass through unchanged.
func NativeSymbol(symbol string) string {
	suffix := ""
	if i := strings.IndexByte(symbol, ':'); i >= 0 {
		settle := symbol[i+1:]
		symbol = symbol[:i]
		if j := strings.IndexByte(settle, '-'); j >= 0 {
			suffix = "_" + settle[j+1:]
		}
	}
	return strings.ReplaceAll(symbol, "/", "") + suffix
}

// UnifiedSymbol builds the unified notation from exchange metadata,
// e.g. ("BTC", "USDT", "USDT") -> "BTC/USDT:USDT".
func UnifiedSymbol(base, quote, settle string) string {
	s := base + "/" + quote
	if settle != "" {
		s += ":" + settle
	}
	return s
}
