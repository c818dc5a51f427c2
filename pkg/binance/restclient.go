package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// Client is a REST client for Binance USDM perpetual futures. All endpoints
// live under /fapi/v1 and serve public data, so no signing is involved.
// Requests are paced through a token-bucket limiter so sequential commands
// stay under the exchange's request-weight limits.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(baseURL string, timeout time.Duration, requestsPerSecond float64, burst int) *Client {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 20
	}
	if burst < 1 {
		burst = 1
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// ExchangeInfo fetches the full futures market metadata catalog.
func (c *Client) ExchangeInfo(ctx context.Context) (*ExchangeInfo, error) {
	var info ExchangeInfo
	if err := c.getJSON(ctx, "/fapi/v1/exchangeInfo", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Klines fetches up to limit candlesticks for the symbol, oldest first.
// The interval string is passed through as given; values outside the
// documented set are rejected by the exchange, not here.
func (c *Client) Klines(ctx context.Context, symbol, interval string, limit int) ([]Kline, error) {
	q := url.Values{}
	q.Set("symbol", NativeSymbol(symbol))
	q.Set("interval", interval)
	q.Set("limit", strconv.Itoa(limit))

	var rows [][]any
	if err := c.getJSON(ctx, "/fapi/v1/klines", q, &rows); err != nil {
		return nil, err
	}
	return ParseKlineRows(rows), nil
}

// Depth fetches an order book snapshot with up to limit levels per side.
func (c *Client) Depth(ctx context.Context, symbol string, limit int) (*DepthResponse, error) {
	q := url.Values{}
	q.Set("symbol", NativeSymbol(symbol))
	q.Set("limit", strconv.Itoa(limit))

	var depth DepthResponse
	if err := c.getJSON(ctx, "/fapi/v1/depth", q, &depth); err != nil {
		return nil, err
	}
	return &depth, nil
}

// AggTrades fetches up to limit recent aggregated trades, oldest first.
func (c *Client) AggTrades(ctx context.Context, symbol string, limit int) ([]AggTrade, error) {
	q := url.Values{}
	q.Set("symbol", NativeSymbol(symbol))
	q.Set("limit", strconv.Itoa(limit))

	var trades []AggTrade
	if err := c.getJSON(ctx, "/fapi/v1/aggTrades", q, &trades); err != nil {
		return nil, err
	}
	return trades, nil
}

// PremiumIndex queries the funding/premium-index endpoint directly. Unlike
// the other methods it takes the exchange-native symbol ("BTCUSDT"); callers
// convert with NativeSymbol first.
func (c *Client) PremiumIndex(ctx context.Context, nativeSymbol string) (*PremiumIndex, error) {
	q := url.Values{}
	q.Set("symbol", nativeSymbol)

	var idx PremiumIndex
	if err := c.getJSON(ctx, "/fapi/v1/premiumIndex", q, &idx); err != nil {
		return nil, err
	}
	return &idx, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	// Construct the GET request with context for timeout/cancel support
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var apiErr APIError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Msg != "" {
			apiErr.Status = resp.StatusCode
			return &apiErr
		}
		return fmt.Errorf("binance error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
