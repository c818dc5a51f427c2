package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"marketfetch/config"
	"marketfetch/internal/market"
	"marketfetch/pkg/binance"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const usage = `Usage: marketfetch [command] [flags]

Commands:
  pairs     [-l N]                   list active linear futures pairs
  ohlcv     [symbol] [-t TF] [-l N]  fetch candlesticks (timeframes: %s)
  orderbook [symbol] [-l N]          fetch an order book snapshot
  trades    [symbol] [-l N]          fetch recent trades
  funding   [symbol]                 fetch the current funding rate

Running without a command fetches pairs, candles, orderbook and trades
against the configured defaults.
`

// Run dispatches one subcommand against a fresh client built from cfg.
// Report output goes to out; diagnostics go through log. A nil error means
// the process should exit zero — note that the funding command reports its
// failures inline and always returns nil.
func Run(args []string, cfg *config.Config, log *zap.Logger, out io.Writer) error {
	rest := cfg.Binance.REST
	client := binance.NewClient(rest.BaseURL, rest.Timeout, rest.RequestsPerSecond, rest.Burst)
	svc := market.NewService(client, cfg.Defaults, log, out)

	ctx := context.Background()

	if len(args) == 0 {
		return svc.RunAll(ctx)
	}

	sub, subArgs := args[0], args[1:]
	switch sub {
	case "pairs":
		fs := pflag.NewFlagSet("pairs", pflag.ContinueOnError)
		limit := fs.IntP("limit", "l", cfg.Defaults.PairsLimit, "number of pairs to display")
		if err := fs.Parse(subArgs); err != nil {
			return err
		}
		_, err := svc.Pairs(ctx, *limit)
		return err

	case "ohlcv":
		fs := pflag.NewFlagSet("ohlcv", pflag.ContinueOnError)
		timeframe := fs.StringP("timeframe", "t", cfg.Defaults.Timeframe, "candlestick timeframe")
		limit := fs.IntP("limit", "l", cfg.Defaults.OHLCVLimit, "number of candles to fetch")
		if err := fs.Parse(subArgs); err != nil {
			return err
		}
		_, err := svc.OHLCV(ctx, symbolArg(fs, cfg), *timeframe, *limit)
		return err

	case "orderbook":
		fs := pflag.NewFlagSet("orderbook", pflag.ContinueOnError)
		limit := fs.IntP("limit", "l", cfg.Defaults.OrderBookLimit, "depth levels per side")
		if err := fs.Parse(subArgs); err != nil {
			return err
		}
		_, err := svc.OrderBook(ctx, symbolArg(fs, cfg), *limit)
		return err

	case "trades":
		fs := pflag.NewFlagSet("trades", pflag.ContinueOnError)
		limit := fs.IntP("limit", "l", cfg.Defaults.TradesLimit, "number of trades to fetch")
		if err := fs.Parse(subArgs); err != nil {
			return err
		}
		_, err := svc.Trades(ctx, symbolArg(fs, cfg), *limit)
		return err

	case "funding":
		fs := pflag.NewFlagSet("funding", pflag.ContinueOnError)
		if err := fs.Parse(subArgs); err != nil {
			return err
		}
		svc.Funding(ctx, symbolArg(fs, cfg))
		return nil

	default:
		fmt.Fprintf(os.Stderr, usage, intervalList())
		return fmt.Errorf("unknown command: %s", sub)
	}
}

// symbolArg returns the positional symbol argument, or the configured default
// when none was given.
func symbolArg(fs *pflag.FlagSet, cfg *config.Config) string {
	if fs.NArg() > 0 {
		return fs.Arg(0)
	}
	return cfg.Defaults.Symbol
}

func intervalList() string {
	known := binance.KnownIntervals()
	names := make([]string, len(known))
	for i, iv := range known {
		names[i] = string(iv)
	}
	return strings.Join(names, ", ")
}
