package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Binance  BinanceConfig  `mapstructure:"binance"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
	Log      LogConfig      `mapstructure:"log"`
}

type BinanceConfig struct {
	REST RESTConfig `mapstructure:"rest"`
}

type RESTConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`

	// Client-side request pacing. The exchange enforces its own weight
	// limits server-side; these keep us well under them.
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// DefaultsConfig holds the fallback parameters used when a command is run
// without explicit arguments, and by the legacy all-in-one mode.
type DefaultsConfig struct {
	Symbol         string `mapstructure:"symbol"`    // unified perpetual notation, e.g. "BTC/USDT:USDT"
	Timeframe      string `mapstructure:"timeframe"` // "1m", "5m", "15m", "1h", "4h", "1d"
	OHLCVLimit     int    `mapstructure:"ohlcv_limit"`
	OrderBookLimit int    `mapstructure:"orderbook_limit"`
	TradesLimit    int    `mapstructure:"trades_limit"`
	PairsLimit     int    `mapstructure:"pairs_limit"` // how many pairs to display, not fetch
}

// LogConfig defines the logger configuration options.
type LogConfig struct {
	Level       string `mapstructure:"level"`       // log level: "debug", "info", "warn", "error"
	Format      string `mapstructure:"format"`      // log format: "json" or "console"
	OutputFile  string `mapstructure:"output_file"` // file path to store logs (optional)
	Environment string `mapstructure:"environment"` // environment: "dev" or "prod"
}

// Load builds the application configuration using Viper.
// Built-in defaults are overridden by an optional config.yaml in the working
// directory, which in turn is overridden by MARKETFETCH_* environment
// variables (dot notation mapped to underscores, e.g.
// MARKETFETCH_BINANCE_REST_BASE_URL).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config") // config.yaml
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("binance.rest.base_url", "https://fapi.binance.com")
	v.SetDefault("binance.rest.timeout", 10*time.Second)
	v.SetDefault("binance.rest.requests_per_second", 20.0)
	v.SetDefault("binance.rest.burst", 1)

	v.SetDefault("defaults.symbol", "BTC/USDT:USDT")
	v.SetDefault("defaults.timeframe", "1h")
	v.SetDefault("defaults.ohlcv_limit", 100)
	v.SetDefault("defaults.orderbook_limit", 20)
	v.SetDefault("defaults.trades_limit", 50)
	v.SetDefault("defaults.pairs_limit", 20)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.environment", "dev")

	v.SetEnvPrefix("marketfetch")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// A config file is optional for a CLI; defaults and env are enough.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
