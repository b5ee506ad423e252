// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Exchanges []ExchangeConfig `mapstructure:"exchanges"`
	Market    MarketConfig    `mapstructure:"market"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// ExchangeConfig describes one venue to include in discovery passes.
type ExchangeConfig struct {
	ID             string `mapstructure:"id"`
	Kind           string `mapstructure:"kind"` // "binance" or "kucoin" API shape
	BaseURL        string `mapstructure:"base_url"`
	WebSocketURL   string `mapstructure:"websocket_url"`
	RequestsPerMin int    `mapstructure:"requests_per_min"`
}

// MarketConfig holds market-data collection settings.
type MarketConfig struct {
	Symbols      []string      `mapstructure:"symbols"`
	Depth        int           `mapstructure:"depth"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	StaleTimeout time.Duration `mapstructure:"stale_timeout"`
	UseStreams   bool          `mapstructure:"use_streams"`
}

// DiscoveryConfig holds opportunity-discovery parameters.
type DiscoveryConfig struct {
	NBest         int           `mapstructure:"n_best"`
	FeeRate       float64       `mapstructure:"fee_rate"`
	SlippageRate  float64       `mapstructure:"slippage_rate"`
	MaxDepth      int           `mapstructure:"max_depth"`
	StartCurrency string        `mapstructure:"start_currency"`
	ScanInterval  time.Duration `mapstructure:"scan_interval"`
	MinProfit     float64       `mapstructure:"min_profit"`
	TUIMode       bool          `mapstructure:"-"` // Set at runtime, not from config file
}

// FeeRateDecimal returns the fee rate as decimal.Decimal.
func (c *DiscoveryConfig) FeeRateDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.FeeRate)
}

// SlippageRateDecimal returns the slippage rate as decimal.Decimal.
func (c *DiscoveryConfig) SlippageRateDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.SlippageRate)
}

// MinProfitDecimal returns the minimum profit threshold as decimal.Decimal.
func (c *DiscoveryConfig) MinProfitDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MinProfit)
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("CYC")
	v.AutomaticEnv()

	// Bind env vars to config keys
	bindEnvVars(v)

	// Set defaults
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "CYC_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "CYC_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "CYC_LOG_LEVEL", "LOG_LEVEL")

	// Market
	v.BindEnv("market.symbols", "CYC_SYMBOLS")
	v.BindEnv("market.depth", "CYC_DEPTH")

	// Discovery
	v.BindEnv("discovery.n_best", "CYC_N_BEST")
	v.BindEnv("discovery.fee_rate", "CYC_FEE_RATE")
	v.BindEnv("discovery.slippage_rate", "CYC_SLIPPAGE_RATE")
	v.BindEnv("discovery.max_depth", "CYC_MAX_DEPTH")
	v.BindEnv("discovery.start_currency", "CYC_START_CURRENCY")
	v.BindEnv("discovery.scan_interval", "CYC_SCAN_INTERVAL")
	v.BindEnv("discovery.min_profit", "CYC_MIN_PROFIT")

	// Telemetry
	v.BindEnv("telemetry.enabled", "CYC_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "CYC_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "CYC_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "cyclearb")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Exchange defaults: two public venues, no credentials required
	v.SetDefault("exchanges", []map[string]any{
		{
			"id":               "binance",
			"kind":             "binance",
			"base_url":         "https://api.binance.com",
			"websocket_url":    "wss://stream.binance.com:9443",
			"requests_per_min": 1200,
		},
		{
			"id":               "kucoin",
			"kind":             "kucoin",
			"base_url":         "https://api.kucoin.com",
			"requests_per_min": 600,
		},
	})

	// Market defaults
	v.SetDefault("market.symbols", []string{"BTC/USDT", "ETH/USDT", "LTC/USDT", "ETH/BTC"})
	v.SetDefault("market.depth", 100)
	v.SetDefault("market.fetch_timeout", "10s")
	v.SetDefault("market.stale_timeout", "5s")
	v.SetDefault("market.use_streams", false)

	// Discovery defaults
	v.SetDefault("discovery.n_best", 25)
	v.SetDefault("discovery.fee_rate", 0.001)
	v.SetDefault("discovery.slippage_rate", 0.0005)
	v.SetDefault("discovery.max_depth", 4)
	v.SetDefault("discovery.start_currency", "USDT")
	v.SetDefault("discovery.scan_interval", "10s")
	v.SetDefault("discovery.min_profit", 0)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "cyclearb")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Exchanges) == 0 {
		return fmt.Errorf("exchanges cannot be empty")
	}
	seen := make(map[string]bool, len(c.Exchanges))
	for _, exc := range c.Exchanges {
		if exc.ID == "" {
			return fmt.Errorf("exchange id is required")
		}
		if seen[exc.ID] {
			return fmt.Errorf("duplicate exchange id: %s", exc.ID)
		}
		seen[exc.ID] = true
		if exc.BaseURL == "" {
			return fmt.Errorf("exchange %s: base_url is required", exc.ID)
		}
	}
	if len(c.Market.Symbols) == 0 {
		return fmt.Errorf("market.symbols cannot be empty")
	}
	for _, sym := range c.Market.Symbols {
		if !strings.Contains(sym, "/") {
			return fmt.Errorf("invalid symbol %q: want BASE/QUOTE", sym)
		}
	}
	if c.Discovery.NBest < 1 {
		return fmt.Errorf("discovery.n_best must be >= 1")
	}
	if c.Discovery.FeeRate < 0 || c.Discovery.FeeRate >= 1 {
		return fmt.Errorf("discovery.fee_rate must be in [0, 1)")
	}
	if c.Discovery.SlippageRate < 0 || c.Discovery.SlippageRate >= 1 {
		return fmt.Errorf("discovery.slippage_rate must be in [0, 1)")
	}
	if c.Discovery.MaxDepth < 2 {
		return fmt.Errorf("discovery.max_depth must be >= 2")
	}
	if c.Discovery.StartCurrency == "" {
		return fmt.Errorf("discovery.start_currency is required")
	}
	return nil
}
