package config

import (
	"testing"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{Name: "cyclearb", Environment: "test", LogLevel: "info"},
		Exchanges: []ExchangeConfig{
			{ID: "binance", Kind: "binance", BaseURL: "https://api.binance.com", RequestsPerMin: 1200},
			{ID: "kucoin", Kind: "kucoin", BaseURL: "https://api.kucoin.com", RequestsPerMin: 600},
		},
		Market: MarketConfig{
			Symbols: []string{"BTC/USDT", "ETH/BTC"},
			Depth:   100,
		},
		Discovery: DiscoveryConfig{
			NBest:         25,
			FeeRate:       0.001,
			SlippageRate:  0.0005,
			MaxDepth:      4,
			StartCurrency: "USDT",
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "no_exchanges", mutate: func(c *Config) {
			c.Exchanges = nil
		}, wantErr: true},
		{name: "exchange_missing_id", mutate: func(c *Config) {
			c.Exchanges[0].ID = ""
		}, wantErr: true},
		{name: "duplicate_exchange_id", mutate: func(c *Config) {
			c.Exchanges[1].ID = "binance"
		}, wantErr: true},
		{name: "exchange_missing_base_url", mutate: func(c *Config) {
			c.Exchanges[0].BaseURL = ""
		}, wantErr: true},
		{name: "no_symbols", mutate: func(c *Config) {
			c.Market.Symbols = nil
		}, wantErr: true},
		{name: "bad_symbol_format", mutate: func(c *Config) {
			c.Market.Symbols = []string{"BTCUSDT"}
		}, wantErr: true},
		{name: "n_best_zero", mutate: func(c *Config) {
			c.Discovery.NBest = 0
		}, wantErr: true},
		{name: "fee_rate_negative", mutate: func(c *Config) {
			c.Discovery.FeeRate = -0.01
		}, wantErr: true},
		{name: "fee_rate_one", mutate: func(c *Config) {
			c.Discovery.FeeRate = 1.0
		}, wantErr: true},
		{name: "slippage_out_of_range", mutate: func(c *Config) {
			c.Discovery.SlippageRate = 1.5
		}, wantErr: true},
		{name: "max_depth_too_small", mutate: func(c *Config) {
			c.Discovery.MaxDepth = 1
		}, wantErr: true},
		{name: "missing_start_currency", mutate: func(c *Config) {
			c.Discovery.StartCurrency = ""
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Validate() = nil, want error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() error: %v", err)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.App.Name != "cyclearb" {
		t.Errorf("App.Name = %q, want cyclearb", cfg.App.Name)
	}
	if len(cfg.Exchanges) != 2 {
		t.Errorf("Exchanges = %d, want 2 default venues", len(cfg.Exchanges))
	}
	if cfg.Discovery.NBest != 25 {
		t.Errorf("Discovery.NBest = %d, want 25", cfg.Discovery.NBest)
	}
	if cfg.Discovery.StartCurrency != "USDT" {
		t.Errorf("Discovery.StartCurrency = %q, want USDT", cfg.Discovery.StartCurrency)
	}
	if cfg.Market.Depth != 100 {
		t.Errorf("Market.Depth = %d, want 100", cfg.Market.Depth)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CYC_START_CURRENCY", "BTC")
	t.Setenv("CYC_MAX_DEPTH", "3")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Discovery.StartCurrency != "BTC" {
		t.Errorf("Discovery.StartCurrency = %q, want BTC", cfg.Discovery.StartCurrency)
	}
	if cfg.Discovery.MaxDepth != 3 {
		t.Errorf("Discovery.MaxDepth = %d, want 3", cfg.Discovery.MaxDepth)
	}
}

func TestDiscoveryConfig_DecimalGetters(t *testing.T) {
	d := DiscoveryConfig{FeeRate: 0.001, SlippageRate: 0.0005, MinProfit: 0.5}

	if got := d.FeeRateDecimal().String(); got != "0.001" {
		t.Errorf("FeeRateDecimal() = %s, want 0.001", got)
	}
	if got := d.SlippageRateDecimal().String(); got != "0.0005" {
		t.Errorf("SlippageRateDecimal() = %s, want 0.0005", got)
	}
	if got := d.MinProfitDecimal().String(); got != "0.5" {
		t.Errorf("MinProfitDecimal() = %s, want 0.5", got)
	}
}
