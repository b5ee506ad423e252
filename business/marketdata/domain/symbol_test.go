package domain

import (
	"testing"

	"github.com/lmoreno/cyclearb/internal/apperror"
)

func TestParseSymbol(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantBase  Currency
		wantQuote Currency
		wantErr   bool
	}{
		{name: "simple_pair", input: "BTC/USDT", wantBase: "BTC", wantQuote: "USDT"},
		{name: "fiat_pair", input: "EUR/USD", wantBase: "EUR", wantQuote: "USD"},
		{name: "missing_separator", input: "BTCUSDT", wantErr: true},
		{name: "empty_base", input: "/USDT", wantErr: true},
		{name: "empty_quote", input: "BTC/", wantErr: true},
		{name: "empty_string", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sym, err := ParseSymbol(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseSymbol(%q) = %v, want error", tt.input, sym)
				}
				if !apperror.IsCode(err, apperror.CodeInvalidSymbol) {
					t.Errorf("error code = %v, want %v", apperror.GetCode(err), apperror.CodeInvalidSymbol)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSymbol(%q) error: %v", tt.input, err)
			}
			if sym.Base != tt.wantBase || sym.Quote != tt.wantQuote {
				t.Errorf("ParseSymbol(%q) = %v/%v, want %v/%v",
					tt.input, sym.Base, sym.Quote, tt.wantBase, tt.wantQuote)
			}
		})
	}
}

func TestSymbol_Reversed(t *testing.T) {
	sym := NewSymbol("BTC", "USDT")
	rev := sym.Reversed()

	if rev.Base != "USDT" || rev.Quote != "BTC" {
		t.Errorf("Reversed() = %s, want USDT/BTC", rev)
	}
	if rev.Reversed() != sym {
		t.Errorf("double reversal should round-trip, got %s", rev.Reversed())
	}
}

func TestSymbol_Other(t *testing.T) {
	sym := NewSymbol("ETH", "BTC")

	tests := []struct {
		name     string
		currency Currency
		want     Currency
		wantOK   bool
	}{
		{name: "base_side", currency: "ETH", want: "BTC", wantOK: true},
		{name: "quote_side", currency: "BTC", want: "ETH", wantOK: true},
		{name: "not_in_pair", currency: "USDT", want: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := sym.Other(tt.currency)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Other(%q) = (%q, %v), want (%q, %v)",
					tt.currency, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestAction_Valid(t *testing.T) {
	if !ActionBuy.Valid() || !ActionSell.Valid() {
		t.Error("buy and sell must be valid actions")
	}
	if Action("hold").Valid() {
		t.Error("unknown action must not be valid")
	}
	if Action("").Valid() {
		t.Error("empty action must not be valid")
	}
}
