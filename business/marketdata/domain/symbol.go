// Package domain contains the core domain types for the market-data context.
package domain

import (
	"strings"

	"github.com/lmoreno/cyclearb/internal/apperror"
)

// Currency is an opaque asset ticker (e.g. "BTC"). Equality is identity.
type Currency string

// Action represents the direction of a priced trade request.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
)

// Valid reports whether the action is one of the recognized values.
func (a Action) Valid() bool {
	return a == ActionBuy || a == ActionSell
}

// Symbol represents a trading pair: units of Base priced in units of Quote.
type Symbol struct {
	Base  Currency
	Quote Currency
}

// NewSymbol creates a symbol from base and quote currencies.
func NewSymbol(base, quote Currency) Symbol {
	return Symbol{Base: base, Quote: quote}
}

// ParseSymbol parses a "BASE/QUOTE" string.
func ParseSymbol(s string) (Symbol, error) {
	base, quote, ok := strings.Cut(s, "/")
	if !ok || base == "" || quote == "" {
		return Symbol{}, apperror.Validation(apperror.CodeInvalidSymbol, s)
	}
	return Symbol{Base: Currency(base), Quote: Currency(quote)}, nil
}

// MustParseSymbol parses a "BASE/QUOTE" string, panicking on error.
func MustParseSymbol(s string) Symbol {
	sym, err := ParseSymbol(s)
	if err != nil {
		panic(err)
	}
	return sym
}

// String returns the "BASE/QUOTE" form.
func (s Symbol) String() string {
	return string(s.Base) + "/" + string(s.Quote)
}

// Reversed returns the symbol with base and quote swapped.
func (s Symbol) Reversed() Symbol {
	return Symbol{Base: s.Quote, Quote: s.Base}
}

// Contains reports whether the symbol trades the given currency on either side.
func (s Symbol) Contains(c Currency) bool {
	return s.Base == c || s.Quote == c
}

// Other returns the counterpart currency of c within the symbol. The second
// return is false when c is not part of the symbol.
func (s Symbol) Other(c Currency) (Currency, bool) {
	switch c {
	case s.Base:
		return s.Quote, true
	case s.Quote:
		return s.Base, true
	}
	return "", false
}
