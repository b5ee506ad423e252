package domain

import (
	"time"

	"github.com/lmoreno/cyclearb/internal/apperror"
	"github.com/shopspring/decimal"
)

// BookLevel is a single price level of an order book.
type BookLevel struct {
	Price decimal.Decimal
	Size  decimal.Decimal
}

// OrderBookSnapshot is an immutable view of one venue's order book for one
// symbol at a point in time. Bids and asks are ordered best-first: bids
// descending by price, asks ascending.
type OrderBookSnapshot struct {
	Exchange  string
	Symbol    Symbol
	Bids      []BookLevel
	Asks      []BookLevel
	Timestamp time.Time
}

// Validate checks structural integrity. Snapshots with non-positive prices
// or sizes, or with levels not sorted best-first, are malformed and must be
// dropped by the caller.
func (s *OrderBookSnapshot) Validate() error {
	if s.Exchange == "" {
		return apperror.Validation(apperror.CodeMalformedSnapshot, "missing exchange")
	}
	if s.Symbol.Base == "" || s.Symbol.Quote == "" {
		return apperror.Validation(apperror.CodeMalformedSnapshot, "missing symbol")
	}

	for i, lvl := range s.Bids {
		if !lvl.Price.IsPositive() || !lvl.Size.IsPositive() {
			return apperror.Validation(apperror.CodeMalformedSnapshot,
				"bid level with non-positive price or size")
		}
		if i > 0 && lvl.Price.GreaterThan(s.Bids[i-1].Price) {
			return apperror.Validation(apperror.CodeMalformedSnapshot,
				"bids not sorted best-first")
		}
	}

	for i, lvl := range s.Asks {
		if !lvl.Price.IsPositive() || !lvl.Size.IsPositive() {
			return apperror.Validation(apperror.CodeMalformedSnapshot,
				"ask level with non-positive price or size")
		}
		if i > 0 && lvl.Price.LessThan(s.Asks[i-1].Price) {
			return apperror.Validation(apperror.CodeMalformedSnapshot,
				"asks not sorted best-first")
		}
	}

	return nil
}

// ConsolidatedLevel is a size-weighted average over the top levels of one
// book side: the average price of filling Size units across those levels.
type ConsolidatedLevel struct {
	Price decimal.Decimal
	Size  decimal.Decimal
}

// Consolidate computes the size-weighted average price and total size over
// the top nBest levels of one side. Returns EMPTY_DEPTH when the side has
// no aggregate size after truncation.
func Consolidate(levels []BookLevel, nBest int) (ConsolidatedLevel, error) {
	if nBest > 0 && len(levels) > nBest {
		levels = levels[:nBest]
	}

	notional := decimal.Zero
	size := decimal.Zero
	for _, lvl := range levels {
		notional = notional.Add(lvl.Price.Mul(lvl.Size))
		size = size.Add(lvl.Size)
	}

	if size.IsZero() {
		return ConsolidatedLevel{}, apperror.New(apperror.CodeEmptyDepth)
	}

	return ConsolidatedLevel{
		Price: notional.Div(size),
		Size:  size,
	}, nil
}

// Ticker is a lightweight best-bid/best-ask quote used for pre-screening
// candidate pairs before pulling full depth.
type Ticker struct {
	Exchange  string
	Symbol    Symbol
	Bid       decimal.Decimal
	Ask       decimal.Decimal
	BidSize   decimal.Decimal
	AskSize   decimal.Decimal
	Timestamp time.Time
}

// Spread returns the bid-ask spread. A negative spread on a single venue is
// malformed; across venues it signals a potential opportunity.
func (t *Ticker) Spread() decimal.Decimal {
	return t.Ask.Sub(t.Bid)
}
