// Package domain contains the core domain types for the arbitrage context.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	graphdomain "github.com/lmoreno/cyclearb/business/graph/domain"
	marketdata "github.com/lmoreno/cyclearb/business/marketdata/domain"
)

// displayPrecision is the decimal places profit is rounded to for display.
// Internal comparisons always use unrounded values.
const displayPrecision = 2

// Trade describes one executed leg of an opportunity: which venue, which
// symbol, which direction, at what effective price and up to what size.
type Trade struct {
	Exchange string
	Symbol   marketdata.Symbol
	Action   marketdata.Action
	Price    decimal.Decimal // effective, quote per base
	Amount   decimal.Decimal // available base size at Price
}

// String renders the leg as "buy BTC/USDT @ 30000 on binance".
func (t Trade) String() string {
	return fmt.Sprintf("%s %s @ %s on %s", t.Action, t.Symbol, t.Price, t.Exchange)
}

// Opportunity is the evaluation result for one profitable route. It carries
// enough per-leg detail to be handed to an execution layer.
type Opportunity struct {
	Route            graphdomain.Route
	Trades           []Trade
	BottleneckAmount decimal.Decimal
	RealizedProfit   decimal.Decimal
	ProfitCurrency   marketdata.Currency
	Timestamp        time.Time
}

// DisplayProfit returns the profit rounded for display.
func (o *Opportunity) DisplayProfit() decimal.Decimal {
	return o.RealizedProfit.Round(displayPrecision)
}

// Path renders the trade sequence as "USDT -> BTC -> USDT".
func (o *Opportunity) Path() string {
	if len(o.Trades) == 0 {
		return string(o.Route.Start)
	}

	var sb strings.Builder
	sb.WriteString(string(o.Route.Start))
	current := o.Route.Start
	for _, t := range o.Trades {
		next, _ := t.Symbol.Other(current)
		sb.WriteString(" -> ")
		sb.WriteString(string(next))
		current = next
	}
	return sb.String()
}
