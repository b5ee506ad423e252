// Package app contains the route evaluation and scan orchestration
// services for the arbitrage context.
package app

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lmoreno/cyclearb/business/arbitrage/domain"
	graphdomain "github.com/lmoreno/cyclearb/business/graph/domain"
	marketdata "github.com/lmoreno/cyclearb/business/marketdata/domain"
	"github.com/lmoreno/cyclearb/internal/apperror"
)

// Evaluator scores candidate routes against a graph.
type Evaluator struct{}

// NewEvaluator creates an Evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate resolves a route to concrete legs, finds its liquidity
// bottleneck and projects realized profit. It returns nil for routes that
// are unprofitable or not fully executable on this graph: both are
// expected outcomes, not errors.
func (e *Evaluator) Evaluate(g *graphdomain.Graph, route graphdomain.Route) (*domain.Opportunity, error) {
	legs, ok := e.resolveLegs(g, route)
	if !ok {
		return nil, nil
	}
	if len(legs) == 0 {
		return nil, nil
	}

	// Bottleneck: the smallest available size among the legs bounds the
	// whole route.
	bottleneck := legs[0].Amount
	for _, leg := range legs[1:] {
		if leg.Amount.LessThan(bottleneck) {
			bottleneck = leg.Amount
		}
	}

	// Chain the conversions: divide by price when buying base, multiply
	// when selling it.
	amount := bottleneck
	for _, leg := range legs {
		if leg.Side == graphdomain.SideAsk {
			amount = amount.Div(leg.Price)
		} else {
			amount = amount.Mul(leg.Price)
		}
	}

	profit := amount.Sub(bottleneck)
	if !profit.IsPositive() {
		return nil, nil
	}

	trades := make([]domain.Trade, len(legs))
	for i, leg := range legs {
		action := marketdata.ActionSell
		if leg.Side == graphdomain.SideAsk {
			action = marketdata.ActionBuy
		}
		trades[i] = domain.Trade{
			Exchange: leg.Exchange,
			Symbol:   leg.Symbol,
			Action:   action,
			Price:    leg.Price,
			Amount:   leg.Amount,
		}
	}

	return &domain.Opportunity{
		Route:            route,
		Trades:           trades,
		BottleneckAmount: bottleneck,
		RealizedProfit:   profit,
		ProfitCurrency:   route.Start,
		Timestamp:        time.Now().UTC(),
	}, nil
}

// resolveLegs maps a route to concrete graph edges. Cycle routes already
// carry their edges; permutation routes bind each abstract hop to the best
// edge available. A hop with no edge means the route is not executable on
// this graph.
func (e *Evaluator) resolveLegs(g *graphdomain.Graph, route graphdomain.Route) ([]graphdomain.Edge, bool) {
	switch route.Kind {
	case graphdomain.KindCycle:
		legs := make([]graphdomain.Edge, len(route.Edges))
		for i, id := range route.Edges {
			legs[i] = g.Edge(id)
		}
		return legs, true

	case graphdomain.KindPermutation:
		legs := make([]graphdomain.Edge, 0, len(route.Hops))
		for _, hop := range route.Hops {
			edge, ok := bestEdge(g, hop.From, hop.To)
			if !ok {
				return nil, false
			}
			legs = append(legs, edge)
		}
		return legs, true
	}

	return nil, false
}

// bestEdge picks, among every venue's edges from one currency to another,
// the one converting at the best rate: highest price when selling base,
// lowest when buying it. Ties keep the earliest inserted edge, so the
// choice is deterministic.
func bestEdge(g *graphdomain.Graph, from, to marketdata.Currency) (graphdomain.Edge, bool) {
	var best graphdomain.Edge
	found := false

	for _, nodeID := range g.NodesFor(from) {
		for _, edgeID := range g.OutEdges(nodeID) {
			edge := g.Edge(edgeID)
			if g.Node(edge.To).Currency != to {
				continue
			}
			if !found || betterRate(edge, best) {
				best = edge
				found = true
			}
		}
	}

	return best, found
}

func betterRate(a, b graphdomain.Edge) bool {
	if a.Side == graphdomain.SideAsk {
		return a.Price.LessThan(b.Price)
	}
	return a.Price.GreaterThan(b.Price)
}

// LegPrice resolves the effective price and available size for trading a
// symbol on one exchange, falling back to the reversed symbol with the
// inverted role when the direct form is absent. An unrecognized action is
// a contract violation and fails hard with INVALID_ACTION.
func LegPrice(g *graphdomain.Graph, exchange string, symbol marketdata.Symbol, action marketdata.Action) (decimal.Decimal, decimal.Decimal, error) {
	if !action.Valid() {
		return decimal.Zero, decimal.Zero,
			apperror.Validation(apperror.CodeInvalidAction, string(action))
	}

	// Normalize once: buying BASE/QUOTE walks the ask edge QUOTE->BASE,
	// selling walks the bid edge BASE->QUOTE. The reversed symbol with the
	// inverted action walks the same edge, so a single pass over both
	// orientations covers the fallback.
	want := graphdomain.SideBid
	if action == marketdata.ActionBuy {
		want = graphdomain.SideAsk
	}

	for _, sym := range []marketdata.Symbol{symbol, symbol.Reversed()} {
		side := want
		if sym != symbol {
			if side == graphdomain.SideBid {
				side = graphdomain.SideAsk
			} else {
				side = graphdomain.SideBid
			}
		}

		from := sym.Base
		if side == graphdomain.SideAsk {
			from = sym.Quote
		}

		for _, nodeID := range g.NodesFor(from) {
			node := g.Node(nodeID)
			if node.Exchange != exchange {
				continue
			}
			for _, edgeID := range g.OutEdges(nodeID) {
				edge := g.Edge(edgeID)
				if edge.Symbol == sym && edge.Side == side {
					return edge.Price, edge.Amount, nil
				}
			}
		}
	}

	return decimal.Zero, decimal.Zero,
		apperror.New(apperror.CodeEdgeNotFound,
			apperror.WithContext(exchange+" "+symbol.String()))
}
