package domain

import (
	marketdata "github.com/lmoreno/cyclearb/business/marketdata/domain"
)

// RouteKind tags how a route was produced.
type RouteKind string

const (
	// KindCycle routes come out of the bounded-depth graph search and
	// carry concrete edge IDs.
	KindCycle RouteKind = "cycle"
	// KindPermutation routes come out of fixed-symbol-set enumeration
	// and carry abstract currency hops to be resolved against a graph.
	KindPermutation RouteKind = "permutation"
)

// Hop is one abstract conversion step of a permutation route.
type Hop struct {
	From marketdata.Currency
	To   marketdata.Currency
}

// Route is an ordered conversion sequence starting and ending at Start.
// Cycle routes reference edges of the Graph they were enumerated from;
// permutation routes carry hops and are bound to a graph at evaluation
// time. Routes are transient evaluation artifacts, never persisted.
type Route struct {
	Kind  RouteKind
	Start marketdata.Currency

	Edges []EdgeID // KindCycle only
	Hops  []Hop    // KindPermutation only
}

// Len returns the number of legs.
func (r Route) Len() int {
	if r.Kind == KindCycle {
		return len(r.Edges)
	}
	return len(r.Hops)
}
