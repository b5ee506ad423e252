// Package domain contains the currency-conversion graph for one discovery
// pass. Nodes and edges live in index-addressed arenas owned by the Graph;
// all references between them are indices, never pointers, so a Graph can
// be discarded wholesale when the pass ends.
package domain

import (
	"math"

	"github.com/shopspring/decimal"

	marketdata "github.com/lmoreno/cyclearb/business/marketdata/domain"
	"github.com/lmoreno/cyclearb/internal/apperror"
)

// NodeID is an index into the graph's node arena.
type NodeID int

// EdgeID is an index into the graph's edge arena.
type EdgeID int

// Side is the order-book side an edge was built from.
type Side string

const (
	// SideBid is sell base, receive quote.
	SideBid Side = "bid"
	// SideAsk is buy base, pay quote.
	SideAsk Side = "ask"
)

// Node identifies a tradable currency at one venue on one network.
type Node struct {
	Network  string
	Exchange string
	Currency marketdata.Currency
	Edges    []EdgeID // outgoing, in insertion order
}

// Edge is a directed venue-specific conversion from one node's currency to
// another's. Price is always quoted in quote-per-base units of Symbol;
// Amount is the consolidated base-currency size executable at that price.
type Edge struct {
	From      NodeID
	To        NodeID
	Exchange  string
	Symbol    marketdata.Symbol
	Side      Side
	Price     decimal.Decimal
	Amount    decimal.Decimal
	LogWeight float64
}

type nodeKey struct {
	network  string
	exchange string
	currency marketdata.Currency
}

// Graph owns the node and edge arenas built from one snapshot batch. It is
// rebuilt fresh every pass and never mutated afterwards.
type Graph struct {
	nodes []Node
	edges []Edge

	index      map[nodeKey]NodeID
	byCurrency map[marketdata.Currency][]NodeID
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		index:      make(map[nodeKey]NodeID),
		byCurrency: make(map[marketdata.Currency][]NodeID),
	}
}

// EnsureNode returns the node for (network, exchange, currency), creating
// it on first use.
func (g *Graph) EnsureNode(network, exchange string, currency marketdata.Currency) NodeID {
	key := nodeKey{network: network, exchange: exchange, currency: currency}
	if id, ok := g.index[key]; ok {
		return id
	}

	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, Node{
		Network:  network,
		Exchange: exchange,
		Currency: currency,
	})
	g.index[key] = id
	g.byCurrency[currency] = append(g.byCurrency[currency], id)
	return id
}

// AddEdge appends an edge to the arena and links it to the source node's
// outgoing list. The price must be positive and the amount non-negative.
func (g *Graph) AddEdge(from, to NodeID, symbol marketdata.Symbol, side Side, price, amount decimal.Decimal) (EdgeID, error) {
	if !price.IsPositive() {
		return 0, apperror.Validation(apperror.CodeInvalidInput, "edge price must be positive")
	}
	if amount.IsNegative() {
		return 0, apperror.Validation(apperror.CodeInvalidInput, "edge amount must be non-negative")
	}

	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, Edge{
		From:      from,
		To:        to,
		Exchange:  g.nodes[from].Exchange,
		Symbol:    symbol,
		Side:      side,
		Price:     price,
		Amount:    amount,
		LogWeight: logWeight(side, price),
	})
	g.nodes[from].Edges = append(g.nodes[from].Edges, id)
	return id, nil
}

// logWeight is ln(price) for ask edges and -ln(price) for bid edges. It is
// a hook for negative-cycle profitability tests; nothing scores with it yet.
func logWeight(side Side, price decimal.Decimal) float64 {
	w := math.Log(price.InexactFloat64())
	if side == SideBid {
		return -w
	}
	return w
}

// Node returns the node stored at id.
func (g *Graph) Node(id NodeID) Node {
	return g.nodes[id]
}

// Edge returns the edge stored at id.
func (g *Graph) Edge(id EdgeID) Edge {
	return g.edges[id]
}

// NodesFor returns every node trading the given currency, across all
// exchanges, in insertion order.
func (g *Graph) NodesFor(currency marketdata.Currency) []NodeID {
	return g.byCurrency[currency]
}

// OutEdges returns the outgoing edge IDs of a node in insertion order.
func (g *Graph) OutEdges(id NodeID) []EdgeID {
	return g.nodes[id].Edges
}

// NodeCount returns the number of nodes in the arena.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges in the arena.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Currencies returns every currency with at least one node, in first-seen
// order.
func (g *Graph) Currencies() []marketdata.Currency {
	seen := make(map[marketdata.Currency]bool, len(g.byCurrency))
	out := make([]marketdata.Currency, 0, len(g.byCurrency))
	for _, n := range g.nodes {
		if !seen[n.Currency] {
			seen[n.Currency] = true
			out = append(out, n.Currency)
		}
	}
	return out
}
