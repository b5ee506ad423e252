package app

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	graphdomain "github.com/lmoreno/cyclearb/business/graph/domain"
	marketdata "github.com/lmoreno/cyclearb/business/marketdata/domain"
	"github.com/lmoreno/cyclearb/internal/logger"
)

func snapshot(exchange, pair string, bids, asks [][2]string) marketdata.OrderBookSnapshot {
	toLevels := func(raw [][2]string) []marketdata.BookLevel {
		levels := make([]marketdata.BookLevel, 0, len(raw))
		for _, r := range raw {
			levels = append(levels, marketdata.BookLevel{
				Price: decimal.RequireFromString(r[0]),
				Size:  decimal.RequireFromString(r[1]),
			})
		}
		return levels
	}
	return marketdata.OrderBookSnapshot{
		Exchange:  exchange,
		Symbol:    marketdata.MustParseSymbol(pair),
		Bids:      toLevels(bids),
		Asks:      toLevels(asks),
		Timestamp: time.Now(),
	}
}

func TestBuilder_Build(t *testing.T) {
	b := NewBuilder(BuilderConfig{NBest: 2}, logger.NewNop())

	snaps := []marketdata.OrderBookSnapshot{
		snapshot("binance", "BTC/USDT",
			[][2]string{{"30000", "1"}, {"29990", "1"}},
			[][2]string{{"30010", "1"}, {"30020", "1"}},
		),
	}

	g := b.Build(context.Background(), snaps)

	if g.NodeCount() != 2 {
		t.Fatalf("NodeCount() = %d, want 2", g.NodeCount())
	}
	if g.EdgeCount() != 2 {
		t.Fatalf("EdgeCount() = %d, want 2", g.EdgeCount())
	}

	// Bid edge: BTC -> USDT at the consolidated bid average
	btcNodes := g.NodesFor("BTC")
	if len(btcNodes) != 1 {
		t.Fatalf("NodesFor(BTC) = %d nodes, want 1", len(btcNodes))
	}
	out := g.OutEdges(btcNodes[0])
	if len(out) != 1 {
		t.Fatalf("BTC node has %d out edges, want 1", len(out))
	}
	bid := g.Edge(out[0])
	if bid.Side != graphdomain.SideBid {
		t.Errorf("BTC out edge side = %v, want bid", bid.Side)
	}
	wantBid := decimal.RequireFromString("29995") // (30000+29990)/2
	if !bid.Price.Equal(wantBid) {
		t.Errorf("bid price = %s, want %s", bid.Price, wantBid)
	}
	wantSize := decimal.RequireFromString("2")
	if !bid.Amount.Equal(wantSize) {
		t.Errorf("bid amount = %s, want %s", bid.Amount, wantSize)
	}

	// Ask edge: USDT -> BTC
	usdtNodes := g.NodesFor("USDT")
	ask := g.Edge(g.OutEdges(usdtNodes[0])[0])
	if ask.Side != graphdomain.SideAsk {
		t.Errorf("USDT out edge side = %v, want ask", ask.Side)
	}
	wantAsk := decimal.RequireFromString("30015") // (30010+30020)/2
	if !ask.Price.Equal(wantAsk) {
		t.Errorf("ask price = %s, want %s", ask.Price, wantAsk)
	}
}

func TestBuilder_FeeAndSlippage(t *testing.T) {
	fee := decimal.RequireFromString("0.001")
	slip := decimal.RequireFromString("0.0005")

	plain := NewBuilder(BuilderConfig{NBest: 1}, logger.NewNop())
	costed := NewBuilder(BuilderConfig{NBest: 1, FeeRate: fee, SlippageRate: slip}, logger.NewNop())

	snaps := []marketdata.OrderBookSnapshot{
		snapshot("binance", "BTC/USDT",
			[][2]string{{"30000", "1"}},
			[][2]string{{"30010", "1"}},
		),
	}

	g1 := plain.Build(context.Background(), snaps)
	g2 := costed.Build(context.Background(), snaps)

	rawBid := g1.Edge(g1.OutEdges(g1.NodesFor("BTC")[0])[0]).Price
	effBid := g2.Edge(g2.OutEdges(g2.NodesFor("BTC")[0])[0]).Price
	if !effBid.LessThan(rawBid) {
		t.Errorf("effective bid %s must be below raw bid %s", effBid, rawBid)
	}
	wantBid := decimal.RequireFromString("30000").
		Mul(decimal.RequireFromString("0.999")).
		Mul(decimal.RequireFromString("0.9995"))
	if !effBid.Equal(wantBid) {
		t.Errorf("effective bid = %s, want %s", effBid, wantBid)
	}

	rawAsk := g1.Edge(g1.OutEdges(g1.NodesFor("USDT")[0])[0]).Price
	effAsk := g2.Edge(g2.OutEdges(g2.NodesFor("USDT")[0])[0]).Price
	if !effAsk.GreaterThan(rawAsk) {
		t.Errorf("effective ask %s must be above raw ask %s", effAsk, rawAsk)
	}
}

func TestBuilder_SkipsMalformedAndEmpty(t *testing.T) {
	b := NewBuilder(BuilderConfig{NBest: 5}, logger.NewNop())

	snaps := []marketdata.OrderBookSnapshot{
		// malformed: no exchange
		snapshot("", "BTC/USDT", [][2]string{{"30000", "1"}}, [][2]string{{"30010", "1"}}),
		// empty bid side: only the ask edge should appear
		snapshot("binance", "ETH/USDT", nil, [][2]string{{"2000", "3"}}),
	}

	g := b.Build(context.Background(), snaps)

	if g.EdgeCount() != 1 {
		t.Fatalf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	edge := g.Edge(0)
	if edge.Side != graphdomain.SideAsk || edge.Exchange != "binance" {
		t.Errorf("surviving edge = %+v, want binance ask", edge)
	}
}

func TestBuilder_Deterministic(t *testing.T) {
	b := NewBuilder(BuilderConfig{NBest: 3}, logger.NewNop())

	snaps := []marketdata.OrderBookSnapshot{
		snapshot("binance", "BTC/USDT", [][2]string{{"30000", "1"}}, [][2]string{{"30010", "1"}}),
		snapshot("kucoin", "BTC/USDT", [][2]string{{"30005", "2"}}, [][2]string{{"30015", "2"}}),
		snapshot("binance", "ETH/BTC", [][2]string{{"0.066", "10"}}, [][2]string{{"0.067", "10"}}),
	}

	g1 := b.Build(context.Background(), snaps)
	g2 := b.Build(context.Background(), snaps)

	if g1.NodeCount() != g2.NodeCount() || g1.EdgeCount() != g2.EdgeCount() {
		t.Fatalf("builds differ: %d/%d nodes, %d/%d edges",
			g1.NodeCount(), g2.NodeCount(), g1.EdgeCount(), g2.EdgeCount())
	}
	for i := 0; i < g1.EdgeCount(); i++ {
		e1, e2 := g1.Edge(graphdomain.EdgeID(i)), g2.Edge(graphdomain.EdgeID(i))
		if e1.From != e2.From || e1.To != e2.To || !e1.Price.Equal(e2.Price) {
			t.Errorf("edge %d differs: %+v vs %+v", i, e1, e2)
		}
	}
}
