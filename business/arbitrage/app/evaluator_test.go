package app

import (
	"testing"

	"github.com/shopspring/decimal"

	graphdomain "github.com/lmoreno/cyclearb/business/graph/domain"
	marketdata "github.com/lmoreno/cyclearb/business/marketdata/domain"
	"github.com/lmoreno/cyclearb/internal/apperror"
)

// crossVenueGraph quotes BTC/USDT on two venues: buy on binance's ask,
// sell into kucoin's higher bid. Returns the graph plus the ask and bid
// edge IDs forming the profitable cycle.
func crossVenueGraph(t *testing.T, askPrice, askSize, bidPrice, bidSize string) (*graphdomain.Graph, graphdomain.EdgeID, graphdomain.EdgeID) {
	t.Helper()
	g := graphdomain.NewGraph()
	sym := marketdata.NewSymbol("BTC", "USDT")

	binBTC := g.EnsureNode("mainnet", "binance", "BTC")
	binUSDT := g.EnsureNode("mainnet", "binance", "USDT")
	kcBTC := g.EnsureNode("mainnet", "kucoin", "BTC")
	kcUSDT := g.EnsureNode("mainnet", "kucoin", "USDT")

	askID, err := g.AddEdge(binUSDT, binBTC, sym, graphdomain.SideAsk,
		decimal.RequireFromString(askPrice), decimal.RequireFromString(askSize))
	if err != nil {
		t.Fatalf("AddEdge(ask) error: %v", err)
	}
	bidID, err := g.AddEdge(kcBTC, kcUSDT, sym, graphdomain.SideBid,
		decimal.RequireFromString(bidPrice), decimal.RequireFromString(bidSize))
	if err != nil {
		t.Fatalf("AddEdge(bid) error: %v", err)
	}
	return g, askID, bidID
}

// profitNear reports whether got is within 1e-9 of want. The chained
// projection divides at shopspring's default 16-digit precision, so profits
// land arbitrarily close to round numbers rather than exactly on them.
func profitNear(got, want decimal.Decimal) bool {
	return got.Sub(want).Abs().LessThan(decimal.New(1, -9))
}

func TestEvaluator_ProfitableCycle(t *testing.T) {
	g, askID, bidID := crossVenueGraph(t, "30000", "1", "30300", "2")

	route := graphdomain.Route{
		Kind:  graphdomain.KindCycle,
		Start: "USDT",
		Edges: []graphdomain.EdgeID{askID, bidID},
	}

	opp, err := NewEvaluator().Evaluate(g, route)
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if opp == nil {
		t.Fatal("Evaluate() = nil, want opportunity")
	}

	// Bottleneck is the smaller leg size.
	wantBottleneck := decimal.RequireFromString("1")
	if !opp.BottleneckAmount.Equal(wantBottleneck) {
		t.Errorf("BottleneckAmount = %s, want %s", opp.BottleneckAmount, wantBottleneck)
	}

	// 1 USDT / 30000 * 30300 - 1 ≈ 0.01 USDT
	wantProfit := decimal.RequireFromString("0.01")
	if !profitNear(opp.RealizedProfit, wantProfit) {
		t.Errorf("RealizedProfit = %s, want ~%s", opp.RealizedProfit, wantProfit)
	}
	if !opp.RealizedProfit.IsPositive() {
		t.Errorf("RealizedProfit = %s, want positive", opp.RealizedProfit)
	}
	if opp.ProfitCurrency != "USDT" {
		t.Errorf("ProfitCurrency = %v, want USDT", opp.ProfitCurrency)
	}

	if len(opp.Trades) != 2 {
		t.Fatalf("Trades = %d, want 2", len(opp.Trades))
	}
	if opp.Trades[0].Action != marketdata.ActionBuy || opp.Trades[0].Exchange != "binance" {
		t.Errorf("first trade = %+v, want buy on binance", opp.Trades[0])
	}
	if opp.Trades[1].Action != marketdata.ActionSell || opp.Trades[1].Exchange != "kucoin" {
		t.Errorf("second trade = %+v, want sell on kucoin", opp.Trades[1])
	}
}

func TestEvaluator_UnprofitableIsNil(t *testing.T) {
	tests := []struct {
		name     string
		askPrice string
		bidPrice string
	}{
		{name: "identical_prices", askPrice: "30000", bidPrice: "30000"},
		{name: "bid_below_ask", askPrice: "30000", bidPrice: "29900"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, askID, bidID := crossVenueGraph(t, tt.askPrice, "1", tt.bidPrice, "1")
			route := graphdomain.Route{
				Kind:  graphdomain.KindCycle,
				Start: "USDT",
				Edges: []graphdomain.EdgeID{askID, bidID},
			}

			opp, err := NewEvaluator().Evaluate(g, route)
			if err != nil {
				t.Fatalf("Evaluate() error: %v", err)
			}
			if opp != nil {
				t.Errorf("Evaluate() = %+v, want nil for break-even or losing route", opp)
			}
		})
	}
}

func TestEvaluator_PermutationRoute(t *testing.T) {
	g, _, _ := crossVenueGraph(t, "30000", "1", "30300", "1")

	route := graphdomain.Route{
		Kind:  graphdomain.KindPermutation,
		Start: "USDT",
		Hops: []graphdomain.Hop{
			{From: "USDT", To: "BTC"},
			{From: "BTC", To: "USDT"},
		},
	}

	opp, err := NewEvaluator().Evaluate(g, route)
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if opp == nil {
		t.Fatal("Evaluate() = nil, want opportunity via best-edge binding")
	}
	wantProfit := decimal.RequireFromString("0.01")
	if !profitNear(opp.RealizedProfit, wantProfit) {
		t.Errorf("RealizedProfit = %s, want ~%s", opp.RealizedProfit, wantProfit)
	}
}

func TestEvaluator_PermutationNotExecutable(t *testing.T) {
	g, _, _ := crossVenueGraph(t, "30000", "1", "30300", "1")

	route := graphdomain.Route{
		Kind:  graphdomain.KindPermutation,
		Start: "USDT",
		Hops: []graphdomain.Hop{
			{From: "USDT", To: "ETH"}, // no ETH edges anywhere
			{From: "ETH", To: "USDT"},
		},
	}

	opp, err := NewEvaluator().Evaluate(g, route)
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if opp != nil {
		t.Errorf("Evaluate() = %+v, want nil for unresolvable route", opp)
	}
}

func TestLegPrice(t *testing.T) {
	g, _, _ := crossVenueGraph(t, "30000", "1", "30300", "2")
	sym := marketdata.NewSymbol("BTC", "USDT")

	price, amount, err := LegPrice(g, "binance", sym, marketdata.ActionBuy)
	if err != nil {
		t.Fatalf("LegPrice(buy) error: %v", err)
	}
	if !price.Equal(decimal.RequireFromString("30000")) {
		t.Errorf("buy price = %s, want 30000", price)
	}
	if !amount.Equal(decimal.RequireFromString("1")) {
		t.Errorf("buy amount = %s, want 1", amount)
	}

	price, _, err = LegPrice(g, "kucoin", sym, marketdata.ActionSell)
	if err != nil {
		t.Fatalf("LegPrice(sell) error: %v", err)
	}
	if !price.Equal(decimal.RequireFromString("30300")) {
		t.Errorf("sell price = %s, want 30300", price)
	}
}

func TestLegPrice_ReversedSymbol(t *testing.T) {
	g, _, _ := crossVenueGraph(t, "30000", "1", "30300", "2")

	// Selling USDT/BTC is buying BTC/USDT: same ask edge, same price.
	rev := marketdata.NewSymbol("USDT", "BTC")
	price, _, err := LegPrice(g, "binance", rev, marketdata.ActionSell)
	if err != nil {
		t.Fatalf("LegPrice(reversed sell) error: %v", err)
	}
	if !price.Equal(decimal.RequireFromString("30000")) {
		t.Errorf("reversed sell price = %s, want 30000", price)
	}
}

func TestLegPrice_InvalidAction(t *testing.T) {
	g, _, _ := crossVenueGraph(t, "30000", "1", "30300", "2")
	sym := marketdata.NewSymbol("BTC", "USDT")

	_, _, err := LegPrice(g, "binance", sym, marketdata.Action("hold"))
	if err == nil {
		t.Fatal("LegPrice() = nil error, want INVALID_ACTION")
	}
	if !apperror.IsCode(err, apperror.CodeInvalidAction) {
		t.Errorf("error code = %v, want %v", apperror.GetCode(err), apperror.CodeInvalidAction)
	}
}

func TestLegPrice_EdgeNotFound(t *testing.T) {
	g, _, _ := crossVenueGraph(t, "30000", "1", "30300", "2")
	sym := marketdata.NewSymbol("BTC", "USDT")

	// kucoin only has the bid side in this graph.
	_, _, err := LegPrice(g, "kucoin", sym, marketdata.ActionBuy)
	if err == nil {
		t.Fatal("LegPrice() = nil error, want EDGE_NOT_FOUND")
	}
	if !apperror.IsCode(err, apperror.CodeEdgeNotFound) {
		t.Errorf("error code = %v, want %v", apperror.GetCode(err), apperror.CodeEdgeNotFound)
	}
}
