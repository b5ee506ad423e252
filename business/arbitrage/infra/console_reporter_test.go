package infra

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lmoreno/cyclearb/business/arbitrage/app"
	"github.com/lmoreno/cyclearb/business/arbitrage/domain"
	graphdomain "github.com/lmoreno/cyclearb/business/graph/domain"
	marketdata "github.com/lmoreno/cyclearb/business/marketdata/domain"
)

func sampleOpportunity() domain.Opportunity {
	sym := marketdata.NewSymbol("BTC", "USDT")
	return domain.Opportunity{
		Route: graphdomain.Route{Kind: graphdomain.KindCycle, Start: "USDT"},
		Trades: []domain.Trade{
			{Exchange: "binance", Symbol: sym, Action: marketdata.ActionBuy,
				Price: decimal.RequireFromString("30000"), Amount: decimal.RequireFromString("1")},
			{Exchange: "kucoin", Symbol: sym, Action: marketdata.ActionSell,
				Price: decimal.RequireFromString("30300"), Amount: decimal.RequireFromString("2")},
		},
		BottleneckAmount: decimal.RequireFromString("1"),
		RealizedProfit:   decimal.RequireFromString("0.01"),
		ProfitCurrency:   "USDT",
		Timestamp:        time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestConsoleReporter_BottleneckNotLabeledWithProfitCurrency(t *testing.T) {
	var sb strings.Builder
	r := &ConsoleReporter{out: &sb}

	r.ReportPass(context.Background(), app.PassResult{
		Timestamp:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Opportunities: []domain.Opportunity{sampleOpportunity()},
	})
	out := sb.String()

	// The bottleneck is the limiting leg's base size (here BTC), so it must
	// not be rendered as a start-currency amount.
	if strings.Contains(out, "Bottleneck:     1 USDT") {
		t.Errorf("bottleneck labeled with profit currency:\n%s", out)
	}
	if !strings.Contains(out, "Bottleneck:     1 (limiting leg base)") {
		t.Errorf("bottleneck line missing or mislabeled:\n%s", out)
	}
	if !strings.Contains(out, "Profit:         0.01 USDT") {
		t.Errorf("profit line missing:\n%s", out)
	}
	if !strings.Contains(out, "USDT -> BTC -> USDT") {
		t.Errorf("path missing:\n%s", out)
	}
}
