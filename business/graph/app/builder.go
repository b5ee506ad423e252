// Package app contains the graph construction and route enumeration
// services for the discovery engine.
package app

import (
	"context"

	"github.com/shopspring/decimal"

	graphdomain "github.com/lmoreno/cyclearb/business/graph/domain"
	marketdata "github.com/lmoreno/cyclearb/business/marketdata/domain"
	"github.com/lmoreno/cyclearb/internal/apperror"
	"github.com/lmoreno/cyclearb/internal/logger"
)

// NetworkMainnet is the single-network placeholder. Multi-network graphs
// are an extension point, not a current behavior.
const NetworkMainnet = "mainnet"

var one = decimal.NewFromInt(1)

// BuilderConfig holds graph construction parameters.
type BuilderConfig struct {
	NBest        int             // top levels consolidated per side
	FeeRate      decimal.Decimal // 0 <= rate < 1
	SlippageRate decimal.Decimal // 0 <= rate < 1
}

// Builder converts snapshot batches into conversion graphs.
type Builder struct {
	config BuilderConfig
	log    logger.LoggerInterface
}

// NewBuilder creates a Builder.
func NewBuilder(cfg BuilderConfig, log logger.LoggerInterface) *Builder {
	if cfg.NBest < 1 {
		cfg.NBest = 1
	}
	return &Builder{config: cfg, log: log}
}

// Build constructs a fresh graph from one snapshot batch. Each snapshot
// yields up to two edges for symbol BASE/QUOTE: BASE->QUOTE from the
// consolidated bid side (sell base) and QUOTE->BASE from the consolidated
// ask side (buy base). Malformed snapshots and empty sides are skipped
// with a diagnostic; they never abort the build. Building is deterministic
// for identical input order.
func (b *Builder) Build(ctx context.Context, snapshots []marketdata.OrderBookSnapshot) *graphdomain.Graph {
	g := graphdomain.NewGraph()

	for i := range snapshots {
		snap := &snapshots[i]

		if err := snap.Validate(); err != nil {
			b.log.Warn(ctx, "malformed snapshot skipped",
				"exchange", snap.Exchange, "symbol", snap.Symbol.String(), "error", err)
			continue
		}

		base := g.EnsureNode(NetworkMainnet, snap.Exchange, snap.Symbol.Base)
		quote := g.EnsureNode(NetworkMainnet, snap.Exchange, snap.Symbol.Quote)

		if bid, err := marketdata.Consolidate(snap.Bids, b.config.NBest); err != nil {
			b.logSideSkipped(ctx, snap, "bid", err)
		} else {
			price := b.adjustBid(bid.Price)
			if _, err := g.AddEdge(base, quote, snap.Symbol, graphdomain.SideBid, price, bid.Size); err != nil {
				b.logSideSkipped(ctx, snap, "bid", err)
			}
		}

		if ask, err := marketdata.Consolidate(snap.Asks, b.config.NBest); err != nil {
			b.logSideSkipped(ctx, snap, "ask", err)
		} else {
			price := b.adjustAsk(ask.Price)
			if _, err := g.AddEdge(quote, base, snap.Symbol, graphdomain.SideAsk, price, ask.Size); err != nil {
				b.logSideSkipped(ctx, snap, "ask", err)
			}
		}
	}

	return g
}

// adjustBid applies fee and slippage against the seller: the effective
// proceeds of selling base never exceed the quoted average.
func (b *Builder) adjustBid(price decimal.Decimal) decimal.Decimal {
	return price.
		Mul(one.Sub(b.config.FeeRate)).
		Mul(one.Sub(b.config.SlippageRate))
}

// adjustAsk applies fee and slippage against the buyer: the effective cost
// of buying base never falls below the quoted average.
func (b *Builder) adjustAsk(price decimal.Decimal) decimal.Decimal {
	return price.
		Mul(one.Add(b.config.FeeRate)).
		Mul(one.Add(b.config.SlippageRate))
}

func (b *Builder) logSideSkipped(ctx context.Context, snap *marketdata.OrderBookSnapshot, side string, err error) {
	if apperror.IsCode(err, apperror.CodeEmptyDepth) {
		b.log.Warn(ctx, "empty depth, edge omitted",
			"exchange", snap.Exchange, "symbol", snap.Symbol.String(), "side", side)
		return
	}
	b.log.Warn(ctx, "edge construction failed, side skipped",
		"exchange", snap.Exchange, "symbol", snap.Symbol.String(), "side", side, "error", err)
}
