package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	marketdata "github.com/lmoreno/cyclearb/business/marketdata/domain"
)

var hundred = decimal.NewFromInt(100)

// CrossVenueSpread is a pre-screen result: for one symbol, the best venue
// to buy on and the best venue to sell on, from ticker data alone. A
// positive spread flags the pair for full-depth evaluation; it is not yet
// an opportunity because tickers carry no fee or depth information.
type CrossVenueSpread struct {
	Symbol       marketdata.Symbol
	BuyExchange  string
	BuyPrice     decimal.Decimal // best ask across venues
	SellExchange string
	SellPrice    decimal.Decimal // best bid across venues
	Spread       decimal.Decimal
	SpreadPct    decimal.Decimal
	Timestamp    time.Time
}

// ScanSpreads groups tickers by symbol and pairs the lowest ask with the
// highest bid across venues. Results are sorted by spread percentage,
// widest first. Symbols quoted by a single venue are skipped.
func ScanSpreads(tickers []marketdata.Ticker) []CrossVenueSpread {
	bySymbol := make(map[marketdata.Symbol][]marketdata.Ticker)
	order := make([]marketdata.Symbol, 0)
	for _, t := range tickers {
		if _, seen := bySymbol[t.Symbol]; !seen {
			order = append(order, t.Symbol)
		}
		bySymbol[t.Symbol] = append(bySymbol[t.Symbol], t)
	}

	spreads := make([]CrossVenueSpread, 0, len(order))
	for _, symbol := range order {
		group := bySymbol[symbol]
		if len(group) < 2 {
			continue
		}

		buy := group[0]
		sell := group[0]
		for _, t := range group[1:] {
			if t.Ask.LessThan(buy.Ask) {
				buy = t
			}
			if t.Bid.GreaterThan(sell.Bid) {
				sell = t
			}
		}

		spread := sell.Bid.Sub(buy.Ask)
		spreads = append(spreads, CrossVenueSpread{
			Symbol:       symbol,
			BuyExchange:  buy.Exchange,
			BuyPrice:     buy.Ask,
			SellExchange: sell.Exchange,
			SellPrice:    sell.Bid,
			Spread:       spread,
			SpreadPct:    spread.Div(buy.Ask).Mul(hundred),
			Timestamp:    time.Now().UTC(),
		})
	}

	sort.SliceStable(spreads, func(i, j int) bool {
		return spreads[i].SpreadPct.GreaterThan(spreads[j].SpreadPct)
	})

	return spreads
}
