// Package rest implements SnapshotProvider adapters over venue REST APIs.
package rest

import (
	"github.com/lmoreno/cyclearb/business/marketdata/domain"
	"github.com/shopspring/decimal"
)

// Binance REST API responses.

// binanceDepthResponse is the GET /api/v3/depth payload.
type binanceDepthResponse struct {
	LastUpdateID int64      `json:"lastUpdateId"`
	Bids         [][]string `json:"bids"` // [[price, qty], ...] best-first
	Asks         [][]string `json:"asks"`
}

// binanceBookTickerResponse is the GET /api/v3/ticker/bookTicker payload.
type binanceBookTickerResponse struct {
	Symbol   string `json:"symbol"`
	BidPrice string `json:"bidPrice"`
	BidQty   string `json:"bidQty"`
	AskPrice string `json:"askPrice"`
	AskQty   string `json:"askQty"`
}

// KuCoin REST API responses. KuCoin wraps every payload in a code/data
// envelope; code "200000" means success.

type kucoinEnvelope[T any] struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data T      `json:"data"`
}

type kucoinOrderBookData struct {
	Sequence string     `json:"sequence"`
	Time     int64      `json:"time"`
	Bids     [][]string `json:"bids"` // [[price, size], ...] best-first
	Asks     [][]string `json:"asks"`
}

type kucoinLevel1Data struct {
	Sequence    string `json:"sequence"`
	Time        int64  `json:"time"`
	Price       string `json:"price"`
	BestBid     string `json:"bestBid"`
	BestBidSize string `json:"bestBidSize"`
	BestAsk     string `json:"bestAsk"`
	BestAskSize string `json:"bestAskSize"`
}

// parseLevels parses [[price, size], ...] string pairs into book levels,
// skipping zero-size entries.
func parseLevels(raw [][]string) ([]domain.BookLevel, error) {
	levels := make([]domain.BookLevel, 0, len(raw))
	for _, r := range raw {
		if len(r) < 2 {
			continue
		}
		price, err := decimal.NewFromString(r[0])
		if err != nil {
			return nil, err
		}
		size, err := decimal.NewFromString(r[1])
		if err != nil {
			return nil, err
		}
		if size.IsZero() {
			continue
		}
		levels = append(levels, domain.BookLevel{Price: price, Size: size})
	}
	return levels, nil
}
