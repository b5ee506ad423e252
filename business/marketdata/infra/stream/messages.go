package stream

import (
	"encoding/json"

	"github.com/lmoreno/cyclearb/business/marketdata/domain"
	"github.com/shopspring/decimal"
)

// wsRequest is a combined-stream subscription request.
type wsRequest struct {
	Method string   `json:"method"`
	Params []string `json:"params"`
	ID     int64    `json:"id"`
}

// streamEvent wraps every combined-stream message.
type streamEvent struct {
	Stream string          `json:"stream"`
	Data   json.RawMessage `json:"data"`
}

// partialDepthEvent is a <symbol>@depth20 snapshot: the top 20 levels per
// side, best-first. The symbol comes from the stream name, not the payload.
type partialDepthEvent struct {
	LastUpdateID int64      `json:"lastUpdateId"`
	Bids         [][]string `json:"bids"`
	Asks         [][]string `json:"asks"`
}

// bookTickerEvent is a <symbol>@bookTicker best bid/ask update.
type bookTickerEvent struct {
	UpdateID int64  `json:"u"`
	Symbol   string `json:"s"`
	BidPrice string `json:"b"`
	BidQty   string `json:"B"`
	AskPrice string `json:"a"`
	AskQty   string `json:"A"`
}

func (e *bookTickerEvent) parse() (bid, ask, bidSize, askSize decimal.Decimal, err error) {
	if bid, err = decimal.NewFromString(e.BidPrice); err != nil {
		return
	}
	if ask, err = decimal.NewFromString(e.AskPrice); err != nil {
		return
	}
	if bidSize, err = decimal.NewFromString(e.BidQty); err != nil {
		return
	}
	askSize, err = decimal.NewFromString(e.AskQty)
	return
}

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
