package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lmoreno/cyclearb/internal/apperror"
)

func level(price, size string) BookLevel {
	return BookLevel{
		Price: decimal.RequireFromString(price),
		Size:  decimal.RequireFromString(size),
	}
}

func TestOrderBookSnapshot_Validate(t *testing.T) {
	valid := OrderBookSnapshot{
		Exchange: "binance",
		Symbol:   NewSymbol("BTC", "USDT"),
		Bids:     []BookLevel{level("30000", "1"), level("29990", "2")},
		Asks:     []BookLevel{level("30010", "1"), level("30020", "2")},
	}

	tests := []struct {
		name    string
		mutate  func(s *OrderBookSnapshot)
		wantErr bool
	}{
		{name: "valid_snapshot", mutate: func(s *OrderBookSnapshot) {}},
		{name: "empty_sides_allowed", mutate: func(s *OrderBookSnapshot) {
			s.Bids = nil
			s.Asks = nil
		}},
		{name: "missing_exchange", mutate: func(s *OrderBookSnapshot) {
			s.Exchange = ""
		}, wantErr: true},
		{name: "missing_symbol", mutate: func(s *OrderBookSnapshot) {
			s.Symbol = Symbol{}
		}, wantErr: true},
		{name: "zero_bid_price", mutate: func(s *OrderBookSnapshot) {
			s.Bids = []BookLevel{level("0", "1")}
		}, wantErr: true},
		{name: "negative_ask_size", mutate: func(s *OrderBookSnapshot) {
			s.Asks = []BookLevel{{Price: decimal.RequireFromString("30010"), Size: decimal.RequireFromString("-1")}}
		}, wantErr: true},
		{name: "bids_ascending", mutate: func(s *OrderBookSnapshot) {
			s.Bids = []BookLevel{level("29990", "1"), level("30000", "1")}
		}, wantErr: true},
		{name: "asks_descending", mutate: func(s *OrderBookSnapshot) {
			s.Asks = []BookLevel{level("30020", "1"), level("30010", "1")}
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := valid
			tt.mutate(&snap)

			err := snap.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Validate() = nil, want error")
				}
				if !apperror.IsCode(err, apperror.CodeMalformedSnapshot) {
					t.Errorf("error code = %v, want %v", apperror.GetCode(err), apperror.CodeMalformedSnapshot)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() error: %v", err)
			}
		})
	}
}

func TestConsolidate(t *testing.T) {
	tests := []struct {
		name      string
		levels    []BookLevel
		nBest     int
		wantPrice string
		wantSize  string
		wantErr   bool
	}{
		{
			name:      "single_level",
			levels:    []BookLevel{level("30000", "2")},
			nBest:     5,
			wantPrice: "30000",
			wantSize:  "2",
		},
		{
			name: "weighted_average",
			// (100*1 + 110*3) / 4 = 107.5
			levels:    []BookLevel{level("100", "1"), level("110", "3")},
			nBest:     2,
			wantPrice: "107.5",
			wantSize:  "4",
		},
		{
			name: "truncates_to_n_best",
			// third level must not contribute
			levels:    []BookLevel{level("100", "1"), level("110", "3"), level("999", "100")},
			nBest:     2,
			wantPrice: "107.5",
			wantSize:  "4",
		},
		{
			name:    "empty_side",
			levels:  nil,
			nBest:   5,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Consolidate(tt.levels, tt.nBest)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Consolidate() = nil error, want EMPTY_DEPTH")
				}
				if !apperror.IsCode(err, apperror.CodeEmptyDepth) {
					t.Errorf("error code = %v, want %v", apperror.GetCode(err), apperror.CodeEmptyDepth)
				}
				return
			}
			if err != nil {
				t.Fatalf("Consolidate() error: %v", err)
			}

			wantPrice := decimal.RequireFromString(tt.wantPrice)
			if !got.Price.Equal(wantPrice) {
				t.Errorf("Price = %s, want %s", got.Price, wantPrice)
			}
			wantSize := decimal.RequireFromString(tt.wantSize)
			if !got.Size.Equal(wantSize) {
				t.Errorf("Size = %s, want %s", got.Size, wantSize)
			}
		})
	}
}

func TestTicker_Spread(t *testing.T) {
	tick := Ticker{
		Exchange:  "binance",
		Symbol:    NewSymbol("BTC", "USDT"),
		Bid:       decimal.RequireFromString("30000"),
		Ask:       decimal.RequireFromString("30010"),
		Timestamp: time.Now(),
	}
	want := decimal.RequireFromString("10")
	if !tick.Spread().Equal(want) {
		t.Errorf("Spread() = %s, want %s", tick.Spread(), want)
	}
}
