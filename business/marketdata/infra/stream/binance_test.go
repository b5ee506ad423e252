package stream

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lmoreno/cyclearb/business/marketdata/domain"
	"github.com/lmoreno/cyclearb/internal/apperror"
	"github.com/lmoreno/cyclearb/internal/logger"
)

func newTestStream() *BinanceStream {
	return NewBinanceStream(Config{
		Symbols:      []domain.Symbol{domain.NewSymbol("BTC", "USDT")},
		StaleTimeout: time.Minute,
	}, logger.NewNop())
}

func TestBinanceStream_HandleDepthMessage(t *testing.T) {
	p := newTestStream()

	raw := []byte(`{
		"stream": "btcusdt@depth20@100ms",
		"data": {
			"lastUpdateId": 1,
			"bids": [["30000.10", "1.5"], ["29999.00", "0"], ["29998.50", "2.0"]],
			"asks": [["30001.00", "0.5"]]
		}
	}`)

	if err := p.handleMessage(raw); err != nil {
		t.Fatalf("handleMessage() error: %v", err)
	}

	snap, err := p.FetchOrderBook(context.Background(), domain.NewSymbol("BTC", "USDT"), 20)
	if err != nil {
		t.Fatalf("FetchOrderBook() error: %v", err)
	}

	// Zero-size level dropped.
	if len(snap.Bids) != 2 {
		t.Fatalf("Bids = %d levels, want 2 (zero size dropped)", len(snap.Bids))
	}
	if !snap.Bids[0].Price.Equal(decimal.RequireFromString("30000.10")) {
		t.Errorf("best bid = %s, want 30000.10", snap.Bids[0].Price)
	}
	if len(snap.Asks) != 1 {
		t.Errorf("Asks = %d levels, want 1", len(snap.Asks))
	}
	if snap.Exchange != "binance" {
		t.Errorf("Exchange = %q, want binance", snap.Exchange)
	}
}

func TestBinanceStream_DepthTruncation(t *testing.T) {
	p := newTestStream()

	raw := []byte(`{
		"stream": "btcusdt@depth20@100ms",
		"data": {
			"lastUpdateId": 1,
			"bids": [["30000", "1"], ["29999", "1"], ["29998", "1"]],
			"asks": [["30001", "1"], ["30002", "1"], ["30003", "1"]]
		}
	}`)
	if err := p.handleMessage(raw); err != nil {
		t.Fatalf("handleMessage() error: %v", err)
	}

	snap, err := p.FetchOrderBook(context.Background(), domain.NewSymbol("BTC", "USDT"), 2)
	if err != nil {
		t.Fatalf("FetchOrderBook() error: %v", err)
	}
	if len(snap.Bids) != 2 || len(snap.Asks) != 2 {
		t.Errorf("levels = %d/%d, want 2/2 after truncation", len(snap.Bids), len(snap.Asks))
	}
}

func TestBinanceStream_HandleTickerMessage(t *testing.T) {
	p := newTestStream()

	raw := []byte(`{
		"stream": "btcusdt@bookTicker",
		"data": {
			"u": 7,
			"s": "BTCUSDT",
			"b": "30000.00",
			"B": "1.2",
			"a": "30000.50",
			"A": "0.8"
		}
	}`)
	if err := p.handleMessage(raw); err != nil {
		t.Fatalf("handleMessage() error: %v", err)
	}

	tick, err := p.FetchTicker(context.Background(), domain.NewSymbol("BTC", "USDT"))
	if err != nil {
		t.Fatalf("FetchTicker() error: %v", err)
	}
	if !tick.Bid.Equal(decimal.RequireFromString("30000.00")) {
		t.Errorf("Bid = %s, want 30000.00", tick.Bid)
	}
	if !tick.Ask.Equal(decimal.RequireFromString("30000.50")) {
		t.Errorf("Ask = %s, want 30000.50", tick.Ask)
	}
	if !tick.AskSize.Equal(decimal.RequireFromString("0.8")) {
		t.Errorf("AskSize = %s, want 0.8", tick.AskSize)
	}
}

func TestBinanceStream_IgnoresUntrackedAndAcks(t *testing.T) {
	p := newTestStream()

	// Subscription ack: no stream field.
	if err := p.handleMessage([]byte(`{"result": null, "id": 1}`)); err != nil {
		t.Errorf("ack message errored: %v", err)
	}

	// Untracked symbol.
	if err := p.handleMessage([]byte(`{"stream": "ethusdt@bookTicker", "data": {}}`)); err != nil {
		t.Errorf("untracked symbol errored: %v", err)
	}
}

func TestBinanceStream_NoDataIsUnavailable(t *testing.T) {
	p := newTestStream()

	_, err := p.FetchOrderBook(context.Background(), domain.NewSymbol("BTC", "USDT"), 20)
	if err == nil {
		t.Fatal("FetchOrderBook() before any stream data must fail")
	}
	if !apperror.IsCode(err, apperror.CodeExchangeUnavailable) {
		t.Errorf("error code = %v, want %v", apperror.GetCode(err), apperror.CodeExchangeUnavailable)
	}

	_, err = p.FetchTicker(context.Background(), domain.NewSymbol("ETH", "USDT"))
	if err == nil {
		t.Fatal("FetchTicker() for unconfigured symbol must fail")
	}
	if !apperror.IsCode(err, apperror.CodeInvalidSymbol) {
		t.Errorf("error code = %v, want %v", apperror.GetCode(err), apperror.CodeInvalidSymbol)
	}
}
