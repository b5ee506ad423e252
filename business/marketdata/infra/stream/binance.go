// Package stream implements a SnapshotProvider over the Binance partial
// book depth WebSocket streams. It keeps the latest snapshot per symbol in
// memory and serves reads from that cache, falling back to an error when
// the cache is empty or stale.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/lmoreno/cyclearb/business/marketdata/domain"
	"github.com/lmoreno/cyclearb/internal/apperror"
	"github.com/lmoreno/cyclearb/internal/logger"
	"github.com/lmoreno/cyclearb/internal/wsconn"
)

const (
	defaultWSURL = "wss://stream.binance.com:9443/stream"

	tracerName = "marketdata.stream.binance"
)

// Config holds stream provider settings.
type Config struct {
	Name         string
	WebSocketURL string
	Symbols      []domain.Symbol
	DepthSpeedMs int           // 100 or 1000
	StaleTimeout time.Duration // reads older than this fail
}

// bookState is the latest depth snapshot for one symbol.
type bookState struct {
	mu       sync.RWMutex
	snapshot domain.OrderBookSnapshot
	ticker   domain.Ticker
	hasBook  bool
	hasTick  bool
}

// BinanceStream is a WebSocket-backed SnapshotProvider.
type BinanceStream struct {
	config Config
	log    logger.LoggerInterface
	conn   *wsconn.Client
	tracer trace.Tracer

	books map[string]*bookState // keyed by lowercase venue symbol
	subID int64
	mu    sync.Mutex
}

// NewBinanceStream creates the stream provider. Connect must be called
// before reads succeed.
func NewBinanceStream(cfg Config, log logger.LoggerInterface) *BinanceStream {
	if cfg.Name == "" {
		cfg.Name = "binance"
	}
	if cfg.WebSocketURL == "" {
		cfg.WebSocketURL = defaultWSURL
	}
	if cfg.DepthSpeedMs != 100 && cfg.DepthSpeedMs != 1000 {
		cfg.DepthSpeedMs = 100
	}
	if cfg.StaleTimeout <= 0 {
		cfg.StaleTimeout = 5 * time.Second
	}

	p := &BinanceStream{
		config: cfg,
		log:    log,
		tracer: otel.Tracer(tracerName),
		books:  make(map[string]*bookState, len(cfg.Symbols)),
	}

	for _, sym := range cfg.Symbols {
		p.books[venueSymbol(sym)] = &bookState{
			snapshot: domain.OrderBookSnapshot{Exchange: cfg.Name, Symbol: sym},
			ticker:   domain.Ticker{Exchange: cfg.Name, Symbol: sym},
		}
	}

	wsCfg := wsconn.DefaultConfig(cfg.WebSocketURL)
	wsCfg.OnConnect = p.subscribe
	p.conn = wsconn.New(wsCfg)

	return p
}

// Name returns the exchange identifier.
func (p *BinanceStream) Name() string {
	return p.config.Name
}

// Connect dials the stream and starts consuming depth updates.
func (p *BinanceStream) Connect(ctx context.Context) error {
	if err := p.conn.Connect(ctx); err != nil {
		return err
	}

	go p.consume(ctx)
	return nil
}

// Close shuts down the stream.
func (p *BinanceStream) Close() error {
	return p.conn.Close()
}

// FetchOrderBook serves the latest cached depth snapshot for a symbol.
// The depth argument truncates the cached levels client-side.
func (p *BinanceStream) FetchOrderBook(ctx context.Context, symbol domain.Symbol, depth int) (*domain.OrderBookSnapshot, error) {
	state, ok := p.books[venueSymbol(symbol)]
	if !ok {
		return nil, apperror.Validation(apperror.CodeInvalidSymbol, symbol.String())
	}

	state.mu.RLock()
	defer state.mu.RUnlock()

	if !state.hasBook {
		return nil, apperror.New(apperror.CodeExchangeUnavailable,
			apperror.WithContext(fmt.Sprintf("%s %s: no stream data yet", p.config.Name, symbol)))
	}
	if time.Since(state.snapshot.Timestamp) > p.config.StaleTimeout {
		return nil, apperror.New(apperror.CodeExchangeUnavailable,
			apperror.WithContext(fmt.Sprintf("%s %s: stream data stale", p.config.Name, symbol)))
	}

	snap := state.snapshot
	snap.Bids = cloneLevels(snap.Bids, depth)
	snap.Asks = cloneLevels(snap.Asks, depth)
	return &snap, nil
}

// FetchTicker serves the latest cached best bid/ask for a symbol.
func (p *BinanceStream) FetchTicker(ctx context.Context, symbol domain.Symbol) (*domain.Ticker, error) {
	state, ok := p.books[venueSymbol(symbol)]
	if !ok {
		return nil, apperror.Validation(apperror.CodeInvalidSymbol, symbol.String())
	}

	state.mu.RLock()
	defer state.mu.RUnlock()

	if !state.hasTick || time.Since(state.ticker.Timestamp) > p.config.StaleTimeout {
		return nil, apperror.New(apperror.CodeExchangeUnavailable,
			apperror.WithContext(fmt.Sprintf("%s %s: no live ticker", p.config.Name, symbol)))
	}

	ticker := state.ticker
	return &ticker, nil
}

// subscribe sends the combined-stream subscription. It runs on every
// (re)connect so subscriptions survive reconnects.
func (p *BinanceStream) subscribe(ctx context.Context, c *wsconn.Client) error {
	params := make([]string, 0, 2*len(p.config.Symbols))
	for _, sym := range p.config.Symbols {
		params = append(params,
			fmt.Sprintf("%s@depth20@%dms", venueSymbol(sym), p.config.DepthSpeedMs),
			fmt.Sprintf("%s@bookTicker", venueSymbol(sym)),
		)
	}

	p.mu.Lock()
	p.subID++
	id := p.subID
	p.mu.Unlock()

	msg, err := json.Marshal(wsRequest{Method: "SUBSCRIBE", Params: params, ID: id})
	if err != nil {
		return err
	}

	return c.Send(ctx, msg)
}

func (p *BinanceStream) consume(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-p.conn.Messages():
			if !ok {
				return
			}
			if err := p.handleMessage(raw); err != nil {
				p.log.Warn(ctx, "dropping stream message", "exchange", p.config.Name, "error", err)
			}
		}
	}
}

func (p *BinanceStream) handleMessage(raw []byte) error {
	var event streamEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return err
	}
	if event.Stream == "" {
		// Subscription ack.
		return nil
	}

	symbol, kind, ok := strings.Cut(event.Stream, "@")
	if !ok {
		return nil
	}

	state, tracked := p.books[symbol]
	if !tracked {
		return nil
	}

	switch {
	case strings.HasPrefix(kind, "depth"):
		return p.applyDepth(state, event.Data)
	case kind == "bookTicker":
		return p.applyTicker(state, event.Data)
	}
	return nil
}

func (p *BinanceStream) applyDepth(state *bookState, data json.RawMessage) error {
	var event partialDepthEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return err
	}

	bids, err := parseLevels(event.Bids)
	if err != nil {
		return err
	}
	asks, err := parseLevels(event.Asks)
	if err != nil {
		return err
	}

	state.mu.Lock()
	state.snapshot.Bids = bids
	state.snapshot.Asks = asks
	state.snapshot.Timestamp = time.Now().UTC()
	state.hasBook = true
	state.mu.Unlock()
	return nil
}

func (p *BinanceStream) applyTicker(state *bookState, data json.RawMessage) error {
	var event bookTickerEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return err
	}

	bid, ask, bidSize, askSize, err := event.parse()
	if err != nil {
		return err
	}

	state.mu.Lock()
	state.ticker.Bid = bid
	state.ticker.Ask = ask
	state.ticker.BidSize = bidSize
	state.ticker.AskSize = askSize
	state.ticker.Timestamp = time.Now().UTC()
	state.hasTick = true
	state.mu.Unlock()
	return nil
}

func cloneLevels(levels []domain.BookLevel, depth int) []domain.BookLevel {
	n := len(levels)
	if depth > 0 && n > depth {
		n = depth
	}
	out := make([]domain.BookLevel, n)
	copy(out, levels[:n])
	return out
}

// venueSymbol renders "BTC/USDT" as "btcusdt", the stream-name form.
func venueSymbol(s domain.Symbol) string {
	return strings.ToLower(string(s.Base) + string(s.Quote))
}
