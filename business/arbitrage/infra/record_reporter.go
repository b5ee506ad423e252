package infra

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/lmoreno/cyclearb/business/arbitrage/app"
	"github.com/lmoreno/cyclearb/business/arbitrage/domain"
)

// RecordReporter appends every opportunity to a JSON-lines file, one record
// per line, so sessions can be replayed or analyzed offline.
type RecordReporter struct {
	path string

	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// opportunityRecord is the persisted shape of an opportunity.
type opportunityRecord struct {
	Timestamp  time.Time     `json:"timestamp"`
	Path       string        `json:"path"`
	Kind       string        `json:"kind"`
	Legs       []tradeRecord `json:"legs"`
	Bottleneck string        `json:"bottleneck"`
	Profit     string        `json:"profit"`
	Currency   string        `json:"currency"`
}

type tradeRecord struct {
	Exchange string `json:"exchange"`
	Symbol   string `json:"symbol"`
	Action   string `json:"action"`
	Price    string `json:"price"`
	Amount   string `json:"amount"`
}

// NewRecordReporter creates a reporter writing to path.
func NewRecordReporter(path string) *RecordReporter {
	return &RecordReporter{path: path}
}

// Start opens the record file for appending.
func (r *RecordReporter) Start(ctx context.Context) error {
	file, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.file = file
	r.enc = json.NewEncoder(file)
	r.mu.Unlock()
	return nil
}

// ReportPass appends the pass's opportunities to the record file.
func (r *RecordReporter) ReportPass(ctx context.Context, result app.PassResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.enc == nil {
		return
	}

	for i := range result.Opportunities {
		// Encode errors are swallowed: record keeping must never stall a
		// discovery pass.
		r.enc.Encode(toRecord(&result.Opportunities[i]))
	}
}

// Stop flushes and closes the record file.
func (r *RecordReporter) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	r.enc = nil
	return err
}

func toRecord(opp *domain.Opportunity) opportunityRecord {
	legs := make([]tradeRecord, len(opp.Trades))
	for i, t := range opp.Trades {
		legs[i] = tradeRecord{
			Exchange: t.Exchange,
			Symbol:   t.Symbol.String(),
			Action:   string(t.Action),
			Price:    t.Price.String(),
			Amount:   t.Amount.String(),
		}
	}

	return opportunityRecord{
		Timestamp:  opp.Timestamp,
		Path:       opp.Path(),
		Kind:       string(opp.Route.Kind),
		Legs:       legs,
		Bottleneck: opp.BottleneckAmount.String(),
		Profit:     opp.DisplayProfit().String(),
		Currency:   string(opp.ProfitCurrency),
	}
}
