package rest

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseLevels(t *testing.T) {
	tests := []struct {
		name    string
		raw     [][]string
		wantLen int
		wantErr bool
	}{
		{
			name:    "plain_levels",
			raw:     [][]string{{"30000.10", "1.5"}, {"29999.00", "2"}},
			wantLen: 2,
		},
		{
			name:    "zero_size_dropped",
			raw:     [][]string{{"30000", "0"}, {"29999", "1"}},
			wantLen: 1,
		},
		{
			name:    "short_entry_skipped",
			raw:     [][]string{{"30000"}, {"29999", "1"}},
			wantLen: 1,
		},
		{
			name:    "empty",
			raw:     nil,
			wantLen: 0,
		},
		{
			name:    "bad_price",
			raw:     [][]string{{"not-a-number", "1"}},
			wantErr: true,
		},
		{
			name:    "bad_size",
			raw:     [][]string{{"30000", "??"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			levels, err := parseLevels(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("parseLevels() = nil error, want parse failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseLevels() error: %v", err)
			}
			if len(levels) != tt.wantLen {
				t.Errorf("parseLevels() = %d levels, want %d", len(levels), tt.wantLen)
			}
		})
	}
}

func TestBinanceDepthResponse_Decode(t *testing.T) {
	raw := []byte(`{
		"lastUpdateId": 1027024,
		"bids": [["30000.10", "1.5"]],
		"asks": [["30001.00", "0.5"], ["30002.00", "1.0"]]
	}`)

	var resp binanceDepthResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}

	bids, err := parseLevels(resp.Bids)
	if err != nil {
		t.Fatalf("parseLevels(bids) error: %v", err)
	}
	if len(bids) != 1 || !bids[0].Price.Equal(decimal.RequireFromString("30000.10")) {
		t.Errorf("bids = %+v, want one level at 30000.10", bids)
	}

	asks, err := parseLevels(resp.Asks)
	if err != nil {
		t.Fatalf("parseLevels(asks) error: %v", err)
	}
	if len(asks) != 2 {
		t.Errorf("asks = %d levels, want 2", len(asks))
	}
}

func TestKucoinEnvelope_Decode(t *testing.T) {
	raw := []byte(`{
		"code": "200000",
		"data": {
			"sequence": "3262786978",
			"time": 1550653727731,
			"bids": [["6500.12", "0.45054140"]],
			"asks": [["6500.16", "0.57753524"]]
		}
	}`)

	var env kucoinEnvelope[kucoinOrderBookData]
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}

	if env.Code != kucoinSuccessCode {
		t.Errorf("Code = %q, want %q", env.Code, kucoinSuccessCode)
	}
	if env.Data.Time != 1550653727731 {
		t.Errorf("Time = %d, want 1550653727731", env.Data.Time)
	}

	bids, err := parseLevels(env.Data.Bids)
	if err != nil {
		t.Fatalf("parseLevels() error: %v", err)
	}
	if len(bids) != 1 || !bids[0].Size.Equal(decimal.RequireFromString("0.45054140")) {
		t.Errorf("bids = %+v, want one level sized 0.45054140", bids)
	}
}

func TestKucoinEnvelope_ErrorCode(t *testing.T) {
	raw := []byte(`{"code": "400100", "msg": "symbol not exists"}`)

	var env kucoinEnvelope[kucoinOrderBookData]
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if env.Code == kucoinSuccessCode {
		t.Error("error envelope decoded as success")
	}
	if env.Msg != "symbol not exists" {
		t.Errorf("Msg = %q, want symbol not exists", env.Msg)
	}
}
