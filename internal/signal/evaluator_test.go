package signal

import (
	"math"
	"testing"

	"github.com/angelolockdev/trading-signals-generator/pkg/db"
)

func buySignal() db.Signal {
	return db.Signal{
		ID:          "sig-buy",
		Action:      db.ActionBuy,
		Status:      db.StatusActive,
		EntryFrom:   2045,
		EntryTo:     2055,
		StopLoss:    2030,
		TakeProfit1: 2070,
		TakeProfit2: 2090,
		TakeProfit3: 2110,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEvaluateBuyScenarios(t *testing.T) {
	cases := []struct {
		name       string
		price      float64
		wantStatus string
		wantPnl    float64
		wantPct    float64
	}{
		{"still active", 2060, db.StatusActive, 1000, 0.49},
		{"tp1 hit at exit price", 2071, db.StatusTP1Hit, 2000, 0.98},
		{"tp2 hit", 2091, db.StatusTP2Hit, 4000, 1.95},
		{"tp3 hit", 2115, db.StatusTP3Hit, 6000, 2.93},
		{"sl hit at exit price", 2025, db.StatusSLHit, -2000, -0.98},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := Evaluate(buySignal(), tc.price)
			if ev.Status != tc.wantStatus {
				t.Fatalf("status = %s, want %s", ev.Status, tc.wantStatus)
			}
			if !almostEqual(ev.Pnl, tc.wantPnl) {
				t.Errorf("pnl = %v, want %v", ev.Pnl, tc.wantPnl)
			}
			if !almostEqual(ev.PnlPercentage, tc.wantPct) {
				t.Errorf("pnl%% = %v, want %v", ev.PnlPercentage, tc.wantPct)
			}
			if ev.CurrentPrice != tc.price {
				t.Errorf("current price = %v, want %v", ev.CurrentPrice, tc.price)
			}
		})
	}
}

func TestEvaluateStopLossPrecedence(t *testing.T) {
	// Contrived setup where the price satisfies both the stop and a target:
	// the stop must win.
	s := db.Signal{
		Action:      db.ActionBuy,
		Status:      db.StatusActive,
		EntryFrom:   2050,
		EntryTo:     2050,
		StopLoss:    2100,
		TakeProfit1: 2000,
	}
	ev := Evaluate(s, 2050)
	if ev.Status != db.StatusSLHit {
		t.Fatalf("status = %s, want %s", ev.Status, db.StatusSLHit)
	}
	// Exit price is the stop, not the market price.
	if !almostEqual(ev.Pnl, (2100-2050)*100) {
		t.Errorf("pnl = %v, want %v", ev.Pnl, (2100-2050)*100)
	}
}

func TestEvaluateSellTierPrecedence(t *testing.T) {
	s := db.Signal{
		Action:      db.ActionSell,
		Status:      db.StatusActive,
		EntryFrom:   2450,
		EntryTo:     2450,
		StopLoss:    2500,
		TakeProfit1: 2350,
		TakeProfit2: 2250,
		TakeProfit3: 2150,
	}
	// Price below tp3 satisfies every tier; farthest wins.
	ev := Evaluate(s, 2100)
	if ev.Status != db.StatusTP3Hit {
		t.Fatalf("status = %s, want %s", ev.Status, db.StatusTP3Hit)
	}
	if !almostEqual(ev.Pnl, (2450-2150)*100) {
		t.Errorf("pnl = %v", ev.Pnl)
	}
}

func TestEvaluateSellScenarios(t *testing.T) {
	s := db.Signal{
		Action:      db.ActionSell,
		Status:      db.StatusActive,
		EntryFrom:   2450,
		EntryTo:     2450,
		StopLoss:    2500,
		TakeProfit1: 2350,
	}

	ev := Evaluate(s, 2500)
	if ev.Status != db.StatusSLHit {
		t.Fatalf("status at stop = %s, want %s", ev.Status, db.StatusSLHit)
	}
	if !almostEqual(ev.Pnl, -5000) {
		t.Errorf("pnl at stop = %v, want -5000", ev.Pnl)
	}

	ev = Evaluate(s, 2340)
	if ev.Status != db.StatusTP1Hit {
		t.Fatalf("status at target = %s, want %s", ev.Status, db.StatusTP1Hit)
	}
	if !almostEqual(ev.Pnl, 10000) {
		t.Errorf("pnl at target = %v, want 10000", ev.Pnl)
	}
}

func TestEvaluateTerminalIsIdempotent(t *testing.T) {
	s := buySignal()
	s.Status = db.StatusTP2Hit
	s.CurrentPrice = 2091
	s.Pnl = 4000
	s.PnlPercentage = 1.95

	first := Evaluate(s, 1500)
	second := Evaluate(s, 3000)
	if first != second {
		t.Fatalf("terminal evaluation not stable: %+v vs %+v", first, second)
	}
	if first.Status != db.StatusTP2Hit || !almostEqual(first.Pnl, 4000) {
		t.Errorf("stored snapshot was recomputed: %+v", first)
	}
}

func TestEvaluateTerminalSnapshotIsVerbatim(t *testing.T) {
	// Even a terminal row without a recorded price must echo its snapshot,
	// never the market price passed in.
	s := buySignal()
	s.Status = db.StatusSLHit
	s.Pnl = -2000
	s.PnlPercentage = -0.98

	first := Evaluate(s, 1500)
	second := Evaluate(s, 3000)
	if first != second {
		t.Fatalf("snapshot varies with market price: %+v vs %+v", first, second)
	}
	if first.CurrentPrice != 0 {
		t.Errorf("current price = %v, want stored 0", first.CurrentPrice)
	}
}

func TestEvaluateDraftNeverClassified(t *testing.T) {
	s := buySignal()
	s.IsDraft = true
	s.Status = db.StatusDraft

	ev := Evaluate(s, 2500)
	if ev.Status != db.StatusDraft {
		t.Fatalf("draft was classified as %s", ev.Status)
	}
	if ev.Pnl != 0 || ev.PnlPercentage != 0 {
		t.Errorf("draft accrued pnl: %+v", ev)
	}
}

func TestEvaluateNoEntryPriceDegradesToZero(t *testing.T) {
	s := db.Signal{
		Action:      db.ActionBuy,
		Status:      db.StatusActive,
		StopLoss:    2030,
		TakeProfit1: 2070,
	}
	ev := Evaluate(s, 2071)
	if ev.Status != db.StatusTP1Hit {
		t.Fatalf("status = %s, want %s", ev.Status, db.StatusTP1Hit)
	}
	if ev.Pnl != 0 || ev.PnlPercentage != 0 {
		t.Errorf("expected zero pnl for missing entry, got %+v", ev)
	}
}

func TestEvaluateDisabledTiersAreSkipped(t *testing.T) {
	s := buySignal()
	s.TakeProfit2 = 0
	s.TakeProfit3 = 0

	ev := Evaluate(s, 2500)
	if ev.Status != db.StatusTP1Hit {
		t.Fatalf("status = %s, want %s", ev.Status, db.StatusTP1Hit)
	}
}

func TestEntryPrice(t *testing.T) {
	cases := []struct {
		name     string
		from, to float64
		want     float64
	}{
		{"both bounds", 2045, 2055, 2050},
		{"only lower", 2045, 0, 2045},
		{"only upper", 0, 2055, 2055},
		{"none", 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EntryPrice(db.Signal{EntryFrom: tc.from, EntryTo: tc.to})
			if !almostEqual(got, tc.want) {
				t.Errorf("entry = %v, want %v", got, tc.want)
			}
		})
	}
}
