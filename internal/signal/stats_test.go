package signal

import (
	"testing"

	"github.com/angelolockdev/trading-signals-generator/pkg/db"
)

func TestSummarize(t *testing.T) {
	signals := []db.Signal{
		{Status: db.StatusActive, Pnl: 0},
		{Status: db.StatusTP1Hit, Pnl: 500},
		{Status: db.StatusSLHit, Pnl: -200},
		{Status: db.StatusTP2Hit, Pnl: 300},
	}

	stats := Summarize(signals)
	if stats.Total != 4 {
		t.Errorf("total = %d, want 4", stats.Total)
	}
	if stats.Active != 1 {
		t.Errorf("active = %d, want 1", stats.Active)
	}
	if stats.WinRate != "66.7" {
		t.Errorf("win rate = %q, want %q", stats.WinRate, "66.7")
	}
	if stats.TotalPnl != 600 {
		t.Errorf("total pnl = %v, want 600", stats.TotalPnl)
	}
}

func TestSummarizeExcludesDrafts(t *testing.T) {
	signals := []db.Signal{
		{Status: db.StatusDraft, IsDraft: true, Pnl: 999},
		{Status: db.StatusActive, Pnl: 50},
	}

	stats := Summarize(signals)
	if stats.Total != 1 {
		t.Errorf("total = %d, want 1", stats.Total)
	}
	if stats.TotalPnl != 50 {
		t.Errorf("total pnl = %v, want 50", stats.TotalPnl)
	}
}

func TestSummarizeNoTerminalSignals(t *testing.T) {
	stats := Summarize([]db.Signal{{Status: db.StatusActive}})
	if stats.WinRate != "0" {
		t.Errorf("win rate = %q, want %q", stats.WinRate, "0")
	}

	stats = Summarize(nil)
	if stats.WinRate != "0" || stats.Total != 0 {
		t.Errorf("empty stats = %+v", stats)
	}
}

func TestSummarizeIncludesUnrealizedPnl(t *testing.T) {
	signals := []db.Signal{
		{Status: db.StatusActive, Pnl: 120.5},
		{Status: db.StatusTP1Hit, Pnl: 80},
	}
	stats := Summarize(signals)
	if stats.TotalPnl != 200.5 {
		t.Errorf("total pnl = %v, want 200.5", stats.TotalPnl)
	}
}
