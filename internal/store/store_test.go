package store

import (
	"context"
	"testing"
	"time"

	"github.com/angelolockdev/trading-signals-generator/internal/events"
	"github.com/angelolockdev/trading-signals-generator/pkg/db"
)

func newTestStore(t *testing.T) (*Store, *events.Bus) {
	t.Helper()
	database, err := db.New(":memory:")
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	if err := db.ApplyMigrations(database); err != nil {
		t.Fatalf("ApplyMigrations: %v", err)
	}

	bus := events.NewBus()
	return New(database, bus), bus
}

func nextChange(t *testing.T, ch <-chan any) events.SignalChange {
	t.Helper()
	select {
	case msg := <-ch:
		change, ok := msg.(events.SignalChange)
		if !ok {
			t.Fatalf("unexpected payload type %T", msg)
		}
		return change
	case <-time.After(time.Second):
		t.Fatal("no change event received")
		return events.SignalChange{}
	}
}

func TestStoreEmitsChangeEvents(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	stream, unsub := s.Subscribe(10)
	defer unsub()

	created, err := s.Create(ctx, db.Signal{
		UserID:      "user-1",
		Symbol:      "XAUUSD",
		Action:      db.ActionBuy,
		EntryFrom:   2045,
		EntryTo:     2055,
		StopLoss:    2030,
		TakeProfit1: 2070,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" || created.Status != db.StatusActive {
		t.Errorf("create defaults not applied: %+v", created)
	}

	if change := nextChange(t, stream); change.Type != events.ChangeInsert || change.UserID != "user-1" {
		t.Errorf("insert event = %+v", change)
	}

	if err := s.UpdateEvaluation(ctx, created, db.StatusTP1Hit, 2071, 2000, 0.98); err != nil {
		t.Fatalf("UpdateEvaluation: %v", err)
	}
	if change := nextChange(t, stream); change.Type != events.ChangeUpdate {
		t.Errorf("update event = %+v", change)
	}

	if err := s.Delete(ctx, "user-1", created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if change := nextChange(t, stream); change.Type != events.ChangeDelete {
		t.Errorf("delete event = %+v", change)
	}
}

func TestStoreDraftStatus(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, db.Signal{
		UserID:  "user-1",
		Symbol:  "XAUUSD",
		Action:  db.ActionSell,
		IsDraft: true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != db.StatusDraft {
		t.Errorf("draft status = %s, want %s", created.Status, db.StatusDraft)
	}

	// Publishing the draft flips it to active.
	created.IsDraft = false
	created.EntryFrom, created.EntryTo = 2450, 2450
	created.StopLoss = 2500
	created.TakeProfit1 = 2350
	updated, err := s.Update(ctx, created)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != db.StatusActive {
		t.Errorf("published status = %s, want %s", updated.Status, db.StatusActive)
	}
}

func TestStoreEvaluationRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, db.Signal{
		UserID:      "user-1",
		Symbol:      "XAUUSD",
		Action:      db.ActionBuy,
		EntryFrom:   2045,
		EntryTo:     2055,
		StopLoss:    2030,
		TakeProfit1: 2070,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.UpdateEvaluation(ctx, created, db.StatusTP1Hit, 2071, 2000, 0.98); err != nil {
		t.Fatalf("UpdateEvaluation: %v", err)
	}

	got, err := s.GetByID(ctx, "user-1", created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != db.StatusTP1Hit || got.Pnl != 2000 || got.PnlPercentage != 0.98 {
		t.Errorf("snapshot = %+v", got)
	}

	active, err := s.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("closed signal still listed active: %+v", active)
	}
}
