// Package store is the persistence boundary for signals: sqlite-backed CRUD
// plus a change-notification feed published on the process event bus.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/angelolockdev/trading-signals-generator/internal/events"
	"github.com/angelolockdev/trading-signals-generator/pkg/db"
)

// Store wraps the signal queries and emits insert/update/delete events for
// every mutation so the websocket layer and UI stay in sync.
type Store struct {
	q   *db.SignalQueries
	bus *events.Bus
}

// New builds a store over an opened database.
func New(database *db.Database, bus *events.Bus) *Store {
	return &Store{q: database.Queries(), bus: bus}
}

// Create persists a new signal, assigning ID and timestamps when unset.
func (s *Store) Create(ctx context.Context, sig db.Signal) (db.Signal, error) {
	if sig.ID == "" {
		sig.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if sig.CreatedAt.IsZero() {
		sig.CreatedAt = now
	}
	sig.UpdatedAt = now
	if sig.Status == "" {
		sig.Status = db.StatusActive
	}
	if sig.IsDraft {
		sig.Status = db.StatusDraft
	}

	if err := s.q.CreateSignal(ctx, sig); err != nil {
		return db.Signal{}, err
	}
	s.publish(events.ChangeInsert, sig)
	return sig, nil
}

// Update rewrites the editable fields of a signal the user owns and returns
// the stored row.
func (s *Store) Update(ctx context.Context, sig db.Signal) (db.Signal, error) {
	if sig.IsDraft {
		sig.Status = db.StatusDraft
	} else if sig.Status == "" || sig.Status == db.StatusDraft {
		sig.Status = db.StatusActive
	}

	if err := s.q.UpdateSignalWithUser(ctx, sig); err != nil {
		return db.Signal{}, err
	}
	updated, err := s.q.GetSignalByID(ctx, sig.UserID, sig.ID)
	if err != nil {
		return db.Signal{}, err
	}
	s.publish(events.ChangeUpdate, *updated)
	return *updated, nil
}

// UpdateEvaluation persists the evaluator's snapshot for one signal.
func (s *Store) UpdateEvaluation(ctx context.Context, sig db.Signal, status string, currentPrice, pnl, pnlPercentage float64) error {
	if err := s.q.UpdateSignalEvaluation(ctx, sig.ID, status, currentPrice, pnl, pnlPercentage); err != nil {
		return err
	}
	sig.Status = status
	sig.CurrentPrice = currentPrice
	sig.Pnl = pnl
	sig.PnlPercentage = pnlPercentage
	sig.UpdatedAt = time.Now().UTC()
	s.publish(events.ChangeUpdate, sig)
	return nil
}

// GetByID returns a signal the user owns, or db.ErrNotFound.
func (s *Store) GetByID(ctx context.Context, userID, id string) (*db.Signal, error) {
	return s.q.GetSignalByID(ctx, userID, id)
}

// List returns the user's signals, newest first.
func (s *Store) List(ctx context.Context, userID string) ([]db.Signal, error) {
	return s.q.ListSignalsByUser(ctx, userID)
}

// ListActive returns all published active signals across users.
func (s *Store) ListActive(ctx context.Context) ([]db.Signal, error) {
	return s.q.ListActiveSignals(ctx)
}

// Delete removes a signal the user owns.
func (s *Store) Delete(ctx context.Context, userID, id string) error {
	sig, err := s.q.GetSignalByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.q.DeleteSignalWithUser(ctx, userID, id); err != nil {
		return err
	}
	s.publish(events.ChangeDelete, *sig)
	return nil
}

// Subscribe returns the change-event stream and an unsubscribe function.
func (s *Store) Subscribe(buffer int) (<-chan any, func()) {
	return s.bus.Subscribe(events.EventSignalChange, buffer)
}

func (s *Store) publish(changeType string, sig db.Signal) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.EventSignalChange, events.SignalChange{
		Type:   changeType,
		UserID: sig.UserID,
		Signal: sig,
	})
}
