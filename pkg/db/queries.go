// Package db provides user-isolated database queries for the signal tracker.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	ErrUserIDRequired = errors.New("user_id is required for data isolation")
	ErrNotFound       = errors.New("record not found")
)

const signalColumns = `
	id, user_id, symbol, action,
	COALESCE(entry_from, 0), COALESCE(entry_to, 0), COALESCE(stop_loss, 0),
	COALESCE(take_profit_1, 0), COALESCE(take_profit_2, 0), COALESCE(take_profit_3, 0),
	status, is_draft,
	COALESCE(current_price, 0), COALESCE(pnl, 0), COALESCE(pnl_percentage, 0),
	COALESCE(notes, ''), created_at, updated_at`

// SignalQueries provides user-isolated signal persistence.
type SignalQueries struct {
	db *sql.DB
}

// Queries returns the signal query layer for this database.
func (d *Database) Queries() *SignalQueries {
	return &SignalQueries{db: d.DB}
}

func scanSignal(scan func(dest ...any) error) (Signal, error) {
	var s Signal
	err := scan(&s.ID, &s.UserID, &s.Symbol, &s.Action,
		&s.EntryFrom, &s.EntryTo, &s.StopLoss,
		&s.TakeProfit1, &s.TakeProfit2, &s.TakeProfit3,
		&s.Status, &s.IsDraft,
		&s.CurrentPrice, &s.Pnl, &s.PnlPercentage,
		&s.Notes, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// CreateSignal inserts a new signal row.
func (q *SignalQueries) CreateSignal(ctx context.Context, s Signal) error {
	if s.UserID == "" {
		return ErrUserIDRequired
	}

	_, err := q.db.ExecContext(ctx, `
		INSERT INTO signals (
			id, user_id, symbol, action,
			entry_from, entry_to, stop_loss,
			take_profit_1, take_profit_2, take_profit_3,
			status, is_draft, notes, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
			COALESCE(?, CURRENT_TIMESTAMP), COALESCE(?, CURRENT_TIMESTAMP))
	`, s.ID, s.UserID, s.Symbol, s.Action,
		s.EntryFrom, s.EntryTo, s.StopLoss,
		s.TakeProfit1, s.TakeProfit2, s.TakeProfit3,
		s.Status, s.IsDraft, s.Notes, s.CreatedAt, s.UpdatedAt)

	return err
}

// GetSignalByID returns a signal by ID, verifying user ownership.
func (q *SignalQueries) GetSignalByID(ctx context.Context, userID, id string) (*Signal, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}

	row := q.db.QueryRowContext(ctx, `
		SELECT `+signalColumns+`
		FROM signals WHERE id = ? AND user_id = ?
	`, id, userID)

	s, err := scanSignal(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query signal: %w", err)
	}
	return &s, nil
}

// ListSignalsByUser returns all signals for a user, newest first.
func (q *SignalQueries) ListSignalsByUser(ctx context.Context, userID string) ([]Signal, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}

	rows, err := q.db.QueryContext(ctx, `
		SELECT `+signalColumns+`
		FROM signals
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query signals: %w", err)
	}
	defer rows.Close()

	var signals []Signal
	for rows.Next() {
		s, err := scanSignal(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		signals = append(signals, s)
	}
	return signals, rows.Err()
}

// ListActiveSignals returns every published, still-active signal across users.
// The refresh orchestrator re-evaluates these against the shared price snapshot.
func (q *SignalQueries) ListActiveSignals(ctx context.Context) ([]Signal, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+signalColumns+`
		FROM signals
		WHERE status = ? AND is_draft = 0
		ORDER BY created_at DESC, id DESC
	`, StatusActive)
	if err != nil {
		return nil, fmt.Errorf("query active signals: %w", err)
	}
	defer rows.Close()

	var signals []Signal
	for rows.Next() {
		s, err := scanSignal(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		signals = append(signals, s)
	}
	return signals, rows.Err()
}

// UpdateSignalWithUser rewrites the editable fields of a signal the user owns.
func (q *SignalQueries) UpdateSignalWithUser(ctx context.Context, s Signal) error {
	if s.UserID == "" {
		return ErrUserIDRequired
	}

	res, err := q.db.ExecContext(ctx, `
		UPDATE signals SET
			symbol = ?, action = ?,
			entry_from = ?, entry_to = ?, stop_loss = ?,
			take_profit_1 = ?, take_profit_2 = ?, take_profit_3 = ?,
			status = ?, is_draft = ?, notes = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?
	`, s.Symbol, s.Action,
		s.EntryFrom, s.EntryTo, s.StopLoss,
		s.TakeProfit1, s.TakeProfit2, s.TakeProfit3,
		s.Status, s.IsDraft, s.Notes,
		s.ID, s.UserID)
	if err != nil {
		return fmt.Errorf("update signal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateSignalEvaluation persists the evaluator's snapshot for one signal.
func (q *SignalQueries) UpdateSignalEvaluation(ctx context.Context, id, status string, currentPrice, pnl, pnlPercentage float64) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE signals SET
			status = ?, current_price = ?, pnl = ?, pnl_percentage = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, status, currentPrice, pnl, pnlPercentage, id)
	if err != nil {
		return fmt.Errorf("update evaluation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSignalWithUser removes a signal the user owns.
func (q *SignalQueries) DeleteSignalWithUser(ctx context.Context, userID, id string) error {
	if userID == "" {
		return ErrUserIDRequired
	}

	res, err := q.db.ExecContext(ctx, `
		DELETE FROM signals WHERE id = ? AND user_id = ?
	`, id, userID)
	if err != nil {
		return fmt.Errorf("delete signal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
