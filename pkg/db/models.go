package db

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// Signal lifecycle statuses. Terminal statuses never transition again.
const (
	StatusDraft  = "draft"
	StatusActive = "active"
	StatusTP1Hit = "tp1_hit"
	StatusTP2Hit = "tp2_hit"
	StatusTP3Hit = "tp3_hit"
	StatusSLHit  = "sl_hit"
)

// Signal directions.
const (
	ActionBuy  = "BUY"
	ActionSell = "SELL"
)

// IsTerminal reports whether a status is final (no re-evaluation).
func IsTerminal(status string) bool {
	switch status {
	case StatusTP1Hit, StatusTP2Hit, StatusTP3Hit, StatusSLHit:
		return true
	}
	return false
}

// Signal represents a recorded trade idea stored in the DB.
// Zero values on price fields mean "not set"; disabled TP tiers are <= 0.
type Signal struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Symbol        string    `json:"symbol"`
	Action        string    `json:"action"`
	EntryFrom     float64   `json:"entry_from"`
	EntryTo       float64   `json:"entry_to"`
	StopLoss      float64   `json:"stop_loss"`
	TakeProfit1   float64   `json:"take_profit_1"`
	TakeProfit2   float64   `json:"take_profit_2"`
	TakeProfit3   float64   `json:"take_profit_3"`
	Status        string    `json:"status"`
	IsDraft       bool      `json:"is_draft"`
	CurrentPrice  float64   `json:"current_price"`
	Pnl           float64   `json:"pnl"`
	PnlPercentage float64   `json:"pnl_percentage"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// User represents an application user.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUser inserts a new user row.
func (d *Database) CreateUser(ctx context.Context, u User) error {
	_, err := d.DB.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, COALESCE(?, CURRENT_TIMESTAMP), COALESCE(?, CURRENT_TIMESTAMP))
	`, u.ID, strings.ToLower(u.Email), u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	return err
}

// GetUserByEmail returns a user by email or nil if not found.
func (d *Database) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := d.DB.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at, updated_at
		FROM users WHERE email = ?
	`, strings.ToLower(email))
	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
