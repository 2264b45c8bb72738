package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/linkdeck-app/linkdeck/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.FlowStore = (*FlowRepo)(nil)

// FlowRepo is the SQLite implementation of the FlowStore port. It holds the
// short-lived values that carry a multi-step flow across restarts (pending
// verification email, pending reset email).
type FlowRepo struct {
	db *DB
}

// NewFlowRepo creates a new FlowRepo.
func NewFlowRepo(db *DB) *FlowRepo {
	return &FlowRepo{db: db}
}

// Put stores or replaces the value for key.
func (r *FlowRepo) Put(ctx context.Context, key, value string) error {
	const query = `INSERT OR REPLACE INTO flow_state (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`
	if _, err := r.db.Writer.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("put flow value %q: %w", key, err)
	}
	return nil
}

// Get returns the value for key, or ("", nil) when absent.
func (r *FlowRepo) Get(ctx context.Context, key string) (string, error) {
	const query = `SELECT value FROM flow_state WHERE key = ?`

	var value string
	err := r.db.Reader.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get flow value %q: %w", key, err)
	}
	return value, nil
}

// Delete removes the value for key.
func (r *FlowRepo) Delete(ctx context.Context, key string) error {
	if _, err := r.db.Writer.ExecContext(ctx, `DELETE FROM flow_state WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete flow value %q: %w", key, err)
	}
	return nil
}
