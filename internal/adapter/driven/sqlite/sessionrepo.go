package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/linkdeck-app/linkdeck/internal/domain/model"
	"github.com/linkdeck-app/linkdeck/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CredentialStore = (*SessionRepo)(nil)

// SessionRepo is the SQLite implementation of the CredentialStore port. The
// session table holds at most one row; Set replaces it inside a single
// transaction so token and user are never observable apart.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new SessionRepo.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Set stores the credential, replacing any previous one atomically.
func (r *SessionRepo) Set(ctx context.Context, cred model.Credential) error {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session write: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("clear previous session: %w", err)
	}

	const query = `INSERT INTO session (id, token, user_id, username, email, role, email_verified, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`
	_, err = tx.ExecContext(ctx, query,
		cred.Token,
		cred.User.ID,
		cred.User.Username,
		cred.User.Email,
		string(cred.User.Role),
		boolToInt(cred.User.EmailVerified),
	)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session write: %w", err)
	}
	return nil
}

// Get returns the stored credential, or nil when logged out.
func (r *SessionRepo) Get(ctx context.Context) (*model.Credential, error) {
	const query = `SELECT token, user_id, username, email, role, email_verified FROM session WHERE id = 1`

	var (
		cred     model.Credential
		role     string
		verified int
	)
	err := r.db.Reader.QueryRowContext(ctx, query).Scan(
		&cred.Token,
		&cred.User.ID,
		&cred.User.Username,
		&cred.User.Email,
		&role,
		&verified,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	cred.User.Role = model.Role(role)
	cred.User.EmailVerified = verified != 0
	return &cred, nil
}

// Clear removes the stored credential. Clearing an empty store is not an
// error.
func (r *SessionRepo) Clear(ctx context.Context) error {
	if _, err := r.db.Writer.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
