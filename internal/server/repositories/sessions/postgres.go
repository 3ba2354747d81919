// Package sessions provides a PostgreSQL-backed repository for the sessions
// issued after successful authentication.
package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ticketapi/internal/dbx"
	"github.com/dmitrijs2005/ticketapi/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new session row.
func (r *PostgresRepository) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (auth_key, company_id, expires_at)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query,
		session.AuthKey, session.CompanyID, session.ExpiresAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// IsLive reports whether authKey belongs to a session that has not expired.
// An unknown key is (false, nil); only a failing query is an error.
func (r *PostgresRepository) IsLive(ctx context.Context, authKey string) (bool, error) {
	query := `
		SELECT 1 FROM sessions
		WHERE auth_key = $1 AND (expires_at IS NULL OR expires_at > now())
	`
	var one int
	err := r.db.QueryRowContext(ctx, query, authKey).Scan(&one)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("db error: %w", err)
	}

	return true, nil
}

// UpdateProfile replaces the four profile fields on the live session for
// authKey. This is a full replace, not a merge: nil values clear columns.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, authKey string, profile models.Profile) (bool, error) {
	query := `
		UPDATE sessions
		SET first_name = $2, last_name = $3, email = $4, phone_number = $5
		WHERE auth_key = $1 AND (expires_at IS NULL OR expires_at > now())
	`
	res, err := r.db.ExecContext(ctx, query,
		authKey, profile.FirstName, profile.LastName, profile.Email, profile.PhoneNumber)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return affected > 0, nil
}
