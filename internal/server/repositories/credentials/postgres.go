// Package credentials provides a PostgreSQL-backed repository for company
// login credentials (companyID, password digest, salt).
package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ticketapi/internal/common"
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

// Create inserts a new credential row.
func (r *PostgresRepository) Create(ctx context.Context, credential *models.Credential) error {
	query := `
		INSERT INTO credentials (company_id, company_name, password_hash, salt)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.ExecContext(ctx, query,
		credential.CompanyID, credential.CompanyName, credential.PasswordHash, credential.Salt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Find returns the credential for companyID.
// If not found, it returns common.ErrorNotFound.
func (r *PostgresRepository) Find(ctx context.Context, companyID string) (*models.Credential, error) {
	query := `
		SELECT company_id, company_name, password_hash, salt
		FROM credentials
		WHERE company_id = $1
	`
	credential := &models.Credential{}
	err := r.db.QueryRowContext(ctx, query, companyID).
		Scan(&credential.CompanyID, &credential.CompanyName, &credential.PasswordHash, &credential.Salt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return credential, nil
}
