// Package tickets provides a PostgreSQL-backed repository for submitted
// support tickets.
package tickets

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

// Create inserts a new ticket row and fills in the generated ticket ID.
func (r *PostgresRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	query := `
		INSERT INTO tickets (auth_key, description, location, photo)
		VALUES ($1, $2, $3, $4)
		RETURNING ticket_id
	`
	err := r.db.QueryRowContext(ctx, query,
		ticket.AuthKey, ticket.Description, ticket.Location, ticket.Photo).Scan(&ticket.ID)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// Find returns the ticket with the given ID.
// If not found, it returns common.ErrorNotFound.
func (r *PostgresRepository) Find(ctx context.Context, ticketID int64) (*models.Ticket, error) {
	query := `
		SELECT ticket_id, auth_key, description, location, photo, created_at
		FROM tickets
		WHERE ticket_id = $1
	`
	ticket := &models.Ticket{}
	err := r.db.QueryRowContext(ctx, query, ticketID).
		Scan(&ticket.ID, &ticket.AuthKey, &ticket.Description, &ticket.Location, &ticket.Photo, &ticket.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return ticket, nil
}
