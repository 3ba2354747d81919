package tickets

import (
	"context"

	"github.com/dmitrijs2005/ticketapi/internal/server/models"
)

// Repository stores submitted tickets. Tickets are immutable once created;
// Find exists for internal tooling such as photo extraction.
type Repository interface {
	Create(ctx context.Context, ticket *models.Ticket) error
	Find(ctx context.Context, ticketID int64) (*models.Ticket, error)
}
