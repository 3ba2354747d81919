package services

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/ticketapi/internal/common"
	"github.com/dmitrijs2005/ticketapi/internal/dbx"
	"github.com/dmitrijs2005/ticketapi/internal/server/models"
	"github.com/dmitrijs2005/ticketapi/internal/server/repositories/repomanager"
)

// TicketService records support tickets for authorized sessions and extracts
// stored photos for operator tooling.
type TicketService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewTicketService constructs a TicketService using repositories.
func NewTicketService(db *sql.DB, m repomanager.RepositoryManager) *TicketService {
	return &TicketService{db: db, repomanager: m}
}

// Submit stores a new ticket for the session identified by authKey and
// returns the generated ticket ID. The session liveness check and the insert
// run in one transaction so a key expiring mid-request cannot leave an
// orphaned ticket.
func (s *TicketService) Submit(ctx context.Context, ticket *models.Ticket) (int64, error) {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		live, err := s.repomanager.Sessions(tx).IsLive(ctx, ticket.AuthKey)
		if err != nil {
			return err
		}
		if !live {
			return common.ErrorUnauthorized
		}
		return s.repomanager.Tickets(tx).Create(ctx, ticket)
	})
	if err != nil {
		return 0, err
	}

	return ticket.ID, nil
}

// GetPhoto returns the decoded photo bytes of the given ticket. A ticket
// without a photo yields common.ErrorNotFound.
func (s *TicketService) GetPhoto(ctx context.Context, ticketID int64) ([]byte, error) {
	ticket, err := s.repomanager.Tickets(s.db).Find(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if ticket.Photo == nil {
		return nil, common.ErrorNotFound
	}

	data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(*ticket.Photo, "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("error decoding photo: %v", err)
	}

	return data, nil
}
