package credentials

import (
	"context"

	"github.com/dmitrijs2005/ticketapi/internal/server/models"
)

// Repository stores company credentials. The core never deletes credential
// rows; lifecycle beyond provisioning is owned by the store.
type Repository interface {
	Create(ctx context.Context, credential *models.Credential) error
	Find(ctx context.Context, companyID string) (*models.Credential, error)
}
