package sessions

import (
	"context"

	"github.com/dmitrijs2005/ticketapi/internal/server/models"
)

// Repository stores issued sessions and their employee profile fields.
type Repository interface {
	Create(ctx context.Context, session *models.Session) error

	// IsLive reports whether authKey belongs to a session that exists and
	// has not expired.
	IsLive(ctx context.Context, authKey string) (bool, error)

	// UpdateProfile replaces all four profile fields on the live session
	// identified by authKey; nil fields clear the stored values. It reports
	// whether such a session was found.
	UpdateProfile(ctx context.Context, authKey string, profile models.Profile) (bool, error)
}
