package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/ticketapi/internal/dbx"
	"github.com/dmitrijs2005/ticketapi/internal/server/repositories/credentials"
	"github.com/dmitrijs2005/ticketapi/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/ticketapi/internal/server/repositories/tickets"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Credentials(db dbx.DBTX) credentials.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Tickets(db dbx.DBTX) tickets.Repository
}
