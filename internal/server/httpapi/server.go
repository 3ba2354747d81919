// Package httpapi exposes the public HTTP endpoints: login, employee profile
// update, and ticket submission. Protected routes pass through the
// authorization middleware before their payload validator; both must pass.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/ticketapi/internal/logging"
	"github.com/dmitrijs2005/ticketapi/internal/server/config"
	"github.com/dmitrijs2005/ticketapi/internal/server/models"
	"github.com/dmitrijs2005/ticketapi/internal/server/request"
	"github.com/gin-gonic/gin"
)

// AuthService is the slice of the auth business logic used by the endpoints.
type AuthService interface {
	Authenticate(ctx context.Context, companyID, password string) (string, error)
	CheckAuth(ctx context.Context, authKey string) (bool, error)
	UpdateProfile(ctx context.Context, authKey string, profile models.Profile) error
}

// TicketService is the slice of the ticket business logic used by the endpoints.
type TicketService interface {
	Submit(ctx context.Context, ticket *models.Ticket) (int64, error)
}

type Server struct {
	address string
	logger  logging.Logger
	auth    AuthService
	tickets TicketService

	authInfo     *request.Validator
	employeeInfo *request.Validator
	ticketInfo   *request.Validator
}

func NewServer(cfg *config.Config, l logging.Logger, auth AuthService, tickets TicketService) (*Server, error) {
	return &Server{
		address:      cfg.EndpointAddr,
		logger:       l.With("module", "http_server"),
		auth:         auth,
		tickets:      tickets,
		authInfo:     request.AuthInfo(),
		employeeInfo: request.EmployeeInfo(cfg.DefaultCountryCode),
		ticketInfo:   request.TicketInfo(),
	}, nil
}

// Router builds the gin engine with all routes and middleware attached.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", s.home)
	r.POST("/login", s.requireValidation(s.authInfo), s.login)
	r.POST("/update-employee", s.requireAuth, s.requireValidation(s.employeeInfo), s.updateEmployee)
	r.POST("/submit-ticket", s.requireAuth, s.requireValidation(s.ticketInfo), s.submitTicket)

	return r
}

// Run starts the HTTP server and shuts it down gracefully when ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.address, Handler: s.Router()}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
