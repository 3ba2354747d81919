// Package server initializes and runs the ticketing API server. It opens the
// database, runs schema migrations, loads the password pepper, wires the
// business services, and starts the HTTP endpoint with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/ticketapi/internal/cryptox"
	"github.com/dmitrijs2005/ticketapi/internal/logging"
	"github.com/dmitrijs2005/ticketapi/internal/server/config"
	"github.com/dmitrijs2005/ticketapi/internal/server/httpapi"
	"github.com/dmitrijs2005/ticketapi/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ticketapi/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	authService   *services.AuthService
	ticketService *services.TicketService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	// the pepper is required for every credential check, so failing to load
	// it prevents the service from starting at all
	crypto, err := cryptox.NewFromFile(cfg.PepperFile, cryptox.DefaultParams())
	if err != nil {
		return nil, err
	}

	as := services.NewAuthService(db, rm, crypto, cfg)
	ts := services.NewTicketService(db, rm)

	return &App{
		config:        cfg,
		logger:        logger,
		db:            db,
		authService:   as,
		ticketService: ts,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := httpapi.NewServer(app.config, app.logger, app.authService, app.ticketService)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing database", "error", err)
	}
}
