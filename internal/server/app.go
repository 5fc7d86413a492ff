// Package server wires configuration, logging, the database, repositories,
// services and the HTTP interface into an App, and runs it until the process
// is asked to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/feedback/internal/dbx"
	"github.com/dmitrijs2005/feedback/internal/logging"
	"github.com/dmitrijs2005/feedback/internal/server/config"
	"github.com/dmitrijs2005/feedback/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/feedback/internal/server/services"
	"github.com/dmitrijs2005/feedback/internal/server/web"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	web    *web.Server
}

// NewApp opens the database, applies pending migrations and builds the HTTP
// server. The caller owns the returned App and must Run it to release the
// database.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(os.Stdout, c.LogLevel, c.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, dialect, err := dbx.Open(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewSQLRepositoryManager(dialect)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(logging.WithLogger(ctx, logger), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	us := services.NewUserService(db, rm, c)
	fs := services.NewFeedbackService(db, rm)

	ws, err := web.NewServer(logger, us, fs, db, web.Options{
		SessionTTL:    c.SessionValidityDuration,
		SecureCookies: c.SecureCookies,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("web init error: %w", err)
	}

	logger.Info(ctx, "database ready", "dialect", string(dialect))

	return &App{config: c, logger: logger, db: db, web: ws}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) (stop func()) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	done := make(chan struct{})
	go func() {
		select {
		case <-sigs:
			cancelFunc()
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(done)
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	err := app.web.Run(ctx, app.config.EndpointAddr, app.config.ShutdownTimeout)
	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
	return err
}

// Run serves HTTP until ctx is cancelled or a termination signal arrives,
// then closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	stop := app.initSignalHandler(cancelFunc)
	defer stop()

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}

	app.logger.Info(context.Background(), "App stopped")

	return runErr
}
