// Package server wires the document server: Postgres storage with goose
// migrations behind the gRPC document service.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/gophnotes/internal/server/grpc"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	grpc   *gs.GRPCServer
}

// NewApp opens the database, applies migrations and builds the gRPC server.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logging.ParseLevel(c.LogLevel)})
	logger := logging.NewSlogLogger(slog.New(h))

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	return newApp(c, logger, db, gs.NewGRPCServer(c.EndpointAddrGRPC, logger, rm.Documents(db), c.SecretKey)), nil
}

func newApp(c *config.Config, logger logging.Logger, db *sql.DB, srv *gs.GRPCServer) *App {
	return &App{config: c, logger: logger, db: db, grpc: srv}
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM/SIGQUIT arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.grpc.Run(ctx)
	})

	err := g.Wait()
	if app.db != nil {
		if cerr := app.db.Close(); cerr != nil {
			app.logger.Error(ctx, "failed to close database", "error", cerr)
		}
	}
	app.logger.Info(ctx, "App stopped")
	return err
}
