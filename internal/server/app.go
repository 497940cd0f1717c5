// Package server assembles the AuthKeeper server: database, migrations,
// identity provider, profile service and the HTTP surface.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
	"github.com/dmitrijs2005/authkeeper/internal/server/httpserver"
	"github.com/dmitrijs2005/authkeeper/internal/server/identity"
	"github.com/dmitrijs2005/authkeeper/internal/server/metrics"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
	"github.com/dmitrijs2005/authkeeper/internal/server/storage"
	"github.com/prometheus/client_golang/prometheus"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   *httpserver.Server
}

// replaced in tests
var openDB = repomanager.OpenPostgres

func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	db, err := openDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	app, err := newApp(ctx, cfg, logger, db, rm, prometheus.NewRegistry())
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, cfg *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager, reg *prometheus.Registry) (*App, error) {
	provider, err := identity.NewLocalProvider(db, rm, cfg, logger)
	if err != nil {
		return nil, err
	}

	var signer services.AvatarSigner
	presigner, err := storage.NewS3Presigner(ctx, cfg)
	switch {
	case errors.Is(err, storage.ErrNoBucket):
		logger.Info(ctx, "avatar links disabled")
	case err != nil:
		logger.Warn(ctx, "avatar links disabled", "error", err)
	default:
		signer = presigner
	}

	srv := httpserver.New(cfg.EndpointAddrHTTP, httpserver.Deps{
		Provider:        provider,
		Profiles:        services.NewProfileService(db, rm, signer, logger),
		Metrics:         metrics.NewCollector(reg),
		Gatherer:        reg,
		ProviderTimeout: cfg.ProviderTimeout,
		Logger:          logger,
	})

	return &App{config: cfg, logger: logger, db: db, http: srv}, nil
}

// Run serves until ctx is done and then closes the database.
func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "Starting app...")
	defer func() {
		if err := app.db.Close(); err != nil {
			app.logger.Error(context.Background(), "db close", "error", err)
		}
	}()
	return app.http.Run(ctx)
}
