package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/monny-app/monny/internal/config"
	"github.com/monny-app/monny/internal/database"
	"github.com/monny-app/monny/pkg/kvstore"
	log "github.com/sirupsen/logrus"
)

// Application wires configuration, storage, router, and server lifecycle.
type Application struct {
	cfg    config.Application
	router *mux.Router
	srv    *http.Server
	close  func()
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication(ctx context.Context) (*Application, error) {
	cfg, err := config.Load("./config/application.yaml")
	if err != nil {
		return nil, err
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	deps, err := BuildDependencies(ctx, store, cfg)
	if err != nil {
		closeStore()
		return nil, err
	}

	r := mux.NewRouter()
	SetupMiddleware(r)
	RegisterRoutes(r, deps)

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Server.Addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, router: r, srv: srv, close: closeStore}, nil
}

// Run starts the HTTP server and blocks until ctx is cancelled or the server fails.
func (a *Application) Run(ctx context.Context) error {
	defer a.close()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", a.srv.Addr)
		errCh <- a.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func openStore(ctx context.Context, cfg config.Application) (kvstore.Store, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pool, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(cfg.Database); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Infof("Using postgres storage at %s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
		return kvstore.NewPostgresStore(pool), pool.Close, nil
	case config.DriverSQLite:
		db, err := database.OpenSQLite(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		if err := database.MigrateSQLite(db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Infof("Using sqlite storage at %s", cfg.SQLite.Path)
		return kvstore.NewSQLiteStore(db), func() { _ = db.Close() }, nil
	case config.DriverMemory:
		log.Warn("Using in-memory storage, plans are lost on restart")
		return kvstore.NewMemoryStore(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
