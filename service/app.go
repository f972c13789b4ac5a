package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yatube/app/cache"
	"yatube/app/config"
	"yatube/app/media"
	"yatube/app/repositories"
	"yatube/app/repositories/sqlstore"
	"yatube/app/routes"
)

// homeCacheBytes bounds the ristretto home feed cache.
const homeCacheBytes = 64 << 20

const shutdownTimeout = 10 * time.Second

// RunAppServer starts the blog service and blocks until SIGINT or SIGTERM.
func RunAppServer(args []string) int {
	cfg, err := config.Load(args)
	if err != nil {
		log.Printf("Invalid configuration: %v", err)
		return 2
	}

	handler, closeAll, err := buildApp(cfg)
	if err != nil {
		log.Printf("Failed to start: %v", err)
		return 1
	}
	defer closeAll()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Starting blog service on %s (storage=%s, cache=%s)", cfg.Addr, cfg.Storage, cfg.CacheBackend)
	if err := serve(ctx, srv); err != nil {
		log.Printf("Server error: %v", err)
		return 1
	}
	log.Println("Server stopped")
	return 0
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// buildApp opens storage, the home cache and the media store and wires the routes.
// The returned func releases everything that was opened.
func buildApp(cfg *config.Config) (http.Handler, func(), error) {
	var closers []func() error
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Printf("close: %v", err)
			}
		}
	}

	repos, closeStore, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, closeStore)

	homeCache, err := newHomeCache(cfg)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	if r, ok := homeCache.(*cache.Ristretto); ok {
		closers = append(closers, func() error { r.Close(); return nil })
	}

	if err := os.MkdirAll(cfg.MediaRoot, 0755); err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("failed to create media root: %w", err)
	}

	app, err := routes.SetupRoutes(routes.Options{
		Repos:         repos,
		Media:         media.NewStore(cfg.MediaRoot),
		HomeCache:     homeCache,
		HomeCacheTTL:  cfg.HomeCacheTTL,
		SessionTTL:    cfg.SessionTTL,
		CSRFKey:       cfg.CSRFKey,
		CSRFEnabled:   true,
		SecureCookies: cfg.SecureCookies,
	})
	if err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return app.Router, closeAll, nil
}

func openStore(cfg *config.Config) (repositories.Repositories, func() error, error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		store, err := sqlstore.New(cfg.DatabaseURL, cfg.Debug)
		if err != nil {
			return repositories.Repositories{}, nil, err
		}
		return store.Repositories(), store.Close, nil
	default:
		if err := os.MkdirAll(cfg.BadgerPath, 0755); err != nil {
			return repositories.Repositories{}, nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		db, err := repositories.OpenBadger(cfg.BadgerPath)
		if err != nil {
			return repositories.Repositories{}, nil, err
		}
		return repositories.NewBadgerRepositories(db), db.Close, nil
	}
}

func newHomeCache(cfg *config.Config) (cache.Store, error) {
	if cfg.CacheBackend == config.CacheMemory {
		return cache.NewMemory(nil), nil
	}
	return cache.NewRistretto(homeCacheBytes)
}
