// cmd/service/serve.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"repo-searcher/internal/api"
	"repo-searcher/internal/config"
	"repo-searcher/internal/database"
	"repo-searcher/internal/github"
	"repo-searcher/internal/listing"
	"repo-searcher/internal/store"
	"repo-searcher/internal/syncer"
)

const readHeaderTimeout = 10 * time.Second

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}

	// Setup context for graceful shutdown
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	dbpool, err := openPool(ctx, cfg.DBURL)
	if err != nil {
		return err
	}
	defer dbpool.Close()
	logger.Info("Database connection established")

	mg, err := database.NewMigrator(dbpool)
	if err != nil {
		return err
	}
	if err := mg.Up(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	logger.Info("Database migrations applied successfully")

	router, err := newRouter(cfg, dbpool, logger)
	if err != nil {
		return err
	}

	return serve(ctx, cfg, router, logger)
}

// newRouter wires the search client, store, syncer and lister behind the HTTP API.
func newRouter(cfg *config.Config, dbpool *pgxpool.Pool, logger *slog.Logger) (http.Handler, error) {
	ghClient, err := github.NewClient(logger,
		github.WithToken(cfg.GithubToken),
		github.WithBaseURL(cfg.GithubBaseURL),
		github.WithTimeout(cfg.GithubTimeout),
		github.WithLimiter(github.NewRateLimiter(cfg.GithubRateLimit)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create github client: %w", err)
	}

	repoStore := store.New(database.New(dbpool))
	appSyncer := syncer.NewSyncer(ghClient, repoStore, logger)
	lister := listing.NewLister(repoStore, logger)

	return api.NewRouter(appSyncer, lister, logger, cfg.RequestTimeout), nil
}

// serve runs the API server and, when configured, the metrics server until ctx is done,
// then shuts both down within the configured timeout.
func serve(ctx context.Context, cfg *config.Config, router http.Handler, logger *slog.Logger) error {
	servers := []*http.Server{
		{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: readHeaderTimeout},
	}
	if cfg.MetricsAddr != "" {
		mr := chi.NewRouter()
		mr.Handle("/metrics", promhttp.Handler())
		servers = append(servers, &http.Server{Addr: cfg.MetricsAddr, Handler: mr, ReadHeaderTimeout: readHeaderTimeout})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			logger.Info("HTTP server listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("listen on %s: %w", srv.Addr, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received. Draining connections.")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("shutdown %s: %w", srv.Addr, err))
			}
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}
