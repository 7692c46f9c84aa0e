package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"eventreg/internal/core"
	"eventreg/internal/events"
	eventmetrics "eventreg/internal/events/metrics"
	"eventreg/internal/events/service"
	"eventreg/internal/events/store"
	"eventreg/internal/platform/config"
	"eventreg/internal/platform/httpserver"
	"eventreg/internal/platform/logger"
	httpmetrics "eventreg/internal/platform/metrics"
	"eventreg/internal/platform/middleware"
	"eventreg/internal/platform/postgres"
	platformredis "eventreg/internal/platform/redis"
	"eventreg/pkg/platform/middleware/metadata"
	"eventreg/pkg/platform/middleware/requesttime"
)

// main wires the dependencies, exposes the HTTP router and keeps the server
// lifecycle small. Business logic lives in internal/events.
func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(2)
	}
	log := logger.New(cfg.Log.Format, cfg.Log.Level)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.ApplySchema {
		if err := store.ApplySchema(ctx, db); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
		log.Info("database schema applied")
	}

	rdb, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	coreOpts := []core.Option{
		core.WithTimeout(cfg.Core.Timeout),
		core.WithLogger(log),
		core.WithMetrics(core.NewMetrics(reg)),
	}
	if rdb != nil {
		coreOpts = append(coreOpts, core.WithBodyCache(core.NewRedisBodyCache(rdb.Client, cfg.Core.BodyCacheTTL), cfg.Core.BodyCacheTTL))
		log.Info("body cache enabled", "ttl", cfg.Core.BodyCacheTTL)
	}
	coreClient, err := core.New(cfg.Core.URL, coreOpts...)
	if err != nil {
		return fmt.Errorf("core client: %w", err)
	}

	svc, err := events.NewService(store.NewPostgres(db), coreClient, coreClient,
		service.WithLogger(log),
		service.WithMetrics(eventmetrics.New(reg)),
	)
	if err != nil {
		return err
	}

	router := newRouter(cfg, log, reg, db, rdb, coreClient, events.NewHandler(svc, log))
	srv := httpserver.New(cfg.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting events service", "addr", cfg.Addr, "core_url", cfg.Core.URL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func newRouter(cfg config.Server, log *slog.Logger, reg *prometheus.Registry, db *sqlx.DB, rdb *platformredis.Client, resolver middleware.ActorResolver, h *events.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(metadata.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(httpmetrics.New(reg).Middleware)

	checks := []healthCheck{{name: "database", check: db.PingContext}}
	if rdb != nil {
		checks = append(checks, healthCheck{name: "redis", check: rdb.Health})
	}
	r.Get("/healthz", healthHandler(log, checks...))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
		r.Use(middleware.RequireActor(resolver, log))
		h.Register(r)
	})
	return r
}
