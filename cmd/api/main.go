package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/baharkarakas/kuota-backend/internal/api"
	"github.com/baharkarakas/kuota-backend/internal/auth"
	"github.com/baharkarakas/kuota-backend/internal/catalog"
	"github.com/baharkarakas/kuota-backend/internal/config"
	"github.com/baharkarakas/kuota-backend/internal/db"
	"github.com/baharkarakas/kuota-backend/internal/logger"
	"github.com/baharkarakas/kuota-backend/internal/metrics"
	"github.com/baharkarakas/kuota-backend/internal/services"
	"github.com/baharkarakas/kuota-backend/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	store, err := db.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return err
	}

	checks := []func(context.Context) error{store.Ping}
	var revoker auth.Revoker = auth.NewMemoryRevoker()
	if cfg.RedisAddr != "" {
		rdb, err := auth.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return err
		}
		defer rdb.Close()
		revoker = auth.NewRedisRevoker(rdb)
		checks = append(checks, func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		log.Info("token revocation backed by redis", "addr", cfg.RedisAddr)
	}

	wp := worker.NewPool(cfg.WorkerCount, 1024)
	defer wp.Stop()

	repos := store.Repos
	tm := auth.NewTokenManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTIssuer, cfg.AccessTTL, cfg.RefreshTTL)
	auditor := services.NewAuditor(repos.AuditLogs, wp, log)

	metrics.Init()
	r := api.NewRouter(api.RouterDeps{
		Cfg:         cfg,
		Log:         log,
		TM:          tm,
		Catalog:     cat,
		UserSvc:     services.NewUserService(repos.Users, repos.Customers, tm, revoker, log),
		CustomerSvc: services.NewCustomerService(repos.Customers, auditor, log),
		PurchaseSvc: services.NewPurchaseService(repos.Customers, repos.Transactions, cat, auditor, log,
			services.PurchaseConfig{MaxAttempts: cfg.PurchaseMaxAttempts}),
		QuerySvc:     services.NewQueryService(repos.Customers, repos.Transactions, cat),
		HealthChecks: checks,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env, "packages", len(cat.List()))
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

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
