package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/kuota-backend/internal/api/handlers"
	"github.com/baharkarakas/kuota-backend/internal/api/httpx"
	"github.com/baharkarakas/kuota-backend/internal/auth"
	"github.com/baharkarakas/kuota-backend/internal/catalog"
	"github.com/baharkarakas/kuota-backend/internal/config"
	"github.com/baharkarakas/kuota-backend/internal/metrics"
	"github.com/baharkarakas/kuota-backend/internal/middleware"
	"github.com/baharkarakas/kuota-backend/internal/models"
	"github.com/baharkarakas/kuota-backend/internal/services"
)

type RouterDeps struct {
	Cfg          config.Config
	Log          *slog.Logger
	TM           *auth.TokenManager
	Catalog      catalog.Catalog
	UserSvc      *services.UserService
	CustomerSvc  *services.CustomerService
	PurchaseSvc  *services.PurchaseService
	QuerySvc     *services.QueryService
	HealthChecks []func(context.Context) error
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.Logging(d.Log), middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Idempotency-Key", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
	}))

	r.Get("/health", health(d.HealthChecks))
	r.Handle("/metrics", metrics.Handler())

	authMW := middleware.NewAuthMiddleware(d.TM, d.UserSvc)
	ah := handlers.NewAuthHandler(d.UserSvc)
	pkgs := handlers.NewPackageHandler(d.Catalog)
	ch := handlers.NewCustomerHandler(d.CustomerSvc, d.QuerySvc)
	ph := handlers.NewPurchaseHandler(d.PurchaseSvc, d.QuerySvc)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(d.Cfg.RateRPS))

		r.Post("/auth/login", ah.Login)
		r.Post("/auth/refresh", ah.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(authMW.Auth)

			r.Post("/auth/logout", ah.Logout)
			r.Get("/packages", pkgs.List)
			r.Get("/packages/{id}", pkgs.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleCustomer))
				r.Get("/me", ph.Me)
				r.Get("/me/transactions", ph.MyTransactions)
				r.Post("/purchases", ph.Purchase)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin))
				r.Get("/customers", ch.List)
				r.Post("/customers", ch.Create)
				r.Get("/customers/{id}", ch.Get)
				r.Put("/customers/{id}", ch.Update)
				r.Delete("/customers/{id}", ch.Delete)
				r.Get("/transactions", ph.ListAll)
				r.Get("/transactions/{id}", ph.Get)
				r.Post("/transactions", ph.AdminPurchase)
				r.Get("/dashboard", ph.Dashboard)
			})
		})
	})

	return r
}

func health(checks []func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		for _, check := range checks {
			if err := check(ctx); err != nil {
				httpx.WriteError(w, http.StatusServiceUnavailable, "unavailable", err.Error(), nil)
				return
			}
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
