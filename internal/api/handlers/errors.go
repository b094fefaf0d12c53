package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/kuota-backend/internal/api/httpx"
	"github.com/baharkarakas/kuota-backend/internal/api/validate"
	"github.com/baharkarakas/kuota-backend/internal/middleware"
	"github.com/baharkarakas/kuota-backend/internal/models"
	repo "github.com/baharkarakas/kuota-backend/internal/repository"
	"github.com/baharkarakas/kuota-backend/internal/services"
)

// writeErr maps service and store errors onto the JSON error envelope.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verrs validate.Errs
		insuf *services.InsufficientFundsError
	)
	switch {
	case errors.As(err, &verrs):
		httpx.WriteError(w, http.StatusBadRequest, "validation_error", "validation failed", verrs)
	case errors.As(err, &insuf):
		httpx.WriteError(w, http.StatusUnprocessableEntity, "insufficient_funds", "insufficient balance", map[string]int64{
			"balance": insuf.Balance,
			"price":   insuf.Price,
		})
	case errors.Is(err, models.ErrInvalidID):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_id", err.Error(), nil)
	case errors.Is(err, services.ErrValidation):
		httpx.WriteError(w, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, services.ErrCustomerNotFound),
		errors.Is(err, services.ErrPackageNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTxnNotFound),
		errors.Is(err, repo.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, services.ErrIdempotencyConflict):
		httpx.WriteError(w, http.StatusConflict, "idempotency_conflict", err.Error(), nil)
	case errors.Is(err, repo.ErrConflict):
		httpx.WriteError(w, http.StatusConflict, "conflict", "resource already exists", nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", err.Error(), nil)
	case errors.Is(err, repo.ErrStoreUnavailable), errors.Is(err, repo.ErrConcurrentModification):
		slog.Warn("store unavailable", "err", err, "request_id", middleware.RequestIDFrom(r.Context()))
		httpx.WriteError(w, http.StatusServiceUnavailable, "unavailable", "try again later", nil)
	default:
		slog.Error("request failed", "err", err, "path", r.URL.Path, "request_id", middleware.RequestIDFrom(r.Context()))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}

func badRequest(w http.ResponseWriter, err error) {
	httpx.WriteError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
}

// decode reads and validates the request body.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(r, dst); err != nil {
		badRequest(w, err)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeErr(w, r, err)
		return false
	}
	return true
}

func customerIDParam(r *http.Request) (models.CustomerID, error) {
	return models.ParseCustomerID(chi.URLParam(r, "id"))
}

func actor(r *http.Request) string {
	if u, ok := middleware.FromCtx(r.Context()); ok {
		return u.Username
	}
	return ""
}
