package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/baharkarakas/kuota-backend/internal/api/httpx"
	"github.com/baharkarakas/kuota-backend/internal/auth"
	"github.com/baharkarakas/kuota-backend/internal/models"
	"github.com/baharkarakas/kuota-backend/internal/services"
)

// UserSource resolves token subjects to current users.
type UserSource interface {
	Get(ctx context.Context, id models.UserID) (models.User, error)
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthMiddleware struct {
	TM    *auth.TokenManager
	Users UserSource
}

func NewAuthMiddleware(tm *auth.TokenManager, users UserSource) *AuthMiddleware {
	return &AuthMiddleware{TM: tm, Users: users}
}

// Auth accepts a Bearer access token. The role comes from the stored user,
// so a demoted or deleted account loses access before its token expires.
func (m *AuthMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ah := r.Header.Get("Authorization")
		if len(ah) < 7 || !strings.EqualFold(ah[:7], "bearer ") {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token", nil)
			return
		}
		claims, err := m.TM.ParseAccess(strings.TrimSpace(ah[7:]))
		if err != nil {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid access token", nil)
			return
		}

		revoked, err := m.Users.IsRevoked(r.Context(), claims.ID)
		if err != nil {
			slog.Error("revocation check failed", "err", err, "request_id", RequestIDFrom(r.Context()))
			httpx.WriteError(w, http.StatusServiceUnavailable, "unavailable", "try again later", nil)
			return
		}
		if revoked {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "token revoked", nil)
			return
		}

		u, err := m.Users.Get(r.Context(), claims.UserID)
		if errors.Is(err, services.ErrUserNotFound) {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "unknown user", nil)
			return
		}
		if err != nil {
			slog.Error("load user failed", "err", err, "request_id", RequestIDFrom(r.Context()))
			httpx.WriteError(w, http.StatusServiceUnavailable, "unavailable", "try again later", nil)
			return
		}

		ctx := WithUser(r.Context(), UserCtx{
			UserID:     u.ID,
			Username:   u.Username,
			Role:       u.Role,
			CustomerID: u.CustomerID,
			TokenID:    claims.ID,
			TokenExp:   claims.ExpiresAt.Time,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
