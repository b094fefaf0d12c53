package middleware

import (
	"context"
	"time"

	"github.com/baharkarakas/kuota-backend/internal/models"
)

type userKey struct{}

// UserCtx is the authenticated caller, as re-read from the store for this request.
type UserCtx struct {
	UserID     models.UserID
	Username   string
	Role       models.Role
	CustomerID *models.CustomerID
	TokenID    string
	TokenExp   time.Time
}

func WithUser(ctx context.Context, u UserCtx) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

func FromCtx(ctx context.Context) (UserCtx, bool) {
	u, ok := ctx.Value(userKey{}).(UserCtx)
	return u, ok
}
