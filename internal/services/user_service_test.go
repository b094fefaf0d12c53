package services_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/kuota-backend/internal/auth"
	"github.com/baharkarakas/kuota-backend/internal/logger"
	"github.com/baharkarakas/kuota-backend/internal/models"
	"github.com/baharkarakas/kuota-backend/internal/services"
)

func TestUserService_LoginRefreshLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tm := auth.NewTokenManager("a-secret", "r-secret", "test", time.Minute, time.Hour)
	svc := services.NewUserService(f.repos.Users, f.repos.Customers, tm, auth.NewMemoryRevoker(), logger.NewWithWriter("test", io.Discard))

	c := f.customer(t, "Budi", 0)
	_, err := svc.CreateUser(ctx, services.CreateUserInput{
		Username: "budi", Password: "rahasia1", Role: models.RoleCustomer, Name: "Budi", CustomerID: &c.ID,
	})
	require.NoError(t, err)

	missing := c.ID + 10
	_, err = svc.CreateUser(ctx, services.CreateUserInput{
		Username: "ghost", Password: "rahasia1", Role: models.RoleCustomer, CustomerID: &missing,
	})
	assert.ErrorIs(t, err, services.ErrCustomerNotFound)

	_, err = svc.CreateUser(ctx, services.CreateUserInput{Username: "shorty", Password: "123", Role: models.RoleAdmin})
	assert.ErrorIs(t, err, services.ErrValidation)

	_, _, err = svc.Login(ctx, "budi", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody", "rahasia1")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	pair, u, err := svc.Login(ctx, "budi", "rahasia1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, u.Role)

	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The old refresh token is spent.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	claims, err := tm.ParseAccess(rotated.AccessToken)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, claims.ID, claims.ExpiresAt.Time, rotated.RefreshToken))

	revoked, err := svc.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
	_, err = svc.Refresh(ctx, rotated.RefreshToken)
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}
