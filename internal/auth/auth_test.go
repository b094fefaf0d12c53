package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/kuota-backend/internal/models"
)

func testUser() models.User {
	cid := models.CustomerID(42)
	return models.User{ID: 7, Username: "budi", Role: models.RoleCustomer, CustomerID: &cid}
}

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("acc", "ref", "kuota-test", time.Minute, time.Hour)

	pair, err := tm.GeneratePair(testUser())
	require.NoError(t, err)

	claims, err := tm.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.UserID(7), claims.UserID)
	assert.Equal(t, models.RoleCustomer, claims.Role)
	require.NotNil(t, claims.CustomerID)
	assert.Equal(t, models.CustomerID(42), *claims.CustomerID)
	assert.NotEmpty(t, claims.ID)

	refresh, err := tm.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, claims.ID, refresh.ID)
}

func TestTokenManager_RejectsWrongKindAndIssuer(t *testing.T) {
	tm := NewTokenManager("acc", "ref", "kuota-test", time.Minute, time.Hour)
	pair, err := tm.GeneratePair(testUser())
	require.NoError(t, err)

	_, err = tm.ParseAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = tm.ParseRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewTokenManager("acc", "ref", "someone-else", time.Minute, time.Hour)
	_, err = other.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tm.ParseAccess("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Expired(t *testing.T) {
	tm := NewTokenManager("acc", "ref", "kuota-test", -time.Minute, time.Hour)
	pair, err := tm.GeneratePair(testUser())
	require.NoError(t, err)

	_, err = tm.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("rahasia")
	require.NoError(t, err)
	assert.NoError(t, VerifyPassword("rahasia", hash))
	assert.Error(t, VerifyPassword("salah", hash))
}

func TestMemoryRevoker(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewMemoryRevoker()
	r.now = func() time.Time { return now }

	require.NoError(t, r.Revoke(ctx, "jti-1", now.Add(time.Minute)))
	require.NoError(t, r.Revoke(ctx, "jti-old", now.Add(-time.Minute)))

	revoked, err := r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, _ = r.IsRevoked(ctx, "jti-old")
	assert.False(t, revoked, "already expired tokens are not stored")

	now = now.Add(2 * time.Minute)
	revoked, _ = r.IsRevoked(ctx, "jti-1")
	assert.False(t, revoked)
}
