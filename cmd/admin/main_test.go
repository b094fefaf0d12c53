package main

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/kuota-backend/internal/logger"
	"github.com/baharkarakas/kuota-backend/internal/repository/sqlite"
)

func TestSeed_Idempotent(t *testing.T) {
	store, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()
	r := store.Repositories()
	ctx := context.Background()
	log := logger.NewWithWriter("test", io.Discard)

	var out bytes.Buffer
	require.NoError(t, seed(ctx, r, log, &out))
	assert.Contains(t, out.String(), "Rp 150.000")

	out.Reset()
	require.NoError(t, seed(ctx, r, log, &out))
	assert.Contains(t, out.String(), "admin exists")

	customers, err := r.Customers.List(ctx)
	require.NoError(t, err)
	assert.Len(t, customers, len(demo))

	users, err := r.Users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, len(demo)+1)
}
