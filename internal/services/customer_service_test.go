package services_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/kuota-backend/internal/logger"
	"github.com/baharkarakas/kuota-backend/internal/models"
	"github.com/baharkarakas/kuota-backend/internal/services"
)

func ptr[T any](v T) *T { return &v }

func TestCustomerService_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := services.NewCustomerService(f.repos.Customers, f.auditor, logger.NewWithWriter("test", io.Discard))

	_, err := svc.Create(ctx, services.CreateCustomerInput{Name: "", Email: "x"}, "admin")
	assert.ErrorIs(t, err, services.ErrValidation)

	c, err := svc.Create(ctx, services.CreateCustomerInput{
		Name:    "Budi",
		Email:   "budi@example.com",
		Balance: 50000,
	}, "admin")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, c.ID, services.CustomerPatch{Phone: ptr("0811")}, "admin")
	require.NoError(t, err)
	assert.Equal(t, "0811", updated.Phone)
	assert.Equal(t, int64(50000), updated.Balance)

	updated, err = svc.Update(ctx, c.ID, services.CustomerPatch{Balance: ptr(int64(80000))}, "admin")
	require.NoError(t, err)
	assert.Equal(t, int64(80000), updated.Balance)

	_, err = svc.Update(ctx, c.ID, services.CustomerPatch{Balance: ptr(int64(-1))}, "admin")
	assert.ErrorIs(t, err, services.ErrValidation)

	logs, err := f.repos.AuditLogs.List(ctx, "customer", 10)
	require.NoError(t, err)
	actions := make([]string, 0, len(logs))
	for _, l := range logs {
		actions = append(actions, l.Action)
	}
	assert.Equal(t, []string{models.AuditBalanceOverride, models.AuditCustomerCreated}, actions)

	require.NoError(t, svc.Delete(ctx, c.ID, "admin"))
	_, err = svc.Get(ctx, c.ID)
	assert.ErrorIs(t, err, services.ErrCustomerNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, c.ID, "admin"), services.ErrCustomerNotFound)
}
