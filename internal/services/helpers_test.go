package services_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/kuota-backend/internal/catalog"
	"github.com/baharkarakas/kuota-backend/internal/logger"
	"github.com/baharkarakas/kuota-backend/internal/models"
	repo "github.com/baharkarakas/kuota-backend/internal/repository"
	"github.com/baharkarakas/kuota-backend/internal/repository/sqlite"
	"github.com/baharkarakas/kuota-backend/internal/services"
)

type fixture struct {
	repos   repo.Repositories
	catalog *catalog.Static
	auditor *services.Auditor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cat, err := catalog.Load("")
	require.NoError(t, err)

	r := store.Repositories()
	return &fixture{
		repos:   r,
		catalog: cat,
		auditor: services.NewAuditor(r.AuditLogs, nil, logger.NewWithWriter("test", io.Discard)),
	}
}

func (f *fixture) purchases(t *testing.T, txns repo.Transactions) *services.PurchaseService {
	t.Helper()
	if txns == nil {
		txns = f.repos.Transactions
	}
	return services.NewPurchaseService(f.repos.Customers, txns, f.catalog, f.auditor,
		logger.NewWithWriter("test", io.Discard), services.PurchaseConfig{MaxAttempts: 3, Backoff: 1})
}

func (f *fixture) queries() *services.QueryService {
	return services.NewQueryService(f.repos.Customers, f.repos.Transactions, f.catalog)
}

func (f *fixture) customer(t *testing.T, name string, balance int64) models.Customer {
	t.Helper()
	c, err := f.repos.Customers.Create(context.Background(), models.Customer{
		Name:    name,
		Email:   "test@example.com",
		Balance: balance,
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) balance(t *testing.T, id models.CustomerID) int64 {
	t.Helper()
	c, err := f.repos.Customers.GetByID(context.Background(), id)
	require.NoError(t, err)
	return c.Balance
}

func (f *fixture) ledger(t *testing.T, id models.CustomerID) []models.Transaction {
	t.Helper()
	list, err := f.repos.Transactions.List(context.Background(), repo.TransactionFilter{CustomerID: id})
	require.NoError(t, err)
	return list
}
