package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/kuota-backend/internal/models"
	"github.com/baharkarakas/kuota-backend/internal/services"
)

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "Rp 50.000", services.FormatRupiah(50000))
	assert.Equal(t, "Rp 1.250.000", services.FormatRupiah(1250000))
	assert.Equal(t, "Rp 0", services.FormatRupiah(0))
}

func TestQuery_RevenueAndRecent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	budi := f.customer(t, "Budi", 500000)
	siti := f.customer(t, "Siti", 500000)
	svc := f.purchases(t, nil)

	for _, req := range []services.PurchaseRequest{
		{CustomerID: budi.ID, PackageID: 1},
		{CustomerID: siti.ID, PackageID: 2},
		{CustomerID: budi.ID, PackageID: 3},
	} {
		_, err := svc.Purchase(ctx, req)
		require.NoError(t, err)
	}

	q := f.queries()
	rev, err := q.RevenueTotal(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(90000), rev)

	recent, err := q.RecentTransactions(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "Paket Streaming", recent[0].PackageName)
	assert.Equal(t, "Budi", recent[0].CustomerName)
	assert.Equal(t, "Paket Reguler", recent[1].PackageName)
	assert.Greater(t, recent[0].ID, recent[1].ID)

	all, err := q.AllTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Less(t, all[0].ID, all[1].ID)
	assert.Equal(t, "Rp 10.000", all[0].AmountLabel)

	none, err := q.RecentTransactions(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestQuery_DanglingReferencesGetPlaceholders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A row whose customer and package no longer exist.
	ghost, err := f.repos.Transactions.Append(ctx, models.Transaction{
		CustomerID:    404,
		PackageID:     77,
		Amount:        1000,
		Status:        models.TxnCompleted,
		PaymentMethod: models.PayBalance,
	})
	require.NoError(t, err)

	views, err := f.queries().TransactionsForCustomer(ctx, ghost.CustomerID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Customer 404", views[0].CustomerName)
	assert.Equal(t, "Package 77", views[0].PackageName)
}

func TestQuery_DashboardAndSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.customer(t, "Dewi", 200000)
	f.customer(t, "Rudi", 0)
	svc := f.purchases(t, nil)

	for i := 0; i < 6; i++ {
		_, err := svc.Purchase(ctx, services.PurchaseRequest{CustomerID: c.ID, PackageID: 1})
		require.NoError(t, err)
	}

	q := f.queries()
	d, err := q.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, d.TotalCustomers)
	assert.Equal(t, 6, d.TotalTransactions)
	assert.Equal(t, 4, d.TotalPackages)
	assert.Equal(t, int64(60000), d.Revenue)
	assert.Equal(t, "Rp 60.000", d.RevenueLabel)
	assert.Len(t, d.Recent, 5)

	sum, err := q.CustomerSummary(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, sum.TransactionCount)
	assert.Equal(t, int64(60000), sum.TotalSpent)
	assert.Equal(t, "Rp 140.000", sum.BalanceLabel)
	assert.NotNil(t, sum.LastTransactionAt)

	_, err = q.CustomerSummary(ctx, c.ID+100)
	assert.ErrorIs(t, err, services.ErrCustomerNotFound)
}
