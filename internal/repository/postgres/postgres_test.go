package postgres_test

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/kuota-backend/internal/db"
	"github.com/baharkarakas/kuota-backend/internal/models"
	repo "github.com/baharkarakas/kuota-backend/internal/repository"
	"github.com/baharkarakas/kuota-backend/internal/repository/postgres"
)

// newRepos connects to TEST_DATABASE_URL. The database is migrated and the
// ledger tables are emptied before each test.
func newRepos(t *testing.T) repo.Repositories {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, url, 8)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.RunMigrations(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE audit_logs, users, transactions, customers RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return postgres.NewRepositories(pool)
}

func TestPostgres_AdjustBalanceGuards(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	c, err := r.Customers.Create(ctx, models.Customer{Name: "Budi", Email: "b@x.id", Balance: 10000})
	require.NoError(t, err)

	_, err = r.Customers.AdjustBalance(ctx, c.ID, -10001)
	assert.ErrorIs(t, err, repo.ErrInsufficientFunds)
	_, err = r.Customers.AdjustBalance(ctx, c.ID+1000, -1)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	got, err := r.Customers.AdjustBalance(ctx, c.ID, -10000)
	require.NoError(t, err)
	assert.Zero(t, got.Balance)
}

func TestPostgres_WithTxSerializesPerCustomer(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	c, err := r.Customers.Create(ctx, models.Customer{Name: "Siti", Email: "s@x.id", Balance: 30000})
	require.NoError(t, err)

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		oks int
	)
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := r.Transactions.WithTx(ctx, func(tx repo.LedgerTx) error {
				cur, err := tx.LockCustomer(ctx, c.ID)
				if err != nil {
					return err
				}
				if cur.Balance < 10000 {
					return repo.ErrInsufficientFunds
				}
				if _, err := tx.AdjustBalance(ctx, c.ID, -10000); err != nil {
					return err
				}
				_, err = tx.AppendTransaction(ctx, models.Transaction{
					CustomerID: c.ID, PackageID: 1, Amount: 10000,
					Status: models.TxnCompleted, PaymentMethod: models.PayBalance,
				})
				return err
			})
			if err == nil {
				mu.Lock()
				oks++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, oks)
	list, err := r.Transactions.List(ctx, repo.TransactionFilter{CustomerID: c.ID})
	require.NoError(t, err)
	assert.Len(t, list, 3)
	got, err := r.Customers.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Balance)
}

func TestPostgres_IdempotencyKeyUnique(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	txn := models.Transaction{
		CustomerID: 1, PackageID: 1, Amount: 1,
		Status: models.TxnCompleted, PaymentMethod: models.PayBalance, IdempotencyKey: "k",
	}
	_, err := r.Transactions.Append(ctx, txn)
	require.NoError(t, err)
	_, err = r.Transactions.Append(ctx, txn)
	assert.ErrorIs(t, err, repo.ErrDuplicateIdempotencyKey)

	txn.IdempotencyKey = ""
	_, err = r.Transactions.Append(ctx, txn)
	require.NoError(t, err)
	_, err = r.Transactions.Append(ctx, txn)
	require.NoError(t, err)
}
