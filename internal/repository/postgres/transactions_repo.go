package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baharkarakas/kuota-backend/internal/models"
	repo "github.com/baharkarakas/kuota-backend/internal/repository"
)

type transactionsRepo struct{ pool *pgxpool.Pool }

const txnCols = `id, customer_id, package_id, amount, status, payment_method, COALESCE(idempotency_key, ''), created_at`

func scanTxn(row pgx.Row) (models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.CustomerID, &t.PackageID, &t.Amount, &t.Status, &t.PaymentMethod, &t.IdempotencyKey, &t.CreatedAt)
	return t, mapErr(err)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func appendTxn(ctx context.Context, db dbtx, t models.Transaction) (models.Transaction, error) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	return scanTxn(db.QueryRow(ctx,
		`INSERT INTO transactions(customer_id, package_id, amount, status, payment_method, idempotency_key, created_at)
		 VALUES($1,$2,$3,$4,$5,$6,$7)
		 RETURNING `+txnCols,
		t.CustomerID, t.PackageID, t.Amount, t.Status, t.PaymentMethod, nullable(t.IdempotencyKey), t.CreatedAt,
	))
}

func (r *transactionsRepo) Append(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	return appendTxn(ctx, r.pool, t)
}

func (r *transactionsRepo) GetByID(ctx context.Context, id models.TransactionID) (models.Transaction, error) {
	return scanTxn(r.pool.QueryRow(ctx, `SELECT `+txnCols+` FROM transactions WHERE id=$1`, id))
}

func (r *transactionsRepo) List(ctx context.Context, f repo.TransactionFilter) ([]models.Transaction, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if f.CustomerID != 0 {
		rows, err = r.pool.Query(ctx,
			`SELECT `+txnCols+` FROM transactions WHERE customer_id=$1 ORDER BY id`, f.CustomerID)
	} else {
		rows, err = r.pool.Query(ctx, `SELECT `+txnCols+` FROM transactions ORDER BY id`)
	}
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []models.Transaction{}
	for rows.Next() {
		t, err := scanTxn(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, mapErr(rows.Err())
}

func (r *transactionsRepo) WithTx(ctx context.Context, fn func(repo.LedgerTx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return mapErr(err)
	}
	if err := fn(&ledgerTx{tx: tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return mapErr(tx.Commit(ctx))
}

type ledgerTx struct{ tx pgx.Tx }

func (l *ledgerTx) LockCustomer(ctx context.Context, id models.CustomerID) (models.Customer, error) {
	return (&customersRepo{db: l.tx}).lock(ctx, id)
}

func (l *ledgerTx) AdjustBalance(ctx context.Context, id models.CustomerID, delta int64) (models.Customer, error) {
	return (&customersRepo{db: l.tx}).AdjustBalance(ctx, id, delta)
}

func (l *ledgerTx) AppendTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	return appendTxn(ctx, l.tx, t)
}

func (l *ledgerTx) TransactionByIdempotencyKey(ctx context.Context, key string) (models.Transaction, error) {
	return scanTxn(l.tx.QueryRow(ctx, `SELECT `+txnCols+` FROM transactions WHERE idempotency_key=$1`, key))
}
