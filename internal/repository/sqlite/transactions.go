package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/baharkarakas/kuota-backend/internal/models"
	repo "github.com/baharkarakas/kuota-backend/internal/repository"
)

type transactionsRepo struct{ db *sql.DB }

const txnCols = `id, customer_id, package_id, amount, status, payment_method, COALESCE(idempotency_key, ''), created_at`

func scanTxn(row scanner) (models.Transaction, error) {
	var (
		t       models.Transaction
		created string
	)
	if err := row.Scan(&t.ID, &t.CustomerID, &t.PackageID, &t.Amount, &t.Status, &t.PaymentMethod, &t.IdempotencyKey, &created); err != nil {
		return models.Transaction{}, mapErr(err)
	}
	ts, err := parseTime(created)
	if err != nil {
		return models.Transaction{}, err
	}
	t.CreatedAt = ts
	return t, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func appendTxn(ctx context.Context, db queryer, t models.Transaction) (models.Transaction, error) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	return scanTxn(db.QueryRowContext(ctx,
		`INSERT INTO transactions(customer_id, package_id, amount, status, payment_method, idempotency_key, created_at)
		 VALUES(?,?,?,?,?,?,?)
		 RETURNING `+txnCols,
		t.CustomerID, t.PackageID, t.Amount, t.Status, t.PaymentMethod, nullable(t.IdempotencyKey), formatTime(t.CreatedAt),
	))
}

func (r *transactionsRepo) Append(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	return appendTxn(ctx, r.db, t)
}

func (r *transactionsRepo) GetByID(ctx context.Context, id models.TransactionID) (models.Transaction, error) {
	return scanTxn(r.db.QueryRowContext(ctx, `SELECT `+txnCols+` FROM transactions WHERE id=?`, id))
}

func (r *transactionsRepo) List(ctx context.Context, f repo.TransactionFilter) ([]models.Transaction, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if f.CustomerID != 0 {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+txnCols+` FROM transactions WHERE customer_id=? ORDER BY id`, f.CustomerID)
	} else {
		rows, err = r.db.QueryContext(ctx, `SELECT `+txnCols+` FROM transactions ORDER BY id`)
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
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr(err)
	}
	if err := fn(&ledgerTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return mapErr(tx.Commit())
}

type ledgerTx struct{ tx *sql.Tx }

// LockCustomer is a plain read: the immediate transaction already holds the
// database write lock.
func (l *ledgerTx) LockCustomer(ctx context.Context, id models.CustomerID) (models.Customer, error) {
	return (&customersRepo{db: l.tx}).GetByID(ctx, id)
}

func (l *ledgerTx) AdjustBalance(ctx context.Context, id models.CustomerID, delta int64) (models.Customer, error) {
	return (&customersRepo{db: l.tx}).AdjustBalance(ctx, id, delta)
}

func (l *ledgerTx) AppendTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	return appendTxn(ctx, l.tx, t)
}

func (l *ledgerTx) TransactionByIdempotencyKey(ctx context.Context, key string) (models.Transaction, error) {
	return scanTxn(l.tx.QueryRowContext(ctx, `SELECT `+txnCols+` FROM transactions WHERE idempotency_key=?`, key))
}
