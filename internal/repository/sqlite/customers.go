package sqlite

import (
	"context"
	"errors"
	"time"

	"github.com/baharkarakas/kuota-backend/internal/models"
	repo "github.com/baharkarakas/kuota-backend/internal/repository"
)

type customersRepo struct{ db queryer }

const customerCols = `id, name, email, phone, address, balance, created_at`

type scanner interface{ Scan(dest ...any) error }

func scanCustomer(row scanner) (models.Customer, error) {
	var (
		c       models.Customer
		created string
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.Balance, &created); err != nil {
		return models.Customer{}, mapErr(err)
	}
	t, err := parseTime(created)
	if err != nil {
		return models.Customer{}, err
	}
	c.CreatedAt = t
	return c, nil
}

func (r *customersRepo) Create(ctx context.Context, c models.Customer) (models.Customer, error) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	return scanCustomer(r.db.QueryRowContext(ctx,
		`INSERT INTO customers(name, email, phone, address, balance, created_at)
		 VALUES(?,?,?,?,?,?)
		 RETURNING `+customerCols,
		c.Name, c.Email, c.Phone, c.Address, c.Balance, formatTime(c.CreatedAt),
	))
}

func (r *customersRepo) GetByID(ctx context.Context, id models.CustomerID) (models.Customer, error) {
	return scanCustomer(r.db.QueryRowContext(ctx, `SELECT `+customerCols+` FROM customers WHERE id=?`, id))
}

func (r *customersRepo) List(ctx context.Context) ([]models.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+customerCols+` FROM customers ORDER BY id`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []models.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, mapErr(rows.Err())
}

func (r *customersRepo) UpdateProfile(ctx context.Context, c models.Customer) (models.Customer, error) {
	return scanCustomer(r.db.QueryRowContext(ctx,
		`UPDATE customers
		    SET name=?, email=?, phone=?, address=?
		  WHERE id=?
		  RETURNING `+customerCols,
		c.Name, c.Email, c.Phone, c.Address, c.ID,
	))
}

func (r *customersRepo) SetBalance(ctx context.Context, id models.CustomerID, balance int64) (models.Customer, error) {
	return scanCustomer(r.db.QueryRowContext(ctx,
		`UPDATE customers SET balance=? WHERE id=? RETURNING `+customerCols, balance, id))
}

func (r *customersRepo) Delete(ctx context.Context, id models.CustomerID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id=?`, id)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *customersRepo) AdjustBalance(ctx context.Context, id models.CustomerID, delta int64) (models.Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx,
		`UPDATE customers
		    SET balance = balance + ?
		  WHERE id = ? AND balance + ? >= 0
		  RETURNING `+customerCols,
		delta, id, delta,
	))
	if !errors.Is(err, repo.ErrNotFound) {
		return c, err
	}
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM customers WHERE id=?)`, id).Scan(&exists); err != nil {
		return models.Customer{}, mapErr(err)
	}
	if exists {
		return models.Customer{}, repo.ErrInsufficientFunds
	}
	return models.Customer{}, repo.ErrNotFound
}
