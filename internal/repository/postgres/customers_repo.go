package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/baharkarakas/kuota-backend/internal/models"
	repo "github.com/baharkarakas/kuota-backend/internal/repository"
)

type customersRepo struct{ db dbtx }

const customerCols = `id, name, email, phone, address, balance, created_at`

func scanCustomer(row pgx.Row) (models.Customer, error) {
	var c models.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.Balance, &c.CreatedAt)
	return c, mapErr(err)
}

func (r *customersRepo) Create(ctx context.Context, c models.Customer) (models.Customer, error) {
	return scanCustomer(r.db.QueryRow(ctx,
		`INSERT INTO customers(name, email, phone, address, balance)
		 VALUES($1,$2,$3,$4,$5)
		 RETURNING `+customerCols,
		c.Name, c.Email, c.Phone, c.Address, c.Balance,
	))
}

func (r *customersRepo) GetByID(ctx context.Context, id models.CustomerID) (models.Customer, error) {
	return scanCustomer(r.db.QueryRow(ctx,
		`SELECT `+customerCols+` FROM customers WHERE id=$1`, id))
}

func (r *customersRepo) List(ctx context.Context) ([]models.Customer, error) {
	rows, err := r.db.Query(ctx, `SELECT `+customerCols+` FROM customers ORDER BY id`)
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
	return scanCustomer(r.db.QueryRow(ctx,
		`UPDATE customers
		    SET name=$2, email=$3, phone=$4, address=$5
		  WHERE id=$1
		  RETURNING `+customerCols,
		c.ID, c.Name, c.Email, c.Phone, c.Address,
	))
}

func (r *customersRepo) SetBalance(ctx context.Context, id models.CustomerID, balance int64) (models.Customer, error) {
	return scanCustomer(r.db.QueryRow(ctx,
		`UPDATE customers SET balance=$2 WHERE id=$1 RETURNING `+customerCols, id, balance))
}

func (r *customersRepo) Delete(ctx context.Context, id models.CustomerID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id=$1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *customersRepo) AdjustBalance(ctx context.Context, id models.CustomerID, delta int64) (models.Customer, error) {
	c, err := scanCustomer(r.db.QueryRow(ctx,
		`UPDATE customers
		    SET balance = balance + $2
		  WHERE id = $1 AND balance + $2 >= 0
		  RETURNING `+customerCols,
		id, delta,
	))
	if !errors.Is(err, repo.ErrNotFound) {
		return c, err
	}
	// no row matched: either the customer is gone or the guard rejected it
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM customers WHERE id=$1)`, id).Scan(&exists); err != nil {
		return models.Customer{}, mapErr(err)
	}
	if exists {
		return models.Customer{}, repo.ErrInsufficientFunds
	}
	return models.Customer{}, repo.ErrNotFound
}

func (r *customersRepo) lock(ctx context.Context, id models.CustomerID) (models.Customer, error) {
	return scanCustomer(r.db.QueryRow(ctx,
		`SELECT `+customerCols+` FROM customers WHERE id=$1 FOR UPDATE`, id))
}
