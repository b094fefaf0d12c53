package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/baharkarakas/kuota-backend/internal/models"
)

type usersRepo struct{ db *sql.DB }

const userCols = `id, username, password_hash, role, name, customer_id, created_at`

func scanUser(row scanner) (models.User, error) {
	var (
		u       models.User
		created string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.Name, &u.CustomerID, &created); err != nil {
		return models.User{}, mapErr(err)
	}
	t, err := parseTime(created)
	if err != nil {
		return models.User{}, err
	}
	u.CreatedAt = t
	return u, nil
}

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`INSERT INTO users(username, password_hash, role, name, customer_id, created_at)
		 VALUES(?,?,?,?,?,?)
		 RETURNING `+userCols,
		u.Username, u.PasswordHash, u.Role, u.Name, u.CustomerID, formatTime(time.Now()),
	))
}

func (r *usersRepo) GetByID(ctx context.Context, id models.UserID) (models.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE id=?`, id))
}

func (r *usersRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE username=?`, username))
}

func (r *usersRepo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userCols+` FROM users ORDER BY id`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, mapErr(rows.Err())
}
