package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	repo "github.com/baharkarakas/kuota-backend/internal/repository"
)

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx so the same queries
// serve plain reads and transactional writes.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func NewRepositories(pool *pgxpool.Pool) repo.Repositories {
	return repo.Repositories{
		Customers:    &customersRepo{db: pool},
		Transactions: &transactionsRepo{pool: pool},
		Users:        &usersRepo{pool: pool},
		AuditLogs:    &auditLogsRepo{pool: pool},
	}
}
