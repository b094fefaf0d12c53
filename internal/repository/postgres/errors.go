package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	repo "github.com/baharkarakas/kuota-backend/internal/repository"
)

const idempotencyConstraint = "transactions_idempotency_key_uniq"

// mapErr translates driver errors into repository sentinels, keeping the
// original error in the chain.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repo.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03":
			return fmt.Errorf("%w: %w", repo.ErrConcurrentModification, err)
		case "23505":
			if pgErr.ConstraintName == idempotencyConstraint {
				return fmt.Errorf("%w: %w", repo.ErrDuplicateIdempotencyKey, err)
			}
			return fmt.Errorf("%w: %w", repo.ErrConflict, err)
		case "23514":
			return fmt.Errorf("%w: %w", repo.ErrInsufficientFunds, err)
		case "57P01", "57P02", "57P03", "08000", "08003", "08006":
			return fmt.Errorf("%w: %w", repo.ErrStoreUnavailable, err)
		}
		return err
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return fmt.Errorf("%w: %w", repo.ErrStoreUnavailable, err)
	}
	return err
}
