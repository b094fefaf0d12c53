package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	repo "github.com/baharkarakas/kuota-backend/internal/repository"
)

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repo.ErrNotFound
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		switch {
		case se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked:
			return fmt.Errorf("%w: %w", repo.ErrConcurrentModification, err)
		case se.ExtendedCode == sqlite3.ErrConstraintUnique:
			if strings.Contains(se.Error(), "transactions.idempotency_key") {
				return fmt.Errorf("%w: %w", repo.ErrDuplicateIdempotencyKey, err)
			}
			return fmt.Errorf("%w: %w", repo.ErrConflict, err)
		case se.ExtendedCode == sqlite3.ErrConstraintCheck:
			return fmt.Errorf("%w: %w", repo.ErrInsufficientFunds, err)
		case se.Code == sqlite3.ErrCantOpen || se.Code == sqlite3.ErrIoErr:
			return fmt.Errorf("%w: %w", repo.ErrStoreUnavailable, err)
		}
	}
	if errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %w", repo.ErrStoreUnavailable, err)
	}
	return err
}
