package services

import (
	"errors"
	"fmt"

	"github.com/baharkarakas/kuota-backend/internal/models"
	repo "github.com/baharkarakas/kuota-backend/internal/repository"
)

var (
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrPackageNotFound     = errors.New("package not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrTxnNotFound         = errors.New("transaction not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrIdempotencyConflict = errors.New("idempotency key reused with a different request")
	ErrValidation          = errors.New("validation failed")

	// ErrInsufficientFunds is the repository sentinel, re-exported so callers
	// only need this package.
	ErrInsufficientFunds = repo.ErrInsufficientFunds
)

// InsufficientFundsError carries the numbers behind a rejected purchase.
type InsufficientFundsError struct {
	CustomerID models.CustomerID
	Balance    int64
	Price      int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: customer %d has %d, needs %d", e.CustomerID, e.Balance, e.Price)
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

func validationErr(err error) error { return fmt.Errorf("%w: %v", ErrValidation, err) }
