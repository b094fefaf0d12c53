package repository

import (
	"context"

	"github.com/baharkarakas/kuota-backend/internal/models"
)

type Customers interface {
	Create(ctx context.Context, c models.Customer) (models.Customer, error)
	GetByID(ctx context.Context, id models.CustomerID) (models.Customer, error)
	List(ctx context.Context) ([]models.Customer, error)
	// UpdateProfile writes the non-balance fields.
	UpdateProfile(ctx context.Context, c models.Customer) (models.Customer, error)
	// SetBalance overwrites the balance. It is the administrative override
	// and bypasses the purchase path on purpose.
	SetBalance(ctx context.Context, id models.CustomerID, balance int64) (models.Customer, error)
	Delete(ctx context.Context, id models.CustomerID) error
	// AdjustBalance applies delta in a single conditional statement and fails
	// with ErrInsufficientFunds instead of going below zero.
	AdjustBalance(ctx context.Context, id models.CustomerID, delta int64) (models.Customer, error)
}

// TransactionFilter narrows List. A zero CustomerID means all customers.
type TransactionFilter struct {
	CustomerID models.CustomerID
}

type Transactions interface {
	Append(ctx context.Context, t models.Transaction) (models.Transaction, error)
	GetByID(ctx context.Context, id models.TransactionID) (models.Transaction, error)
	// List returns rows ordered by id ascending.
	List(ctx context.Context, f TransactionFilter) ([]models.Transaction, error)

	// WithTx runs fn inside one database transaction. Nothing fn wrote is
	// visible unless it returns nil and the commit succeeds.
	WithTx(ctx context.Context, fn func(LedgerTx) error) error
}

// LedgerTx is the write surface available inside WithTx.
type LedgerTx interface {
	// LockCustomer reads the customer and holds exclusive access to the row
	// until the surrounding transaction ends.
	LockCustomer(ctx context.Context, id models.CustomerID) (models.Customer, error)
	AdjustBalance(ctx context.Context, id models.CustomerID, delta int64) (models.Customer, error)
	AppendTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error)
	TransactionByIdempotencyKey(ctx context.Context, key string) (models.Transaction, error)
}

type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id models.UserID) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type AuditLogs interface {
	Create(ctx context.Context, l models.AuditLog) error
	List(ctx context.Context, entityType string, limit int) ([]models.AuditLog, error)
}

type Repositories struct {
	Customers    Customers
	Transactions Transactions
	Users        Users
	AuditLogs    AuditLogs
}
