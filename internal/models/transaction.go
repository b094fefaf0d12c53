package models

import "time"

type TransactionStatus string

const (
	TxnPending   TransactionStatus = "pending"
	TxnCompleted TransactionStatus = "completed"
	TxnFailed    TransactionStatus = "failed"
)

type PaymentMethod string

const (
	PayBalance      PaymentMethod = "balance"
	PayCreditCard   PaymentMethod = "credit_card"
	PayBankTransfer PaymentMethod = "bank_transfer"
)

// Transaction is an append-only ledger row. Rows are never updated once written.
type Transaction struct {
	ID             TransactionID     `json:"id"`
	CustomerID     CustomerID        `json:"customer_id"`
	PackageID      PackageID         `json:"package_id"`
	Amount         int64             `json:"amount"`
	Status         TransactionStatus `json:"status"`
	PaymentMethod  PaymentMethod     `json:"payment_method"`
	IdempotencyKey string            `json:"-"`
	CreatedAt      time.Time         `json:"created_at"`
}
