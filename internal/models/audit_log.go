package models

import "time"

const (
	AuditPurchaseRejected = "purchase_rejected"
	AuditBalanceOverride  = "balance_override"
	AuditCustomerCreated  = "customer_created"
	AuditCustomerDeleted  = "customer_deleted"
)

type AuditLog struct {
	ID         int64          `json:"id"`
	EntityType string         `json:"entity_type"`
	EntityID   *string        `json:"entity_id"`
	Action     string         `json:"action"`
	Details    map[string]any `json:"details"`
	CreatedAt  time.Time      `json:"created_at"`
}
