package models

import (
	"time"
)

// Reminder is a system-generated notice of an approaching contract end.
// At most one reminder exists per unit.
type Reminder struct {
	ID          string     `json:"id"`
	UnitID      string     `json:"unitId"`
	Message     string     `json:"message"`
	ContractEnd *time.Time `json:"contractEnd,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Activity log entity types
const (
	EntityProperty    = "property"
	EntityUnit        = "unit"
	EntityTenant      = "tenant"
	EntityTransaction = "transaction"
)

// Activity log actions
const (
	ActionPropertyCreated  = "property_created"
	ActionPropertyUpdated  = "property_updated"
	ActionUnitCreated      = "unit_created"
	ActionUnitAdded        = "unit_added"
	ActionUnitUpdated      = "unit_updated"
	ActionTenantAdded      = "tenant_added"
	ActionTenantMoved      = "tenant_moved"
	ActionTransactionAdded = "transaction_added"
)

// ActivityLog is an append-only audit trail entry.
type ActivityLog struct {
	ID         string    `json:"id"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityId"`
	Action     string    `json:"action"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
}
