package models

import (
	"time"
)

// Tenant statuses
const (
	TenantStatusActive   = "Active"
	TenantStatusInactive = "Inactive"
)

// Tenant is a person associated (or formerly associated) with a unit.
// UnitID is nil for unassigned tenants.
type Tenant struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Phone            string     `json:"phone"`
	Email            *string    `json:"email"`
	Status           string     `json:"status"`
	UnitID           *string    `json:"unitId"`
	Aadhar           *string    `json:"aadhar"`
	Address          *string    `json:"address"`
	ExtraDetails     *string    `json:"extraDetails"`
	EmergencyContact *string    `json:"emergencyContact"`
	DOB              *time.Time `json:"dob"`
	WorkDetails      *string    `json:"workDetails"`
	Gender           *string    `json:"gender"`
	IDImageURL       *string    `json:"idImageUrl"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// IsActive reports whether the tenant currently occupies its unit.
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}
