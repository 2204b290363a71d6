// Package models contains the domain models for the application.
package models

import (
	"time"
)

// Property is the root of ownership: it owns zero or more units.
type Property struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}

// Unit is a single rentable space within a property.
type Unit struct {
	ID            string     `json:"id"`
	PropertyID    string     `json:"propertyId"`
	Name          string     `json:"name"`
	Rent          int64      `json:"rent"`
	Deposit       int64      `json:"deposit"`
	Maintenance   int64      `json:"maintenance"`
	Floor         int        `json:"floor"`
	ContractStart *time.Time `json:"contractStart"`
	ContractEnd   *time.Time `json:"contractEnd"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}
