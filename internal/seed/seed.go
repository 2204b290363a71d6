// Package seed loads a small demo portfolio into an empty store.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/shanteshgogi/Property-Manager/internal/storage"
	"github.com/shanteshgogi/Property-Manager/internal/storage/models"
)

func date(s string, loc *time.Location) *time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		panic(err)
	}
	return &t
}

func str(s string) *string { return &s }

type unitSeed struct {
	property      int
	name          string
	rent, deposit int64
	maintenance   int64
	floor         int
	start, end    string
}

var unitSeeds = []unitSeed{
	{0, "A-101", 12000, 15000, 2000, 1, "2024-01-01", "2024-12-31"},
	{0, "A-102", 12000, 15000, 2000, 1, "2024-02-01", "2025-01-31"},
	{0, "B-201", 15000, 18000, 2500, 2, "", ""},
	{1, "101", 18000, 20000, 3000, 1, "2024-03-01", "2025-02-28"},
}

type tenantSeed struct {
	unit                         int // -1 for unassigned
	status, name, phone, email   string
	aadhar, address, extra       string
	emergency, dob, work, gender string
}

var tenantSeeds = []tenantSeed{
	{0, models.TenantStatusActive, "Rajesh Kumar", "+91 9876543210", "rajesh.kumar@email.com",
		"1234 5678 9012", "Chennai, Tamil Nadu", "Family of 4", "+91 9876543211", "1985-05-15", "Software Engineer at Tech Corp", "Male"},
	{1, models.TenantStatusActive, "Priya Sharma", "+91 9876543212", "priya.sharma@email.com",
		"2345 6789 0123", "Mumbai, Maharashtra", "Working professional", "+91 9876543213", "1990-08-22", "Marketing Manager", "Female"},
	{3, models.TenantStatusActive, "Amit Patel", "+91 9876543214", "amit.patel@email.com",
		"3456 7890 1234", "Bangalore, Karnataka", "", "+91 9876543215", "1988-03-10", "Business Owner", "Male"},
	{-1, models.TenantStatusInactive, "Sunita Reddy", "+91 9876543216", "sunita.reddy@email.com",
		"4567 8901 2345", "Hyderabad, Telangana", "Moved to another city", "+91 9876543217", "1992-11-05", "Teacher", "Female"},
}

type transactionSeed struct {
	unit                 int
	name, kind           string
	income               bool
	amount, date, paidBy string
}

var transactionSeeds = []transactionSeed{
	{0, "Monthly Rent - January", models.TransactionTypeRent, true, "12000.00", "2024-01-05", "Rajesh Kumar"},
	{0, "Security Deposit", models.TransactionTypeDeposit, true, "15000.00", "2024-01-01", "Rajesh Kumar"},
	{0, "Plumbing Repair", models.TransactionTypeRepair, false, "3500.00", "2024-01-15", "Property Manager"},
	{1, "Monthly Rent - February", models.TransactionTypeRent, true, "12000.00", "2024-02-05", "Priya Sharma"},
	{0, "Electricity Bill", "Electricity", false, "2200.00", "2024-02-10", "Property Manager"},
	{1, "Water Bill", "Water", false, "800.00", "2024-02-10", "Property Manager"},
}

// Seed loads the demo data with calendar dates taken in loc. It does
// nothing when any property already exists.
func Seed(ctx context.Context, s storage.Store, loc *time.Location, log logrus.FieldLogger) error {
	if loc == nil {
		loc = time.UTC
	}

	existing, err := s.Properties().List(ctx, storage.NewQuery().Take(1))
	if err != nil {
		return fmt.Errorf("checking existing data: %w", err)
	}
	if len(existing) > 0 {
		log.Info("Store already has data, skipping seed")
		return nil
	}

	properties := []*models.Property{
		{Name: "Sunrise Apartments", Address: "123 Main Street, Downtown"},
		{Name: "Green Valley Complex", Address: "456 Oak Avenue, Westside"},
	}
	for _, p := range properties {
		if err := s.Properties().Create(ctx, p); err != nil {
			return fmt.Errorf("seeding property %s: %w", p.Name, err)
		}
	}

	units := make([]*models.Unit, 0, len(unitSeeds))
	for _, us := range unitSeeds {
		u := &models.Unit{
			PropertyID:  properties[us.property].ID,
			Name:        us.name,
			Rent:        us.rent,
			Deposit:     us.deposit,
			Maintenance: us.maintenance,
			Floor:       us.floor,
		}
		if us.start != "" {
			u.ContractStart, u.ContractEnd = date(us.start, loc), date(us.end, loc)
		}
		if err := s.Units().Create(ctx, u); err != nil {
			return fmt.Errorf("seeding unit %s: %w", us.name, err)
		}
		units = append(units, u)
	}

	for _, ts := range tenantSeeds {
		t := &models.Tenant{
			Name:             ts.name,
			Phone:            ts.phone,
			Email:            str(ts.email),
			Status:           ts.status,
			Aadhar:           str(ts.aadhar),
			Address:          str(ts.address),
			EmergencyContact: str(ts.emergency),
			DOB:              date(ts.dob, loc),
			WorkDetails:      str(ts.work),
			Gender:           str(ts.gender),
		}
		if ts.extra != "" {
			t.ExtraDetails = str(ts.extra)
		}
		if ts.unit >= 0 {
			t.UnitID = &units[ts.unit].ID
		}
		if err := s.Tenants().Create(ctx, t); err != nil {
			return fmt.Errorf("seeding tenant %s: %w", ts.name, err)
		}
	}

	for _, xs := range transactionSeeds {
		t := &models.Transaction{
			Name:            xs.name,
			TransactionType: xs.kind,
			IsIncome:        xs.income,
			Amount:          decimal.RequireFromString(xs.amount),
			Date:            *date(xs.date, loc),
			PaidBy:          str(xs.paidBy),
			UnitID:          units[xs.unit].ID,
		}
		if err := s.Transactions().Create(ctx, t); err != nil {
			return fmt.Errorf("seeding transaction %s: %w", xs.name, err)
		}
	}

	logs := []models.ActivityLog{
		{EntityType: models.EntityUnit, EntityID: units[0].ID, Action: models.ActionTenantAdded, Message: "Tenant Rajesh Kumar added to unit A-101"},
		{EntityType: models.EntityUnit, EntityID: units[0].ID, Action: models.ActionTransactionAdded, Message: "Security deposit of ₹15,000 received"},
		{EntityType: models.EntityUnit, EntityID: units[1].ID, Action: models.ActionTenantAdded, Message: "Tenant Priya Sharma added to unit A-102"},
		{EntityType: models.EntityProperty, EntityID: properties[0].ID, Action: models.ActionUnitAdded, Message: "New unit B-201 added"},
	}
	for i := range logs {
		if err := s.ActivityLogs().Create(ctx, &logs[i]); err != nil {
			return fmt.Errorf("seeding activity log: %w", err)
		}
	}

	log.WithFields(logrus.Fields{
		"properties":   len(properties),
		"units":        len(units),
		"tenants":      len(tenantSeeds),
		"transactions": len(transactionSeeds),
	}).Info("Seeded demo data")
	return nil
}
