// Package storetest holds the behavioural test suite every storage.Store
// implementation must pass.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanteshgogi/Property-Manager/internal/storage"
	"github.com/shanteshgogi/Property-Manager/internal/storage/models"
)

// Factory returns a fresh, empty store. The store is closed by the suite.
type Factory func(t *testing.T) storage.Store

// Run executes the suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.Store)
	}{
		{"PropertyCRUD", testPropertyCRUD},
		{"GetMissingReturnsNil", testGetMissing},
		{"UpdateAndDeleteMissing", testUpdateDeleteMissing},
		{"UnitRequiresProperty", testUnitRequiresProperty},
		{"TransactionRequiresUnit", testTransactionRequiresUnit},
		{"DeletePropertyCascades", testDeletePropertyCascades},
		{"DeleteUnitUnassignsTenants", testDeleteUnitUnassignsTenants},
		{"TransactionFilters", testTransactionFilters},
		{"IncomePolicy", testIncomePolicy},
		{"DecimalRoundTrip", testDecimalRoundTrip},
		{"TenantFilters", testTenantFilters},
		{"ContractEndWindow", testContractEndWindow},
		{"ReminderCreateIfAbsent", testReminderCreateIfAbsent},
		{"ActivityLogOrderAndLimit", testActivityLogs},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newStore(t)
			t.Cleanup(func() { s.Close() })
			tc.fn(t, s)
		})
	}
}

func ptr[T any](v T) *T { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustProperty(t *testing.T, s storage.Store, name string) *models.Property {
	t.Helper()
	p := &models.Property{Name: name, Address: "1 Test Road"}
	require.NoError(t, s.Properties().Create(context.Background(), p))
	return p
}

func mustUnit(t *testing.T, s storage.Store, propertyID, name string) *models.Unit {
	t.Helper()
	u := &models.Unit{PropertyID: propertyID, Name: name, Rent: 12000, Deposit: 15000, Maintenance: 2000, Floor: 1}
	require.NoError(t, s.Units().Create(context.Background(), u))
	return u
}

func mustTransaction(t *testing.T, s storage.Store, unitID, amount string, income bool, date time.Time) *models.Transaction {
	t.Helper()
	tx := &models.Transaction{
		Name:            "Payment",
		TransactionType: models.TransactionTypeOther,
		IsIncome:        income,
		Amount:          decimal.RequireFromString(amount),
		Date:            date,
		UnitID:          unitID,
	}
	require.NoError(t, s.Transactions().Create(context.Background(), tx))
	return tx
}

func testPropertyCRUD(t *testing.T, s storage.Store) {
	ctx := context.Background()

	p := mustProperty(t, s, "Sunrise Apartments")
	assert.NotEmpty(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := s.Properties().GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Sunrise Apartments", got.Name)

	got.Name = "Sunset Apartments"
	require.NoError(t, s.Properties().Update(ctx, got))

	list, err := s.Properties().List(ctx, storage.NewQuery())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Sunset Apartments", list[0].Name)

	require.NoError(t, s.Properties().Delete(ctx, p.ID))
	got, err = s.Properties().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func testGetMissing(t *testing.T, s storage.Store) {
	ctx := context.Background()

	u, err := s.Units().GetByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, u)

	tn, err := s.Tenants().GetByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, tn)

	tx, err := s.Transactions().GetByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, tx)
}

func testUpdateDeleteMissing(t *testing.T, s storage.Store) {
	ctx := context.Background()

	err := s.Properties().Update(ctx, &models.Property{ID: "missing", Name: "x", Address: "y"})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, s.Properties().Delete(ctx, "missing"), storage.ErrNotFound)
	assert.ErrorIs(t, s.Units().Delete(ctx, "missing"), storage.ErrNotFound)
	assert.ErrorIs(t, s.Tenants().Delete(ctx, "missing"), storage.ErrNotFound)
	assert.ErrorIs(t, s.Transactions().Delete(ctx, "missing"), storage.ErrNotFound)
}

func testUnitRequiresProperty(t *testing.T, s storage.Store) {
	err := s.Units().Create(context.Background(), &models.Unit{PropertyID: "missing", Name: "A-101"})
	assert.ErrorIs(t, err, storage.ErrInvalidReference)
}

func testTransactionRequiresUnit(t *testing.T, s storage.Store) {
	err := s.Transactions().Create(context.Background(), &models.Transaction{
		Name:            "Rent",
		TransactionType: models.TransactionTypeRent,
		Amount:          decimal.NewFromInt(100),
		Date:            day(2024, time.March, 1),
		UnitID:          "missing",
	})
	assert.ErrorIs(t, err, storage.ErrInvalidReference)
}

func testDeletePropertyCascades(t *testing.T, s storage.Store) {
	ctx := context.Background()

	p := mustProperty(t, s, "Green Valley Complex")
	u := mustUnit(t, s, p.ID, "101")
	tx := mustTransaction(t, s, u.ID, "18000", true, day(2024, time.March, 5))
	created, err := s.Reminders().CreateIfAbsent(ctx, &models.Reminder{UnitID: u.ID, Message: "expiring"})
	require.NoError(t, err)
	require.True(t, created)

	other := mustProperty(t, s, "Other")
	keep := mustUnit(t, s, other.ID, "K-1")

	require.NoError(t, s.Properties().Delete(ctx, p.ID))

	gotUnit, err := s.Units().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, gotUnit)

	gotTx, err := s.Transactions().GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Nil(t, gotTx)

	reminders, err := s.Reminders().List(ctx, storage.NewQuery())
	require.NoError(t, err)
	assert.Empty(t, reminders)

	stillThere, err := s.Units().GetByID(ctx, keep.ID)
	require.NoError(t, err)
	assert.NotNil(t, stillThere)
}

func testDeleteUnitUnassignsTenants(t *testing.T, s storage.Store) {
	ctx := context.Background()

	p := mustProperty(t, s, "P")
	u := mustUnit(t, s, p.ID, "A-101")
	tn := &models.Tenant{Name: "Asha", Phone: "9999", Status: models.TenantStatusActive, UnitID: ptr(u.ID)}
	require.NoError(t, s.Tenants().Create(ctx, tn))

	require.NoError(t, s.Units().Delete(ctx, u.ID))

	got, err := s.Tenants().GetByID(ctx, tn.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.UnitID)
}

func testTransactionFilters(t *testing.T, s storage.Store) {
	ctx := context.Background()

	p := mustProperty(t, s, "P")
	a := mustUnit(t, s, p.ID, "A")
	b := mustUnit(t, s, p.ID, "B")
	mustTransaction(t, s, a.ID, "100", true, day(2024, time.January, 10))
	mustTransaction(t, s, a.ID, "40", false, day(2024, time.February, 10))
	mustTransaction(t, s, b.ID, "60", true, day(2024, time.March, 10))

	all, err := s.Transactions().List(ctx, storage.NewQuery())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].Date.Equal(day(2024, time.March, 10)), "newest first")

	byUnit, err := s.Transactions().List(ctx, storage.NewQuery().Eq(storage.FieldUnitID, a.ID))
	require.NoError(t, err)
	assert.Len(t, byUnit, 2)

	income, err := s.Transactions().List(ctx, storage.NewQuery().Eq(storage.FieldIsIncome, true))
	require.NoError(t, err)
	assert.Len(t, income, 2)

	inclusive, err := s.Transactions().List(ctx, storage.NewQuery().
		Gte(storage.FieldDate, day(2024, time.January, 10)).
		Lte(storage.FieldDate, day(2024, time.February, 10)))
	require.NoError(t, err)
	assert.Len(t, inclusive, 2)

	scoped, err := s.Transactions().List(ctx, storage.NewQuery().In(storage.FieldUnitID, []string{b.ID}))
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, b.ID, scoped[0].UnitID)

	none, err := s.Transactions().List(ctx, storage.NewQuery().In(storage.FieldUnitID, nil))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testIncomePolicy(t *testing.T, s storage.Store) {
	ctx := context.Background()

	p := mustProperty(t, s, "P")
	u := mustUnit(t, s, p.ID, "A")
	tx := &models.Transaction{
		Name:            "March rent",
		TransactionType: models.TransactionTypeRent,
		IsIncome:        false,
		Amount:          decimal.NewFromInt(12000),
		Date:            day(2024, time.March, 1),
		UnitID:          u.ID,
	}
	require.NoError(t, s.Transactions().Create(ctx, tx))

	got, err := s.Transactions().GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.True(t, got.IsIncome)

	got.TransactionType = models.TransactionTypeRepair
	got.IsIncome = false
	require.NoError(t, s.Transactions().Update(ctx, got))

	got, err = s.Transactions().GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.False(t, got.IsIncome)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt) || got.UpdatedAt.Equal(got.CreatedAt))
}

func testDecimalRoundTrip(t *testing.T, s storage.Store) {
	ctx := context.Background()

	p := mustProperty(t, s, "P")
	u := mustUnit(t, s, p.ID, "A")
	tx := mustTransaction(t, s, u.ID, "1234567.89", true, day(2024, time.April, 1))

	got, err := s.Transactions().GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, "1234567.89", got.Amount.StringFixed(2))
}

func testTenantFilters(t *testing.T, s storage.Store) {
	ctx := context.Background()

	p := mustProperty(t, s, "P")
	u := mustUnit(t, s, p.ID, "A")
	require.NoError(t, s.Tenants().Create(ctx, &models.Tenant{Name: "A", Phone: "1", Status: models.TenantStatusActive, UnitID: ptr(u.ID)}))
	require.NoError(t, s.Tenants().Create(ctx, &models.Tenant{Name: "B", Phone: "2", Status: models.TenantStatusInactive, UnitID: ptr(u.ID)}))
	require.NoError(t, s.Tenants().Create(ctx, &models.Tenant{Name: "C", Phone: "3", Status: models.TenantStatusActive}))

	active, err := s.Tenants().List(ctx, storage.NewQuery().Eq(storage.FieldStatus, models.TenantStatusActive))
	require.NoError(t, err)
	assert.Len(t, active, 2)

	inUnit, err := s.Tenants().List(ctx, storage.NewQuery().Eq(storage.FieldUnitID, u.ID))
	require.NoError(t, err)
	assert.Len(t, inUnit, 2)

	both, err := s.Tenants().List(ctx, storage.NewQuery().
		Eq(storage.FieldStatus, models.TenantStatusActive).
		Eq(storage.FieldUnitID, u.ID))
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "A", both[0].Name)
}

func testContractEndWindow(t *testing.T, s storage.Store) {
	ctx := context.Background()

	p := mustProperty(t, s, "P")
	in := &models.Unit{PropertyID: p.ID, Name: "in", ContractEnd: ptr(day(2024, time.June, 10))}
	out := &models.Unit{PropertyID: p.ID, Name: "out", ContractEnd: ptr(day(2024, time.August, 1))}
	none := &models.Unit{PropertyID: p.ID, Name: "none"}
	for _, u := range []*models.Unit{in, out, none} {
		require.NoError(t, s.Units().Create(ctx, u))
	}

	units, err := s.Units().List(ctx, storage.NewQuery().
		NotNull(storage.FieldContractEnd).
		Gte(storage.FieldContractEnd, day(2024, time.June, 1)).
		Lt(storage.FieldContractEnd, day(2024, time.July, 2)))
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "in", units[0].Name)
}

func testReminderCreateIfAbsent(t *testing.T, s storage.Store) {
	ctx := context.Background()

	p := mustProperty(t, s, "P")
	u := mustUnit(t, s, p.ID, "A")

	first := &models.Reminder{UnitID: u.ID, Message: "first"}
	created, err := s.Reminders().CreateIfAbsent(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, first.ID)

	created, err = s.Reminders().CreateIfAbsent(ctx, &models.Reminder{UnitID: u.ID, Message: "second"})
	require.NoError(t, err)
	assert.False(t, created)

	list, err := s.Reminders().List(ctx, storage.NewQuery())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "first", list[0].Message)

	_, err = s.Reminders().CreateIfAbsent(ctx, &models.Reminder{UnitID: "missing", Message: "x"})
	assert.ErrorIs(t, err, storage.ErrInvalidReference)
}

func testActivityLogs(t *testing.T, s storage.Store) {
	ctx := context.Background()

	for i, entity := range []string{"p1", "p1", "p2"} {
		require.NoError(t, s.ActivityLogs().Create(ctx, &models.ActivityLog{
			EntityType: models.EntityProperty,
			EntityID:   entity,
			Action:     models.ActionPropertyUpdated,
			Message:    string(rune('a' + i)),
		}))
		time.Sleep(2 * time.Millisecond)
	}

	logs, err := s.ActivityLogs().List(ctx, storage.NewQuery().Take(2))
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "c", logs[0].Message, "newest first")

	forP1, err := s.ActivityLogs().List(ctx, storage.NewQuery().
		Eq(storage.FieldEntityType, models.EntityProperty).
		Eq(storage.FieldEntityID, "p1"))
	require.NoError(t, err)
	assert.Len(t, forP1, 2)
}
