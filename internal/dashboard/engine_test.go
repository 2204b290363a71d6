package dashboard

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanteshgogi/Property-Manager/internal/storage"
	"github.com/shanteshgogi/Property-Manager/internal/storage/document"
	"github.com/shanteshgogi/Property-Manager/internal/storage/models"
)

type fixture struct {
	store  storage.Store
	engine *Engine
	p, q   *models.Property
	empty  *models.Property
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	s, err := document.Open(filepath.Join(t.TempDir(), "dash.bolt"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	f := &fixture{store: s}
	f.engine = NewEngine(s, time.UTC)
	f.engine.now = func() time.Time { return time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC) }

	f.p = &models.Property{Name: "Sunrise Apartments", Address: "123 Main Street"}
	f.q = &models.Property{Name: "Green Valley Complex", Address: "456 Oak Avenue"}
	f.empty = &models.Property{Name: "Empty Lot", Address: "nowhere"}
	for _, p := range []*models.Property{f.p, f.q, f.empty} {
		require.NoError(t, s.Properties().Create(ctx, p))
	}

	unit := func(propertyID, name string) *models.Unit {
		u := &models.Unit{PropertyID: propertyID, Name: name}
		require.NoError(t, s.Units().Create(ctx, u))
		return u
	}
	a, b, c := unit(f.p.ID, "A-101"), unit(f.p.ID, "A-102"), unit(f.p.ID, "B-201")
	d := unit(f.q.ID, "101")

	tenant := func(unitID, status string) {
		require.NoError(t, s.Tenants().Create(ctx, &models.Tenant{Name: "t", Phone: "1", Status: status, UnitID: &unitID}))
	}
	tenant(a.ID, models.TenantStatusActive)
	tenant(a.ID, models.TenantStatusActive)
	tenant(b.ID, models.TenantStatusActive)
	tenant(c.ID, models.TenantStatusInactive)

	tx := func(unitID, amount string, income bool, date time.Time) {
		require.NoError(t, s.Transactions().Create(ctx, &models.Transaction{
			Name:            "tx",
			TransactionType: models.TransactionTypeOther,
			IsIncome:        income,
			Amount:          decimal.RequireFromString(amount),
			Date:            date,
			UnitID:          unitID,
		}))
	}
	tx(a.ID, "100.10", true, day(2024, time.June, 1))
	tx(a.ID, "200.20", true, day(2024, time.May, 10))
	tx(a.ID, "5", true, day(2023, time.December, 31))
	tx(b.ID, "50.05", false, day(2024, time.January, 31))
	tx(d.ID, "1000", true, day(2024, time.June, 2))

	return f
}

func TestStatsForProperty(t *testing.T) {
	f := newFixture(t)

	stats, err := f.engine.Stats(context.Background(), Filter{PropertyID: f.p.ID})
	require.NoError(t, err)

	assert.Equal(t, "305.3", stats.TotalIncome.String())
	assert.Equal(t, "50.05", stats.TotalExpense.String())
	assert.Equal(t, "255.25", stats.NetBalance.String())
	assert.True(t, stats.TotalIncome.Sub(stats.TotalExpense).Equal(stats.NetBalance))

	assert.Equal(t, 3, stats.TotalUnits)
	assert.Equal(t, 2, stats.OccupiedUnits, "two active tenants in one unit count once")
	assert.Equal(t, 67, stats.OccupancyRate)

	require.Len(t, stats.Monthly, MonthsInSeries)
	labels := make([]string, 0, len(stats.Monthly))
	for _, m := range stats.Monthly {
		labels = append(labels, m.Month)
		assert.Equal(t, 2024, m.Year)
	}
	assert.Equal(t, []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}, labels)
	assert.Equal(t, "50.05", stats.Monthly[0].Expense.String())
	assert.True(t, stats.Monthly[1].Income.IsZero())
	assert.Equal(t, "200.2", stats.Monthly[4].Income.String())
	assert.Equal(t, "100.1", stats.Monthly[5].Income.String())
}

func TestStatsDateRangeIsInclusive(t *testing.T) {
	f := newFixture(t)
	start, end := day(2024, time.May, 10), day(2024, time.June, 1)

	stats, err := f.engine.Stats(context.Background(), Filter{PropertyID: f.p.ID, StartDate: &start, EndDate: &end})
	require.NoError(t, err)

	assert.Equal(t, "300.3", stats.TotalIncome.String())
	assert.True(t, stats.TotalExpense.IsZero())
	assert.Equal(t, "50.05", stats.Monthly[0].Expense.String(), "series ignores the date range")
}

func TestStatsWithoutScope(t *testing.T) {
	f := newFixture(t)

	stats, err := f.engine.Stats(context.Background(), Filter{})
	require.NoError(t, err)

	assert.Equal(t, "1305.3", stats.TotalIncome.String())
	assert.Equal(t, 4, stats.TotalUnits)
	assert.Equal(t, 2, stats.OccupiedUnits)
	assert.Equal(t, 50, stats.OccupancyRate)
	assert.Equal(t, "1100.1", stats.Monthly[5].Income.String())
}

func TestStatsEmptyPropertyShortCircuits(t *testing.T) {
	f := newFixture(t)

	stats, err := f.engine.Stats(context.Background(), Filter{PropertyID: f.empty.ID})
	require.NoError(t, err)

	assert.True(t, stats.TotalIncome.IsZero())
	assert.True(t, stats.TotalExpense.IsZero())
	assert.True(t, stats.NetBalance.IsZero())
	assert.Zero(t, stats.OccupancyRate)
	assert.Zero(t, stats.TotalUnits)
	require.Len(t, stats.Monthly, MonthsInSeries)
	for _, m := range stats.Monthly {
		assert.True(t, m.Income.IsZero())
		assert.True(t, m.Expense.IsZero())
	}
}

func TestStatsSumsExactly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := &models.Unit{PropertyID: f.empty.ID, Name: "X"}
	require.NoError(t, f.store.Units().Create(ctx, u))
	for _, amount := range []string{"0.1", "0.2"} {
		require.NoError(t, f.store.Transactions().Create(ctx, &models.Transaction{
			Name: "tx", TransactionType: models.TransactionTypeOther, IsIncome: true,
			Amount: decimal.RequireFromString(amount), Date: day(2024, time.June, 3), UnitID: u.ID,
		}))
	}

	stats, err := f.engine.Stats(ctx, Filter{PropertyID: f.empty.ID})
	require.NoError(t, err)
	assert.Equal(t, "0.3", stats.TotalIncome.String())
	assert.Equal(t, "0.3", stats.NetBalance.String())
}

func TestStatsBucketsByConfiguredLocation(t *testing.T) {
	ctx := context.Background()
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	s, err := document.Open(filepath.Join(t.TempDir(), "ny.bolt"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	e := NewEngine(s, ny)
	e.now = func() time.Time { return time.Date(2024, time.June, 15, 12, 0, 0, 0, ny) }
	assert.Equal(t, ny, e.Location())

	p := &models.Property{Name: "Harbor View", Address: "1 Pier"}
	require.NoError(t, s.Properties().Create(ctx, p))
	u := &models.Unit{PropertyID: p.ID, Name: "1A"}
	require.NoError(t, s.Units().Create(ctx, u))

	rent := func(amount string, date time.Time) {
		require.NoError(t, s.Transactions().Create(ctx, &models.Transaction{
			Name: "Rent", TransactionType: models.TransactionTypeRent, IsIncome: true,
			Amount: decimal.RequireFromString(amount), Date: date, UnitID: u.ID,
		}))
	}
	// Midnight on the 1st local time is 04:00 UTC; late on the 31st local is already June in UTC.
	rent("100", time.Date(2024, time.June, 1, 0, 0, 0, 0, ny))
	rent("7", time.Date(2024, time.May, 31, 23, 30, 0, 0, ny))

	stats, err := e.Stats(ctx, Filter{PropertyID: p.ID})
	require.NoError(t, err)
	require.Len(t, stats.Monthly, MonthsInSeries)
	assert.Equal(t, "May", stats.Monthly[4].Month)
	assert.Equal(t, "7", stats.Monthly[4].Income.String())
	assert.Equal(t, "Jun", stats.Monthly[5].Month)
	assert.Equal(t, "100", stats.Monthly[5].Income.String())

	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, ny)
	end := time.Date(2024, time.June, 30, 0, 0, 0, 0, ny)
	stats, err = e.Stats(ctx, Filter{PropertyID: p.ID, StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	assert.Equal(t, "100", stats.TotalIncome.String(), "bounds are local calendar days")
}

func TestMonthsCrossYearBoundary(t *testing.T) {
	points, start := months(time.Date(2024, time.February, 29, 23, 0, 0, 0, time.UTC))

	assert.Equal(t, day(2023, time.September, 1), start)
	require.Len(t, points, MonthsInSeries)
	assert.Equal(t, MonthlyPoint{Month: "Sep", Year: 2023, Income: decimal.Zero, Expense: decimal.Zero}, points[0])
	assert.Equal(t, "Feb", points[5].Month)
	assert.Equal(t, 2024, points[5].Year)
}

func TestOccupancyRate(t *testing.T) {
	assert.Equal(t, 0, occupancyRate(0, 0))
	assert.Equal(t, 0, occupancyRate(0, 5))
	assert.Equal(t, 50, occupancyRate(1, 2))
	assert.Equal(t, 33, occupancyRate(1, 3))
	assert.Equal(t, 67, occupancyRate(2, 3))
	assert.Equal(t, 100, occupancyRate(4, 4))
}
