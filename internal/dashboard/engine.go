// Package dashboard computes the financial and occupancy summary shown on
// the dashboard.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shanteshgogi/Property-Manager/internal/storage"
	"github.com/shanteshgogi/Property-Manager/internal/storage/models"
)

// MonthsInSeries is the length of the trailing monthly series.
const MonthsInSeries = 6

// Filter scopes a Stats computation. Zero values impose no constraint.
// Date bounds are inclusive.
type Filter struct {
	PropertyID string
	StartDate  *time.Time
	EndDate    *time.Time
}

// MonthlyPoint is one calendar month of the trailing series.
type MonthlyPoint struct {
	Month   string          `json:"month"`
	Year    int             `json:"year"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// Stats is the dashboard summary.
type Stats struct {
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpense  decimal.Decimal `json:"totalExpense"`
	NetBalance    decimal.Decimal `json:"netBalance"`
	OccupancyRate int             `json:"occupancyRate"`
	TotalUnits    int             `json:"totalUnits"`
	OccupiedUnits int             `json:"occupiedUnits"`
	Monthly       []MonthlyPoint  `json:"monthly"`
}

// Engine computes Stats from the store.
type Engine struct {
	store storage.Store
	loc   *time.Location
	now   func() time.Time
}

// NewEngine creates an engine. Calendar months are taken in loc.
func NewEngine(store storage.Store, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{store: store, loc: loc, now: time.Now}
}

// Location is the zone calendar months and date-only bounds are taken in.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// Stats computes the summary for f.
func (e *Engine) Stats(ctx context.Context, f Filter) (*Stats, error) {
	now := e.now().In(e.loc)

	unitQuery := storage.NewQuery()
	if f.PropertyID != "" {
		unitQuery = unitQuery.Eq(storage.FieldPropertyID, f.PropertyID)
	}
	units, err := e.store.Units().List(ctx, unitQuery)
	if err != nil {
		return nil, fmt.Errorf("listing units: %w", err)
	}

	// A property with no units has nothing to sum.
	if f.PropertyID != "" && len(units) == 0 {
		return emptyStats(now), nil
	}

	scope := storage.NewQuery()
	if f.PropertyID != "" {
		ids := make([]string, 0, len(units))
		for _, u := range units {
			ids = append(ids, u.ID)
		}
		scope = scope.In(storage.FieldUnitID, ids)
	}

	stats := &Stats{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		TotalUnits:   len(units),
	}

	totalsQuery := scope
	if f.StartDate != nil {
		totalsQuery = totalsQuery.Gte(storage.FieldDate, *f.StartDate)
	}
	if f.EndDate != nil {
		totalsQuery = totalsQuery.Lte(storage.FieldDate, *f.EndDate)
	}
	transactions, err := e.store.Transactions().List(ctx, totalsQuery)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	stats.TotalIncome, stats.TotalExpense = sum(transactions)
	stats.NetBalance = stats.TotalIncome.Sub(stats.TotalExpense)

	stats.OccupiedUnits, err = e.occupiedUnits(ctx, units)
	if err != nil {
		return nil, err
	}
	stats.OccupancyRate = occupancyRate(stats.OccupiedUnits, stats.TotalUnits)

	stats.Monthly, err = e.monthly(ctx, scope, now)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// occupiedUnits counts distinct units referenced by at least one active tenant.
func (e *Engine) occupiedUnits(ctx context.Context, units []models.Unit) (int, error) {
	inScope := make(map[string]bool, len(units))
	for _, u := range units {
		inScope[u.ID] = true
	}

	tenants, err := e.store.Tenants().List(ctx, storage.NewQuery().Eq(storage.FieldStatus, models.TenantStatusActive))
	if err != nil {
		return 0, fmt.Errorf("listing active tenants: %w", err)
	}

	occupied := make(map[string]bool)
	for _, t := range tenants {
		if t.UnitID != nil && inScope[*t.UnitID] {
			occupied[*t.UnitID] = true
		}
	}
	return len(occupied), nil
}

// monthly sums the trailing series. The date range filter does not apply here.
func (e *Engine) monthly(ctx context.Context, scope storage.Query, now time.Time) ([]MonthlyPoint, error) {
	points, start := months(now)
	end := start.AddDate(0, MonthsInSeries, 0)

	transactions, err := e.store.Transactions().List(ctx, scope.
		Gte(storage.FieldDate, start).
		Lt(storage.FieldDate, end))
	if err != nil {
		return nil, fmt.Errorf("listing transactions for monthly series: %w", err)
	}

	for _, t := range transactions {
		d := t.Date.In(now.Location())
		i := (d.Year()-start.Year())*12 + int(d.Month()) - int(start.Month())
		if i < 0 || i >= len(points) {
			continue
		}
		if t.IsIncome {
			points[i].Income = points[i].Income.Add(t.Amount)
		} else {
			points[i].Expense = points[i].Expense.Add(t.Amount)
		}
	}

	return points, nil
}

// months returns zeroed points for the trailing months ending with now's
// month, oldest first, and the first instant of the oldest month.
func months(now time.Time) ([]MonthlyPoint, time.Time) {
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	start := current.AddDate(0, -(MonthsInSeries - 1), 0)

	points := make([]MonthlyPoint, MonthsInSeries)
	for i := range points {
		m := start.AddDate(0, i, 0)
		points[i] = MonthlyPoint{
			Month:   m.Month().String()[:3],
			Year:    m.Year(),
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		}
	}
	return points, start
}

func emptyStats(now time.Time) *Stats {
	points, _ := months(now)
	return &Stats{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		NetBalance:   decimal.Zero,
		Monthly:      points,
	}
}

func sum(transactions []models.Transaction) (income, expense decimal.Decimal) {
	income, expense = decimal.Zero, decimal.Zero
	for _, t := range transactions {
		if t.IsIncome {
			income = income.Add(t.Amount)
		} else {
			expense = expense.Add(t.Amount)
		}
	}
	return income, expense
}

// occupancyRate is round(occupied/total*100) with halves rounded up, 0 when total is 0.
func occupancyRate(occupied, total int) int {
	if total == 0 {
		return 0
	}
	return (occupied*200 + total) / (2 * total)
}
