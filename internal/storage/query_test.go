package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testColumns = NewSQLBuilder(map[string]string{
	FieldUnitID:   "unit_id",
	FieldIsIncome: "is_income",
	FieldDate:     "date",
})

func TestSQLBuilderBuild(t *testing.T) {
	start := time.Date(2024, time.January, 1, 5, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))

	clause, args, err := testColumns.Build(NewQuery().
		In(FieldUnitID, []string{"a", "b"}).
		Eq(FieldIsIncome, true).
		Gte(FieldDate, start).
		OrderByDesc(FieldDate).
		Take(5))
	require.NoError(t, err)

	assert.Equal(t, " WHERE unit_id IN (?, ?) AND is_income = ? AND date >= ? ORDER BY date DESC LIMIT ?", clause)
	require.Len(t, args, 5)
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), args[3])
	assert.Equal(t, 5, args[4])
}

func TestSQLBuilderEmptyInMatchesNothing(t *testing.T) {
	clause, args, err := testColumns.Build(NewQuery().In(FieldUnitID, nil))
	require.NoError(t, err)
	assert.Equal(t, " WHERE 1 = 0", clause)
	assert.Empty(t, args)
}

func TestSQLBuilderRejectsUnknownField(t *testing.T) {
	_, _, err := testColumns.Build(NewQuery().Eq("password", "x"))
	assert.Error(t, err)

	_, _, err = testColumns.Build(NewQuery().OrderByAsc("password"))
	assert.Error(t, err)
}

func TestQueryBuildersDoNotShareState(t *testing.T) {
	base := NewQuery().Eq(FieldUnitID, "a")
	left := base.Eq(FieldIsIncome, true)
	right := base.Eq(FieldIsIncome, false)

	assert.Len(t, base.Where, 1)
	assert.Equal(t, true, left.Where[1].Value)
	assert.Equal(t, false, right.Where[1].Value)
}

type row struct {
	unit   string
	income bool
	date   time.Time
	end    *time.Time
}

func rowFields(r *row) Fields {
	return Fields{
		FieldUnitID:      r.unit,
		FieldIsIncome:    r.income,
		FieldDate:        r.date,
		FieldContractEnd: r.end,
	}
}

func TestApplyMatchesSQLSemantics(t *testing.T) {
	jan := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	feb := jan.AddDate(0, 1, 0)
	mar := jan.AddDate(0, 2, 0)
	rows := []row{
		{unit: "a", income: true, date: jan, end: &mar},
		{unit: "b", income: false, date: feb},
		{unit: "a", income: false, date: mar},
	}

	got, err := Apply(NewQuery().Eq(FieldUnitID, "a").OrderByDesc(FieldDate), rows, rowFields)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, mar, got[0].date)

	got, err = Apply(NewQuery().Gte(FieldDate, jan).Lte(FieldDate, feb), rows, rowFields)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = Apply(NewQuery().Lt(FieldDate, feb), rows, rowFields)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = Apply(NewQuery().NotNull(FieldContractEnd), rows, rowFields)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = Apply(NewQuery().Gte(FieldContractEnd, jan), rows, rowFields)
	require.NoError(t, err)
	assert.Len(t, got, 1, "NULL never satisfies a comparison")

	got, err = Apply(NewQuery().In(FieldUnitID, []string{}), rows, rowFields)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Apply(NewQuery().OrderByAsc(FieldDate).Take(2), rows, rowFields)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, jan, got[0].date)

	_, err = Apply(NewQuery().Eq("unknown", 1), rows, rowFields)
	assert.Error(t, err)
}
