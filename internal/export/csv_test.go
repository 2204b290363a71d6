package export

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanteshgogi/Property-Manager/internal/storage/models"
)

func TestRenderQuotesSpecialCharacters(t *testing.T) {
	out, err := Render([]string{"id", "name"}, [][]string{
		{"1", "plain"},
		{"2", "Smith, John"},
		{"3", `say "hi"`},
		{"4", "line1\nline2"},
	})
	require.NoError(t, err)

	assert.Equal(t, "id,name\n1,plain\n2,\"Smith, John\"\n3,\"say \"\"hi\"\"\"\n4,\"line1\nline2\"\n", out)
}

func TestRenderRoundTrips(t *testing.T) {
	rows := [][]string{{"a,b", `"q"`, "x\ny"}}
	out, err := Render([]string{"c1", "c2", "c3"}, rows)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, rows[0], records[1])
}

func TestTenantRows(t *testing.T) {
	email := "asha@example.com"
	unit := "u1"
	dob := time.Date(1990, time.May, 4, 0, 0, 0, 0, time.UTC)
	rows := TenantRows([]models.Tenant{{
		ID:     "t1",
		Name:   "Asha",
		Status: models.TenantStatusActive,
		Phone:  "98765",
		Email:  &email,
		UnitID: &unit,
		DOB:    &dob,
	}})

	require.Len(t, rows, 1)
	assert.Len(t, rows[0], len(TenantHeaders))
	assert.Equal(t, []string{"t1", "Asha", "Active", "98765", "asha@example.com", "u1", "", "1990-05-04", ""}, rows[0])
}

func TestTransactionRows(t *testing.T) {
	rows := TransactionRows([]models.Transaction{{
		ID:              "x1",
		Name:            "March rent",
		TransactionType: models.TransactionTypeRent,
		IsIncome:        true,
		Amount:          decimal.RequireFromString("12000.50"),
		Date:            time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		UnitID:          "u1",
	}})

	require.Len(t, rows, 1)
	assert.Len(t, rows[0], len(TransactionHeaders))
	assert.Equal(t, []string{"x1", "March rent", "Rent", "true", "12000.5", "2024-03-01T00:00:00Z", "", "u1"}, rows[0])
}
