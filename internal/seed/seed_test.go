package seed

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanteshgogi/Property-Manager/internal/logging"
	"github.com/shanteshgogi/Property-Manager/internal/storage"
	"github.com/shanteshgogi/Property-Manager/internal/storage/document"
)

func TestSeedLoadsDemoDataOnce(t *testing.T) {
	ctx := context.Background()
	s, err := document.Open(filepath.Join(t.TempDir(), "seed.bolt"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, Seed(ctx, s, time.UTC, logging.Discard()))
	require.NoError(t, Seed(ctx, s, time.UTC, logging.Discard()))

	properties, err := s.Properties().List(ctx, storage.NewQuery())
	require.NoError(t, err)
	assert.Len(t, properties, 2)

	units, err := s.Units().List(ctx, storage.NewQuery())
	require.NoError(t, err)
	assert.Len(t, units, 4)

	tenants, err := s.Tenants().List(ctx, storage.NewQuery())
	require.NoError(t, err)
	assert.Len(t, tenants, 4)

	transactions, err := s.Transactions().List(ctx, storage.NewQuery())
	require.NoError(t, err)
	require.Len(t, transactions, 6)
	assert.Equal(t, "2024-02-10", transactions[0].Date.Format("2006-01-02"), "newest first")
	for _, tx := range transactions {
		if tx.TransactionType == "Rent" || tx.TransactionType == "Deposit" {
			assert.True(t, tx.IsIncome)
		}
	}
}

func TestSeedDatesFollowLocation(t *testing.T) {
	ctx := context.Background()
	s, err := document.Open(filepath.Join(t.TempDir(), "seed.bolt"))
	require.NoError(t, err)
	defer s.Close()

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	require.NoError(t, Seed(ctx, s, loc, logging.Discard()))

	transactions, err := s.Transactions().List(ctx, storage.NewQuery().OrderByDesc(storage.FieldDate))
	require.NoError(t, err)
	require.NotEmpty(t, transactions)
	assert.Equal(t, "2024-02-10", transactions[0].Date.In(loc).Format("2006-01-02"))
}
