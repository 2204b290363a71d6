package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanteshgogi/Property-Manager/internal/storage"
	"github.com/shanteshgogi/Property-Manager/internal/storage/document"
	"github.com/shanteshgogi/Property-Manager/internal/storage/models"
)

var errReadFailed = errors.New("read failed")

// unreadableProperties fails every GetByID after a successful write.
type unreadableProperties struct {
	storage.PropertyRepository
}

func (unreadableProperties) GetByID(context.Context, string) (*models.Property, error) {
	return nil, errReadFailed
}

type unreadableStore struct {
	storage.Store
}

func (s unreadableStore) Properties() storage.PropertyRepository {
	return unreadableProperties{s.Store.Properties()}
}

func TestUpdateLogsFailedReRead(t *testing.T) {
	ctx := context.Background()
	s, err := document.Open(filepath.Join(t.TempDir(), "update.bolt"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	p := &models.Property{Name: "Old", Address: "1 Road"}
	require.NoError(t, s.Properties().Create(ctx, p))

	log, hook := logtest.NewNullLogger()
	h := UpdateProperty(Deps{Store: unreadableStore{s}, Log: log})

	req := httptest.NewRequest(http.MethodPut, "/api/properties/"+p.ID, strings.NewReader(`{"name":"New","address":"2 Road"}`))
	req = mux.SetURLVars(req, map[string]string{"id": p.ID})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got models.Property
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "New", got.Name)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.ErrorIs(t, entry.Data[logrus.ErrorKey].(error), errReadFailed)
}

func TestTransactionAmountPrecision(t *testing.T) {
	base := TransactionRequest{Name: "Rent", TransactionType: models.TransactionTypeRent, Date: "2024-03-05", UnitID: "u1"}

	for _, ok := range []string{"1500", "1500.5", "1500.50", "0.01"} {
		req := base
		amount := decimal.RequireFromString(ok)
		req.Amount = &amount
		tx, err := req.toModel("", nil)
		require.NoError(t, err, ok)
		assert.True(t, amount.Equal(tx.Amount))
	}

	for _, bad := range []string{"1.005", "0.001", "12.345"} {
		req := base
		amount := decimal.RequireFromString(bad)
		req.Amount = &amount
		_, err := req.toModel("", nil)
		var verr *errValidation
		require.True(t, errors.As(err, &verr), bad)
		assert.Equal(t, "amount", verr.details[0].Field)
		assert.Equal(t, "decimal", verr.details[0].Code)
	}
}
