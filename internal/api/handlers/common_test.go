package handlers

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanteshgogi/Property-Manager/internal/storage"
)

func TestQueryParsing(t *testing.T) {
	v := url.Values{
		"isIncome":  {"true"},
		"startDate": {"2024-02-01"},
		"endDate":   {"2024-02-29T23:59:59Z"},
		"limit":     {"5"},
	}

	b, err := queryBool(v, "isIncome")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.True(t, *b)

	start, err := queryTime(v, "startDate", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), *start)

	end, err := queryTime(v, "endDate", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 29, end.Day())

	n, err := queryLimit(v, "limit", DefaultActivityLimit)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = queryLimit(url.Values{}, "limit", DefaultActivityLimit)
	require.NoError(t, err)
	assert.Equal(t, DefaultActivityLimit, n)

	missing, err := queryTime(url.Values{}, "startDate", time.UTC)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDateOnlyValuesAreMidnightInLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	d, err := parseTime("2024-06-01", ny)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, time.June, 1, 4, 0, 0, 0, time.UTC).Equal(d), d.String())
	assert.Equal(t, 1, d.In(ny).Day())

	ts, err := parseTime("2024-06-01T00:00:00Z", ny)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC).Equal(ts), "explicit offsets win")

	start, err := queryTime(url.Values{"startDate": {"2024-06-01"}}, "startDate", ny)
	require.NoError(t, err)
	assert.Equal(t, time.June, start.In(ny).Month())

	d2 := Deps{}
	assert.Equal(t, time.UTC, d2.location())
}

func TestQueryParsingRejectsMalformedValues(t *testing.T) {
	var verr *errValidation

	_, err := queryBool(url.Values{"isIncome": {"yes please"}}, "isIncome")
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "isIncome", verr.details[0].Field)

	_, err = queryTime(url.Values{"startDate": {"01/02/2024"}}, "startDate", time.UTC)
	assert.True(t, errors.As(err, &verr))

	for _, bad := range []string{"0", "-3", "ten"} {
		_, err = queryLimit(url.Values{"limit": {bad}}, "limit", 10)
		assert.True(t, errors.As(err, &verr), bad)
	}
}

func TestTransactionQueryOrdersNewestFirst(t *testing.T) {
	q, err := transactionQuery(url.Values{"unitId": {"u1"}, "isIncome": {"false"}}, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, storage.FieldDate, q.OrderBy)
	assert.True(t, q.Descending)
	require.Len(t, q.Where, 2)
	assert.Equal(t, storage.Predicate{Field: storage.FieldUnitID, Op: storage.OpEq, Value: "u1"}, q.Where[0])
	assert.Equal(t, storage.Predicate{Field: storage.FieldIsIncome, Op: storage.OpEq, Value: false}, q.Where[1])
}

func TestNullable(t *testing.T) {
	blank, text := "  ", "x"
	assert.Nil(t, nullable(nil))
	assert.Nil(t, nullable(&blank))
	assert.Equal(t, &text, nullable(&text))
}
