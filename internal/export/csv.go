// Package export renders tenants and transactions as CSV.
package export

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/shanteshgogi/Property-Manager/internal/storage/models"
)

// Column sets of the export endpoints.
var (
	TenantHeaders      = []string{"id", "name", "status", "phone", "email", "unitId", "gender", "dob", "workDetails"}
	TransactionHeaders = []string{"id", "name", "transactionType", "isIncome", "amount", "date", "paidBy", "unitId"}
)

// Write emits the header row followed by rows. Fields containing a comma,
// quote or line break are quoted with inner quotes doubled.
func Write(w io.Writer, headers []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// Render is Write into a string.
func Render(headers []string, rows [][]string) (string, error) {
	var buf bytes.Buffer
	if err := Write(&buf, headers, rows); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// TenantRows converts tenants into rows matching TenantHeaders.
func TenantRows(tenants []models.Tenant) [][]string {
	rows := make([][]string, 0, len(tenants))
	for _, t := range tenants {
		rows = append(rows, []string{
			t.ID,
			t.Name,
			t.Status,
			t.Phone,
			str(t.Email),
			str(t.UnitID),
			str(t.Gender),
			date(t.DOB, "2006-01-02"),
			str(t.WorkDetails),
		})
	}
	return rows
}

// TransactionRows converts transactions into rows matching TransactionHeaders.
func TransactionRows(transactions []models.Transaction) [][]string {
	rows := make([][]string, 0, len(transactions))
	for _, t := range transactions {
		rows = append(rows, []string{
			t.ID,
			t.Name,
			t.TransactionType,
			strconv.FormatBool(t.IsIncome),
			t.Amount.String(),
			date(&t.Date, time.RFC3339),
			str(t.PaidBy),
			t.UnitID,
		})
	}
	return rows
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func date(t *time.Time, layout string) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(layout)
}
