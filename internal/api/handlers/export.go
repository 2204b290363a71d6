package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shanteshgogi/Property-Manager/internal/api/middleware"
	"github.com/shanteshgogi/Property-Manager/internal/export"
	"github.com/shanteshgogi/Property-Manager/internal/storage"
)

// ExportTenants downloads tenants as CSV, filtered like ListTenants.
func ExportTenants(store storage.Store, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenants, err := store.Tenants().List(r.Context(), tenantQuery(r.URL.Query()))
		if err != nil {
			log.WithError(err).Error("Failed to export tenants")
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrExport, "Failed to export tenants")
			return
		}
		writeCSV(w, log, "tenants.csv", export.TenantHeaders, export.TenantRows(tenants))
	}
}

// ExportTransactions downloads transactions as CSV, filtered like ListTransactions.
// Date-only bounds are taken in loc.
func ExportTransactions(store storage.Store, loc *time.Location, log logrus.FieldLogger) http.HandlerFunc {
	if loc == nil {
		loc = time.UTC
	}
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := transactionQuery(r.URL.Query(), loc)
		if err != nil {
			writeRequestError(w, log, err, "Transaction")
			return
		}

		transactions, err := store.Transactions().List(r.Context(), q)
		if err != nil {
			log.WithError(err).Error("Failed to export transactions")
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrExport, "Failed to export transactions")
			return
		}
		writeCSV(w, log, "transactions.csv", export.TransactionHeaders, export.TransactionRows(transactions))
	}
}

// writeCSV renders fully before writing so a failure can still become an error response.
func writeCSV(w http.ResponseWriter, log logrus.FieldLogger, filename string, headers []string, rows [][]string) {
	var buf bytes.Buffer
	if err := export.Write(&buf, headers, rows); err != nil {
		log.WithError(err).WithField("file", filename).Error("Failed to render CSV")
		middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrExport, "Failed to export data")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
