package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/shanteshgogi/Property-Manager/internal/api/middleware"
	"github.com/shanteshgogi/Property-Manager/internal/dashboard"
	"github.com/shanteshgogi/Property-Manager/internal/storage"
)

// DashboardStats returns totals, occupancy and the monthly series for
// ?propertyId, ?startDate and ?endDate.
func DashboardStats(engine *dashboard.Engine, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		f := dashboard.Filter{PropertyID: q.Get("propertyId")}
		var err error
		if f.StartDate, err = queryTime(q, "startDate", engine.Location()); err != nil {
			writeRequestError(w, log, err, "Dashboard")
			return
		}
		if f.EndDate, err = queryTime(q, "endDate", engine.Location()); err != nil {
			writeRequestError(w, log, err, "Dashboard")
			return
		}

		stats, err := engine.Stats(r.Context(), f)
		if err != nil {
			middleware.WriteInternalError(w, log, "Failed to fetch dashboard stats", err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, stats)
	}
}

// ListActivityLogs returns the newest entries, filtered by ?entityType and
// ?entityId. ?limit defaults to DefaultActivityLimit.
func ListActivityLogs(store storage.Store, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := r.URL.Query()

		limit, err := queryLimit(v, "limit", DefaultActivityLimit)
		if err != nil {
			writeRequestError(w, log, err, "Activity log")
			return
		}

		q := storage.NewQuery().OrderByDesc(storage.FieldCreatedAt).Take(limit)
		if entityType := v.Get("entityType"); entityType != "" {
			q = q.Eq(storage.FieldEntityType, entityType)
		}
		if entityID := v.Get("entityId"); entityID != "" {
			q = q.Eq(storage.FieldEntityID, entityID)
		}

		logs, err := store.ActivityLogs().List(r.Context(), q)
		if err != nil {
			middleware.WriteInternalError(w, log, "Failed to fetch activity logs", err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, logs)
	}
}
