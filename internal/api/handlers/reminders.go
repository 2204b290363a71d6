package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shanteshgogi/Property-Manager/internal/api/middleware"
	"github.com/shanteshgogi/Property-Manager/internal/reminder"
	"github.com/shanteshgogi/Property-Manager/internal/storage"
)

// ReminderRunner triggers a contract renewal check. *reminder.Scheduler implements it.
type ReminderRunner interface {
	RunNow(ctx context.Context) (reminder.Result, error)
	NextRun() *time.Time
}

// ReminderRunResponse is returned by a manual run.
type ReminderRunResponse struct {
	reminder.Result
	NextRun *time.Time `json:"nextRun,omitempty"`
}

// ListReminders returns all reminders, newest first.
func ListReminders(store storage.Store, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reminders, err := store.Reminders().List(r.Context(), storage.NewQuery().OrderByDesc(storage.FieldCreatedAt))
		if err != nil {
			middleware.WriteInternalError(w, log, "Failed to fetch reminders", err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, reminders)
	}
}

// RunReminders runs the contract renewal check now and reports what it did.
func RunReminders(runner ReminderRunner, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := runner.RunNow(r.Context())
		if err != nil {
			middleware.WriteInternalError(w, log, "Failed to run contract renewal check", err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, ReminderRunResponse{Result: res, NextRun: runner.NextRun()})
	}
}
