// Package api provides HTTP routing and handlers for the REST API.
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/shanteshgogi/Property-Manager/internal/activity"
	"github.com/shanteshgogi/Property-Manager/internal/api/handlers"
	"github.com/shanteshgogi/Property-Manager/internal/api/middleware"
	"github.com/shanteshgogi/Property-Manager/internal/dashboard"
	"github.com/shanteshgogi/Property-Manager/internal/storage"
	"github.com/shanteshgogi/Property-Manager/internal/upload"
	"github.com/shanteshgogi/Property-Manager/internal/websocket"
)

// HealthPath is served without authentication.
const HealthPath = "/api/health"

// Services are the components the router exposes over HTTP.
type Services struct {
	Store     storage.Store
	Hub       *websocket.Hub
	Events    *websocket.EventBroadcaster
	Activity  *activity.Logger
	Dashboard *dashboard.Engine
	Reminders handlers.ReminderRunner
	Uploads   *upload.Service
	Verifier  middleware.TokenVerifier
	Location  *time.Location

	StaticDir      string
	AllowedOrigins []string
	Log            logrus.FieldLogger
}

// NewRouter creates and configures the HTTP router with all API routes.
// The returned handler applies CORS in front of the router.
func NewRouter(s Services) http.Handler {
	log := s.Log.WithField("component", "api")

	r := mux.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logging(log))
	r.Use(middleware.ErrorRecovery(log))

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(s.Verifier, log, HealthPath))

	d := handlers.Deps{
		Store:    s.Store,
		Activity: s.Activity,
		Log:      log,
		Loc:      s.Location,
	}
	if s.Events != nil {
		d.Events = s.Events
	}

	var clients handlers.ClientCounter
	if s.Hub != nil {
		clients = s.Hub
		api.HandleFunc("/ws", handlers.WebSocketUpgrade(s.Hub, log)).Methods(http.MethodGet)
	}
	api.HandleFunc("/health", handlers.HealthCheck(s.Store, clients)).Methods(http.MethodGet)

	// Properties
	api.HandleFunc("/properties", handlers.ListProperties(d)).Methods(http.MethodGet)
	api.HandleFunc("/properties", handlers.CreateProperty(d)).Methods(http.MethodPost)
	api.HandleFunc("/properties/{id}", handlers.GetProperty(d)).Methods(http.MethodGet)
	api.HandleFunc("/properties/{id}", handlers.UpdateProperty(d)).Methods(http.MethodPut)
	api.HandleFunc("/properties/{id}", handlers.DeleteProperty(d)).Methods(http.MethodDelete)

	// Units
	api.HandleFunc("/units", handlers.ListUnits(d)).Methods(http.MethodGet)
	api.HandleFunc("/units", handlers.CreateUnit(d)).Methods(http.MethodPost)
	api.HandleFunc("/units/{id}", handlers.GetUnit(d)).Methods(http.MethodGet)
	api.HandleFunc("/units/{id}", handlers.UpdateUnit(d)).Methods(http.MethodPut)
	api.HandleFunc("/units/{id}", handlers.DeleteUnit(d)).Methods(http.MethodDelete)

	// Tenants
	api.HandleFunc("/tenants", handlers.ListTenants(d)).Methods(http.MethodGet)
	api.HandleFunc("/tenants", handlers.CreateTenant(d)).Methods(http.MethodPost)
	api.HandleFunc("/tenants/{id}", handlers.GetTenant(d)).Methods(http.MethodGet)
	api.HandleFunc("/tenants/{id}", handlers.UpdateTenant(d)).Methods(http.MethodPut)
	api.HandleFunc("/tenants/{id}", handlers.DeleteTenant(d)).Methods(http.MethodDelete)

	// Transactions
	api.HandleFunc("/transactions", handlers.ListTransactions(d)).Methods(http.MethodGet)
	api.HandleFunc("/transactions", handlers.CreateTransaction(d)).Methods(http.MethodPost)
	api.HandleFunc("/transactions/{id}", handlers.GetTransaction(d)).Methods(http.MethodGet)
	api.HandleFunc("/transactions/{id}", handlers.UpdateTransaction(d)).Methods(http.MethodPut)
	api.HandleFunc("/transactions/{id}", handlers.DeleteTransaction(d)).Methods(http.MethodDelete)

	// Reporting
	api.HandleFunc("/dashboard/stats", handlers.DashboardStats(s.Dashboard, log)).Methods(http.MethodGet)
	api.HandleFunc("/activity-logs", handlers.ListActivityLogs(s.Store, log)).Methods(http.MethodGet)
	api.HandleFunc("/reminders", handlers.ListReminders(s.Store, log)).Methods(http.MethodGet)
	if s.Reminders != nil {
		api.HandleFunc("/reminders/run", handlers.RunReminders(s.Reminders, log)).Methods(http.MethodPost)
	}
	api.HandleFunc("/export/tenants", handlers.ExportTenants(s.Store, log)).Methods(http.MethodGet)
	api.HandleFunc("/export/transactions", handlers.ExportTransactions(s.Store, s.Location, log)).Methods(http.MethodGet)

	// Uploads
	if s.Uploads != nil {
		api.HandleFunc("/upload", handlers.UploadFile(s.Uploads, log)).Methods(http.MethodPost)
		r.PathPrefix(upload.URLPrefix).Handler(
			http.StripPrefix(upload.URLPrefix, http.FileServer(http.Dir(s.Uploads.Dir()))))
	}

	// Serve static frontend files
	if s.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.StaticDir)))
	}

	origins := s.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: len(s.AllowedOrigins) > 0,
	})

	return c.Handler(r)
}
