package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/shanteshgogi/Property-Manager/internal/api/middleware"
)

// Pinger reports whether the store is reachable. storage.Store implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ClientCounter reports connected WebSocket clients. *websocket.Hub implements it.
type ClientCounter interface {
	ClientCount() int
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status      string `json:"status"`
	DBConnected bool   `json:"db_connected"`
	Clients     int    `json:"clients"`
	Time        string `json:"time"`
}

// HealthCheck returns a handler that performs a health check.
func HealthCheck(db Pinger, clients ClientCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		dbConnected := db.Ping(ctx) == nil

		status := "healthy"
		code := http.StatusOK
		if !dbConnected {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		response := HealthResponse{
			Status:      status,
			DBConnected: dbConnected,
			Time:        time.Now().UTC().Format(time.RFC3339),
		}
		if clients != nil {
			response.Clients = clients.ClientCount()
		}

		middleware.WriteJSON(w, code, response)
	}
}
