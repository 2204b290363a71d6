package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanteshgogi/Property-Manager/internal/auth"
	"github.com/shanteshgogi/Property-Manager/internal/logging"
)

type stubVerifier struct {
	dev bool
}

func (s stubVerifier) DevMode() bool { return s.dev }

func (s stubVerifier) Verify(_ context.Context, token string) (*auth.User, error) {
	if s.dev {
		return &auth.User{UID: auth.DevUserID}, nil
	}
	if token == "ok" {
		return &auth.User{UID: "u-1", Email: "owner@example.com"}, nil
	}
	return nil, errors.New("bad token")
}

func whoAmI() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := auth.UserFromContext(r.Context())
		if u == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_, _ = w.Write([]byte(u.UID))
	})
}

func TestAuth(t *testing.T) {
	h := Auth(stubVerifier{}, logging.Discard(), "/api/health")(whoAmI())

	tests := []struct {
		name   string
		method string
		path   string
		header string
		query  string
		ws     bool
		status int
		body   string
	}{
		{name: "missing header", method: http.MethodGet, path: "/api/units", status: http.StatusUnauthorized},
		{name: "not bearer", method: http.MethodGet, path: "/api/units", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "empty token", method: http.MethodGet, path: "/api/units", header: "Bearer  ", status: http.StatusUnauthorized},
		{name: "rejected token", method: http.MethodGet, path: "/api/units", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "valid token", method: http.MethodGet, path: "/api/units", header: "Bearer ok", status: http.StatusOK, body: "u-1"},
		{name: "preflight", method: http.MethodOptions, path: "/api/units", status: http.StatusNoContent},
		{name: "public path", method: http.MethodGet, path: "/api/health", status: http.StatusNoContent},
		{name: "query token on handshake", method: http.MethodGet, path: "/api/ws", query: "ok", ws: true, status: http.StatusOK, body: "u-1"},
		{name: "bad query token on handshake", method: http.MethodGet, path: "/api/ws", query: "nope", ws: true, status: http.StatusUnauthorized},
		{name: "query token on plain request", method: http.MethodGet, path: "/api/units", query: "ok", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := tt.path
			if tt.query != "" {
				target += "?" + TokenParam + "=" + tt.query
			}
			req := httptest.NewRequest(tt.method, target, nil)
			if tt.ws {
				req.Header.Set("Connection", "Upgrade")
				req.Header.Set("Upgrade", "websocket")
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
			if tt.status == http.StatusUnauthorized {
				var resp ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, ErrUnauthorized, resp.Error.Code)
			}
		})
	}
}

func TestAuthDevModeInjectsDevUser(t *testing.T) {
	h := Auth(stubVerifier{dev: true}, logging.Discard())(whoAmI())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/units", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, auth.DevUserID, rec.Body.String())
}

func TestErrorRecovery(t *testing.T) {
	h := ErrorRecovery(logging.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ErrInternal, resp.Error.Code)
}

func TestWriteValidationErrorOmitsEmptyDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteValidationError(rec, "Invalid request", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"VALIDATION_ERROR","message":"Invalid request"}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	WriteValidationError(rec, "Invalid request", []FieldError{{Field: "name", Message: "name is required", Code: "required"}})
	assert.JSONEq(t, `{"error":{"code":"VALIDATION_ERROR","message":"Invalid request",
		"details":[{"field":"name","message":"name is required","code":"required"}]}}`, rec.Body.String())
}

func TestLoggingKeepsStatus(t *testing.T) {
	h := Logging(logging.Discard())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
