package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/shanteshgogi/Property-Manager/internal/auth"
)

// TokenParam carries the ID token on WebSocket handshakes, where browsers
// cannot set an Authorization header.
const TokenParam = "token"

// TokenVerifier validates bearer tokens. *auth.Verifier implements it.
type TokenVerifier interface {
	DevMode() bool
	Verify(ctx context.Context, idToken string) (*auth.User, error)
}

// Auth returns middleware that requires a valid bearer token and stores the
// caller in the request context. OPTIONS requests and paths in public pass
// through. In dev mode no header is needed. WebSocket upgrades may pass the
// token as the TokenParam query parameter instead of the header.
func Auth(v TokenVerifier, log logrus.FieldLogger, public ...string) func(http.Handler) http.Handler {
	open := make(map[string]bool, len(public))
	for _, p := range public {
		open[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || open[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			if v.DevMode() {
				u, _ := v.Verify(r.Context(), "")
				next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), u)))
				return
			}

			token := bearerToken(r)
			if token == "" {
				WriteError(w, http.StatusUnauthorized, ErrUnauthorized, "Missing or invalid authorization header")
				return
			}

			u, err := v.Verify(r.Context(), token)
			if err != nil {
				log.WithError(err).WithField("path", r.URL.Path).Debug("Token verification failed")
				WriteError(w, http.StatusUnauthorized, ErrUnauthorized, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), u)))
		})
	}
}

// bearerToken reads the Authorization header, falling back to the query
// parameter only for WebSocket handshakes.
func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return ""
		}
		return strings.TrimSpace(token)
	}
	if websocket.IsWebSocketUpgrade(r) {
		return strings.TrimSpace(r.URL.Query().Get(TokenParam))
	}
	return ""
}
