// Package auth verifies Firebase ID tokens.
package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// DevUserID is the identity attached to requests when verification is disabled.
const DevUserID = "dev-user"

// ErrCredentialsRequired is returned when production runs without credentials.
var ErrCredentialsRequired = errors.New("firebase credentials are required in production")

// User is the verified caller.
type User struct {
	UID   string
	Email string
	Name  string
}

// Config selects the Firebase project and service account.
// CredentialsJSON takes precedence over CredentialsBase64.
type Config struct {
	ProjectID         string
	CredentialsJSON   string
	CredentialsBase64 string
	Production        bool
}

// Verifier checks ID tokens against Firebase. Without credentials outside
// production it runs in dev mode and accepts every request as DevUserID.
type Verifier struct {
	client *fbauth.Client
	log    logrus.FieldLogger
}

// NewVerifier builds a Verifier from cfg.
func NewVerifier(ctx context.Context, cfg Config, log logrus.FieldLogger) (*Verifier, error) {
	log = log.WithField("component", "auth")

	creds, err := credentials(cfg)
	if err != nil {
		return nil, err
	}
	if creds == nil {
		if cfg.Production {
			return nil, ErrCredentialsRequired
		}
		log.Warn("No Firebase credentials configured, token verification disabled")
		return &Verifier{log: log}, nil
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, option.WithCredentialsJSON(creds))
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting firebase auth client: %w", err)
	}

	log.WithField("project_id", cfg.ProjectID).Info("Firebase token verification enabled")
	return &Verifier{client: client, log: log}, nil
}

// DevMode reports whether token verification is disabled.
func (v *Verifier) DevMode() bool {
	return v.client == nil
}

// Verify validates an ID token and returns its user.
func (v *Verifier) Verify(ctx context.Context, idToken string) (*User, error) {
	if v.DevMode() {
		return &User{UID: DevUserID}, nil
	}

	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("verifying id token: %w", err)
	}

	u := &User{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		u.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		u.Name = name
	}
	return u, nil
}

func credentials(cfg Config) ([]byte, error) {
	if cfg.CredentialsJSON != "" {
		return []byte(cfg.CredentialsJSON), nil
	}
	if cfg.CredentialsBase64 != "" {
		b, err := base64.StdEncoding.DecodeString(cfg.CredentialsBase64)
		if err != nil {
			return nil, fmt.Errorf("decoding base64 firebase credentials: %w", err)
		}
		return b, nil
	}
	return nil, nil
}

type contextKey string

const userKey contextKey = "user"

// WithUser returns a context carrying u.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the verified user, or nil.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userKey).(*User)
	return u
}
