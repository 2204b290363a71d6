package auth

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanteshgogi/Property-Manager/internal/logging"
)

func TestNewVerifierDevMode(t *testing.T) {
	v, err := NewVerifier(context.Background(), Config{}, logging.Discard())
	require.NoError(t, err)
	assert.True(t, v.DevMode())

	u, err := v.Verify(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, DevUserID, u.UID)
}

func TestNewVerifierRequiresCredentialsInProduction(t *testing.T) {
	_, err := NewVerifier(context.Background(), Config{Production: true}, logging.Discard())
	assert.ErrorIs(t, err, ErrCredentialsRequired)
}

func TestCredentialsPrecedence(t *testing.T) {
	b, err := credentials(Config{
		CredentialsJSON:   `{"type":"service_account"}`,
		CredentialsBase64: base64.StdEncoding.EncodeToString([]byte(`{"other":true}`)),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"service_account"}`, string(b))

	b, err = credentials(Config{CredentialsBase64: base64.StdEncoding.EncodeToString([]byte(`{"other":true}`))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"other":true}`, string(b))

	_, err = credentials(Config{CredentialsBase64: "%%%"})
	assert.Error(t, err)

	b, err = credentials(Config{})
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestUserContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, UserFromContext(ctx))

	ctx = WithUser(ctx, &User{UID: "u1"})
	require.NotNil(t, UserFromContext(ctx))
	assert.Equal(t, "u1", UserFromContext(ctx).UID)
}
