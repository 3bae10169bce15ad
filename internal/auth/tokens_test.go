package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primex/docs-cms/internal/editor"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	u := &User{Sub: "u1", Name: "Ada", Email: "ada@example.com", Role: editor.RoleAdmin}

	raw, err := GenerateAccessToken("test-secret", u, time.Minute)
	require.NoError(t, err)

	tok, err := NewHMACVerifier("test-secret").Verify(context.Background(), raw)
	require.NoError(t, err)

	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	assert.Equal(t, "u1", claims["sub"])
	assert.Equal(t, "admin", claims["role"])

	sess := SessionFromClaims(claims)
	assert.True(t, sess.IsAdmin())
	assert.True(t, sess.Permissions.CanPublish)
	assert.Equal(t, "ada@example.com", sess.Email)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	u := &User{Sub: "u1", Role: editor.RoleViewer}
	raw, err := GenerateAccessToken("secret-a", u, time.Minute)
	require.NoError(t, err)

	_, err = NewHMACVerifier("secret-b").Verify(context.Background(), raw)
	assert.Error(t, err)
}

func TestAccessTokenExpired(t *testing.T) {
	u := &User{Sub: "u1", Role: editor.RoleViewer}
	raw, err := GenerateAccessToken("test-secret", u, -time.Minute)
	require.NoError(t, err)

	_, err = NewHMACVerifier("test-secret").Verify(context.Background(), raw)
	assert.Error(t, err)
}

func TestSessionFromClaimsUnknownRole(t *testing.T) {
	sess := SessionFromClaims(map[string]interface{}{"sub": "u2", "role": "editor"})
	assert.Equal(t, editor.RoleViewer, sess.Role)
	assert.False(t, sess.Permissions.CanEdit)

	sess = SessionFromClaims(map[string]interface{}{"sub": "u3"})
	assert.False(t, sess.IsAdmin())
}

func TestInsecureVerifierParsesPayload(t *testing.T) {
	u := &User{Sub: "u1", Name: "Ada", Role: editor.RoleAdmin}
	raw, err := GenerateAccessToken("any-secret", u, time.Minute)
	require.NoError(t, err)

	tok, err := NewInsecureVerifier().Verify(context.Background(), raw)
	require.NoError(t, err)

	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	assert.Equal(t, "u1", claims["sub"])

	_, err = NewInsecureVerifier().Verify(context.Background(), "not-a-jwt")
	assert.Error(t, err)
}
