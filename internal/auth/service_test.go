package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primex/docs-cms/internal/editor"
)

func TestUpsertFromClaims(t *testing.T) {
	svc := NewService(NewMemoryUserRepository(), nil)
	ctx := context.Background()

	u, err := svc.UpsertFromClaims(ctx, map[string]interface{}{
		"sub":   "u1",
		"email": "ada@example.com",
		"name":  "Ada",
	})
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, editor.RoleViewer, u.Role)

	// Missing subject yields no user.
	u, err = svc.UpsertFromClaims(ctx, map[string]interface{}{"email": "x@example.com"})
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestUpsertFromClaimsRoleClaim(t *testing.T) {
	svc := NewService(NewMemoryUserRepository(), nil)
	u, err := svc.UpsertFromClaims(context.Background(), map[string]interface{}{
		"sub":  "u1",
		"role": "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, editor.RoleAdmin, u.Role)

	sess := u.EditorSession()
	assert.True(t, sess.Permissions.CanDelete)
}

func TestAdminEmailBootstrap(t *testing.T) {
	svc := NewService(NewMemoryUserRepository(), []string{"ops@example.com"})
	u, err := svc.UpsertFromClaims(context.Background(), map[string]interface{}{
		"sub":   "u1",
		"email": "ops@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, editor.RoleAdmin, u.Role)
}

func TestRoleSurvivesRelogin(t *testing.T) {
	repo := NewMemoryUserRepository()
	svc := NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.UpsertFromClaims(ctx, map[string]interface{}{"sub": "u1", "email": "a@example.com"})
	require.NoError(t, err)
	require.NoError(t, svc.SetRole(ctx, "u1", editor.RoleAdmin))

	// A later login without a role claim must not demote the user.
	u, err := svc.UpsertFromClaims(ctx, map[string]interface{}{"sub": "u1", "email": "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, editor.RoleAdmin, u.Role)
}

func TestSetRoleNormalizes(t *testing.T) {
	repo := NewMemoryUserRepository()
	svc := NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.UpsertFromClaims(ctx, map[string]interface{}{"sub": "u1"})
	require.NoError(t, err)
	require.NoError(t, svc.SetRole(ctx, "u1", editor.Role("superuser")))

	u, err := svc.GetBySub(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, editor.RoleViewer, u.Role)
}
