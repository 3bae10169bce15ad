package auth

import (
	"context"

	"github.com/primex/docs-cms/internal/editor"
)

// Service resolves users from OIDC claims and answers role lookups.
type Service struct {
	repo        UserRepository
	adminEmails map[string]bool
}

// NewService builds the user service. adminEmails bootstraps admin roles for
// configured addresses so a fresh deployment has at least one admin.
func NewService(repo UserRepository, adminEmails []string) *Service {
	set := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		set[e] = true
	}
	return &Service{repo: repo, adminEmails: set}
}

// UpsertFromClaims creates or updates a user from an OIDC claims map and
// returns the stored record. A nil user means the claims carried no subject.
func (s *Service) UpsertFromClaims(ctx context.Context, claims map[string]interface{}) (*User, error) {
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	if sub == "" {
		return nil, nil
	}

	role := editor.RoleViewer
	if r, ok := claims["role"].(string); ok && editor.Role(r) == editor.RoleAdmin {
		role = editor.RoleAdmin
	}
	if s.adminEmails[email] {
		role = editor.RoleAdmin
	}

	return s.repo.UpsertBySub(ctx, &User{Sub: sub, Email: email, Name: name, Role: role})
}

func (s *Service) GetBySub(ctx context.Context, sub string) (*User, error) {
	return s.repo.GetBySub(ctx, sub)
}

// SetRole grants or revokes the admin role.
func (s *Service) SetRole(ctx context.Context, sub string, role editor.Role) error {
	if role != editor.RoleAdmin {
		role = editor.RoleViewer
	}
	return s.repo.SetRole(ctx, sub, role)
}

// EditorSession derives the capability session for a user.
func (u *User) EditorSession() editor.Session {
	return editor.NewSession(u.Sub, u.Name, u.Email, u.Role)
}
