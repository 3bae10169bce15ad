package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/primex/docs-cms/internal/editor"
	"github.com/primex/docs-cms/pkg/middleware"
)

// GenerateAccessToken creates a signed JWT access token for the user. The
// role claim is what downstream permission checks derive capabilities from.
func GenerateAccessToken(secret string, u *User, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   u.Sub,
		"name":  u.Name,
		"email": u.Email,
		"role":  string(u.Role),
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(secret))
}

// hmacToken adapts verified JWT claims to the middleware token interface.
type hmacToken struct {
	claims jwt.MapClaims
}

func (t *hmacToken) Claims(v interface{}) error {
	m, ok := v.(*map[string]interface{})
	if !ok {
		return errors.New("unsupported claims target")
	}
	*m = map[string]interface{}(t.claims)
	return nil
}

// HMACVerifier validates the service's own HS256 access tokens. It is the
// default verifier; the OIDC verifier is used when an external issuer is
// configured.
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

func (v *HMACVerifier) Verify(_ context.Context, raw string) (middleware.Token, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return &hmacToken{claims: claims}, nil
}

// SessionFromClaims turns a verified claims map into an editor session with
// derived capabilities. Unknown or missing roles collapse to viewer.
func SessionFromClaims(claims map[string]interface{}) editor.Session {
	sub, _ := claims["sub"].(string)
	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return editor.NewSession(sub, name, email, editor.Role(role))
}
