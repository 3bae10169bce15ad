package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/primex/docs-cms/internal/auth"
	"github.com/primex/docs-cms/pkg/logger"
	"github.com/primex/docs-cms/pkg/middleware"
)

// SessionHandler exchanges identity-provider tokens for application tokens
// and answers "who am I" for the editor UI.
type SessionHandler struct {
	Responder
	users      *auth.Service
	sessions   *auth.SessionService
	verifier   middleware.Verifier
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewSessionHandler(users *auth.Service, sessions *auth.SessionService, verifier middleware.Verifier, secret string, accessTTL, refreshTTL time.Duration, r Responder) *SessionHandler {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &SessionHandler{
		Responder:  r,
		users:      users,
		sessions:   sessions,
		verifier:   verifier,
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Register mounts the public token endpoints.
func (h *SessionHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.POST("/login", h.Login)
	a.POST("/refresh", h.Refresh)
	a.POST("/logout", h.Logout)
}

// RegisterProtected mounts the session-info endpoint behind auth middleware.
func (h *SessionHandler) RegisterProtected(rg *gin.RouterGroup) {
	rg.GET("/session", h.Session)
}

// Login verifies an identity-provider token, upserts the user, and returns
// an application access/refresh token pair.
func (h *SessionHandler) Login(c *gin.Context) {
	var req struct {
		IDToken string `json:"idToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	tok, err := h.verifier.Verify(c.Request.Context(), req.IDToken)
	if err != nil {
		h.Fail(c, http.StatusUnauthorized, "invalid token")
		return
	}
	var claims map[string]interface{}
	if err := tok.Claims(&claims); err != nil {
		h.Fail(c, http.StatusUnauthorized, "failed to parse claims")
		return
	}

	u, err := h.users.UpsertFromClaims(c.Request.Context(), claims)
	if err != nil {
		logger.Errorf("user upsert error: %v", err)
		h.Fail(c, http.StatusInternalServerError, "user upsert failed")
		return
	}
	if u == nil {
		h.Fail(c, http.StatusUnauthorized, "token carries no subject")
		return
	}

	refresh, err := h.sessions.CreateSession(c.Request.Context(), u.Sub, h.refreshTTL)
	if err != nil {
		logger.Errorf("failed to create session: %v", err)
		h.Fail(c, http.StatusInternalServerError, "failed to create session")
		return
	}
	access, err := auth.GenerateAccessToken(h.secret, u, h.accessTTL)
	if err != nil {
		h.Fail(c, http.StatusInternalServerError, "failed to create access token")
		return
	}

	h.OK(c, http.StatusOK, gin.H{
		"accessToken":  access,
		"refreshToken": refresh,
		"user":         u,
		"expiresIn":    int(h.accessTTL.Seconds()),
	})
}

// Refresh exchanges a valid refresh token for a new access token.
func (h *SessionHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	sess, err := h.sessions.ValidateRefresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.Fail(c, http.StatusInternalServerError, "validation failed")
		return
	}
	if sess == nil {
		h.Fail(c, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	u, err := h.users.GetBySub(c.Request.Context(), sess.Sub)
	if err != nil || u == nil {
		h.Fail(c, http.StatusInternalServerError, "user lookup failed")
		return
	}
	access, err := auth.GenerateAccessToken(h.secret, u, h.accessTTL)
	if err != nil {
		h.Fail(c, http.StatusInternalServerError, "failed to create access token")
		return
	}
	h.OK(c, http.StatusOK, gin.H{"accessToken": access, "expiresIn": int(h.accessTTL.Seconds())})
}

// Logout invalidates the refresh token.
func (h *SessionHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.sessions.DeleteRefresh(c.Request.Context(), req.RefreshToken); err != nil {
		h.Fail(c, http.StatusInternalServerError, "failed to remove session")
		return
	}
	h.OK(c, http.StatusOK, gin.H{"message": "logged out"})
}

// Session reports the editor session derived from the verified claims.
func (h *SessionHandler) Session(c *gin.Context) {
	h.OK(c, http.StatusOK, sessionFrom(c))
}
