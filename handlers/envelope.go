package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/primex/docs-cms/internal/auth"
	"github.com/primex/docs-cms/internal/categories"
	"github.com/primex/docs-cms/internal/docs"
	"github.com/primex/docs-cms/internal/docs/repository"
	"github.com/primex/docs-cms/internal/editor"
)

// Envelope is the uniform response shape for every API endpoint.
type Envelope struct {
	Success     bool        `json:"success"`
	Data        interface{} `json:"data,omitempty"`
	Error       string      `json:"error,omitempty"`
	Environment string      `json:"environment"`
	Timestamp   string      `json:"timestamp"`
	RequestID   string      `json:"requestId"`
}

// Responder stamps envelopes with the deployment environment. Handlers embed
// it so every response carries environment, timestamp, and request id.
type Responder struct {
	Environment string
}

func newRequestID() string {
	return fmt.Sprintf("req_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

func (r Responder) envelope() Envelope {
	env := r.Environment
	if env == "" {
		env = "sandbox"
	}
	return Envelope{
		Environment: env,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		RequestID:   newRequestID(),
	}
}

// OK writes a success envelope.
func (r Responder) OK(c *gin.Context, status int, data interface{}) {
	e := r.envelope()
	e.Success = true
	e.Data = data
	c.JSON(status, e)
}

// Fail writes an error envelope with an explicit status and message.
func (r Responder) Fail(c *gin.Context, status int, msg string) {
	e := r.envelope()
	e.Error = msg
	c.JSON(status, e)
}

// FailErr maps a service error onto the envelope. Validation failures carry
// the full report as data so the editor can render per-rule messages.
func (r Responder) FailErr(c *gin.Context, err error) {
	var vErr *docs.ValidationFailedError
	var pErr *docs.PublishedSaveError

	switch {
	case errors.Is(err, docs.ErrNotFound), errors.Is(err, repository.ErrNotFound):
		r.Fail(c, http.StatusNotFound, "Document not found")
	case errors.Is(err, categories.ErrNotFound):
		r.Fail(c, http.StatusNotFound, "Category not found")
	case errors.Is(err, repository.ErrConflict):
		r.Fail(c, http.StatusConflict, "A document with this title already exists in this category.")
	case errors.Is(err, categories.ErrExists):
		r.Fail(c, http.StatusConflict, "A category with this name already exists.")
	case errors.Is(err, docs.ErrPermissionDenied), errors.Is(err, categories.ErrPermissionDenied):
		r.Fail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, repository.ErrCannotMove), errors.Is(err, categories.ErrCannotMove):
		r.Fail(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &vErr):
		e := r.envelope()
		e.Error = vErr.Error()
		e.Data = vErr.Report
		c.JSON(http.StatusUnprocessableEntity, e)
	case errors.As(err, &pErr):
		r.Fail(c, http.StatusUnprocessableEntity, pErr.Error())
	default:
		r.Fail(c, http.StatusInternalServerError, err.Error())
	}
}

// sessionFrom derives the editor session from the claims the auth middleware
// stored. Requests that never passed the middleware get an anonymous viewer.
func sessionFrom(c *gin.Context) editor.Session {
	v, ok := c.Get("claims")
	if !ok {
		return editor.NewSession("", "", "", editor.RoleViewer)
	}
	claims, ok := v.(map[string]interface{})
	if !ok {
		return editor.NewSession("", "", "", editor.RoleViewer)
	}
	return auth.SessionFromClaims(claims)
}
