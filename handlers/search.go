package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/primex/docs-cms/internal/search"
)

// SearchHandler serves queries against the in-memory published-docs index.
type SearchHandler struct {
	Responder
	index *search.Index
}

func NewSearchHandler(index *search.Index, r Responder) *SearchHandler {
	return &SearchHandler{Responder: r, index: index}
}

func (h *SearchHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/search", h.Search)
}

func (h *SearchHandler) Search(c *gin.Context) {
	res := h.index.Search(c.Query("q"))
	h.OK(c, http.StatusOK, res)
}
