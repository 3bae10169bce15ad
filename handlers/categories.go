package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/primex/docs-cms/internal/categories"
)

// CategoriesHandler exposes category management over HTTP.
type CategoriesHandler struct {
	Responder
	svc *categories.Service
}

func NewCategoriesHandler(svc *categories.Service, r Responder) *CategoriesHandler {
	return &CategoriesHandler{Responder: r, svc: svc}
}

func (h *CategoriesHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/categories")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.POST("/reorder", h.Reorder)
	g.PATCH("/:id", h.Rename)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/move", h.Move)
}

func (h *CategoriesHandler) List(c *gin.Context) {
	cats, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.FailErr(c, err)
		return
	}
	h.OK(c, http.StatusOK, cats)
}

func (h *CategoriesHandler) Create(c *gin.Context) {
	var req struct {
		Title string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	cat, err := h.svc.Create(c.Request.Context(), sessionFrom(c), req.Title)
	if err != nil {
		h.FailErr(c, err)
		return
	}
	h.OK(c, http.StatusCreated, cat)
}

func (h *CategoriesHandler) Rename(c *gin.Context) {
	var req struct {
		Title string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	cat, err := h.svc.Rename(c.Request.Context(), sessionFrom(c), c.Param("id"), req.Title)
	if err != nil {
		h.FailErr(c, err)
		return
	}
	h.OK(c, http.StatusOK, cat)
}

func (h *CategoriesHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), sessionFrom(c), c.Param("id")); err != nil {
		h.FailErr(c, err)
		return
	}
	h.OK(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *CategoriesHandler) Move(c *gin.Context) {
	var req struct {
		Direction string `json:"direction" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	dir := categories.Direction(req.Direction)
	if dir != categories.MoveUp && dir != categories.MoveDown {
		h.Fail(c, http.StatusBadRequest, "direction must be up or down")
		return
	}
	if err := h.svc.Move(c.Request.Context(), sessionFrom(c), c.Param("id"), dir); err != nil {
		h.FailErr(c, err)
		return
	}
	h.OK(c, http.StatusOK, gin.H{"moved": true})
}

func (h *CategoriesHandler) Reorder(c *gin.Context) {
	var req struct {
		Items []categories.OrderUpdate `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.Reorder(c.Request.Context(), sessionFrom(c), req.Items); err != nil {
		h.FailErr(c, err)
		return
	}
	h.OK(c, http.StatusOK, gin.H{"reordered": len(req.Items)})
}
