package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/primex/docs-cms/internal/docs"
	"github.com/primex/docs-cms/internal/docs/repository"
	"github.com/primex/docs-cms/internal/editor"
)

// DocsHandler exposes the document lifecycle over HTTP.
type DocsHandler struct {
	Responder
	svc *docs.Service
}

func NewDocsHandler(svc *docs.Service, r Responder) *DocsHandler {
	return &DocsHandler{Responder: r, svc: svc}
}

// Register mounts the authenticated editor routes.
func (h *DocsHandler) Register(rg *gin.RouterGroup) {
	d := rg.Group("/documents")
	d.GET("", h.List)
	d.POST("", h.Create)
	d.POST("/reorder", h.Reorder)
	d.GET("/:id", h.Get)
	d.DELETE("/:id", h.Delete)
	d.PUT("/:id/blocks", h.SaveBlocks)
	d.PATCH("/:id/metadata", h.UpdateMetadata)
	d.POST("/:id/rename", h.Rename)
	d.POST("/:id/submit", h.Submit)
	d.POST("/:id/publish", h.Publish)
	d.POST("/:id/deprecate", h.Deprecate)
	d.POST("/:id/default", h.SetDefault)
	d.POST("/:id/move", h.Move)
	d.GET("/:id/validate", h.Validate)
	d.GET("/:id/preview", h.Preview)
}

// RegisterPublic mounts the unauthenticated reading surface.
func (h *DocsHandler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/landing", h.Landing)
	p := rg.Group("/published")
	p.GET("", h.ListPublished)
	p.GET("/:id", h.GetPublished)
}

func (h *DocsHandler) List(c *gin.Context) {
	metas, err := h.svc.List(c.Request.Context(), sessionFrom(c))
	if err != nil {
		h.FailErr(c, err)
		return
	}
	h.OK(c, http.StatusOK, metas)
}

func (h *DocsHandler) Create(c *gin.Context) {
	var params docs.CreateParams
	if err := c.ShouldBindJSON(&params); err != nil {
		h.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	doc, err := h.svc.Create(c.Request.Context(), sessionFrom(c), params)
	if err != nil {
		h.FailErr(c, err)
		return
	}
	h.OK(c, http.StatusCreated, doc)
}

func (h *DocsHandler) Get(c *gin.Context) {
	doc, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.FailErr(c, err)
		return
	}
	h.OK(c, http.StatusOK, doc)
}

func (h *DocsHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), sessionFrom(c), c.Param("id")); err != nil {
		h.FailErr(c, err)
		return
	}
	h.OK(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *DocsHandler) SaveBlocks(c *gin.Context) {
	var req struct {
		Blocks []editor.Block `json:"blocks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	doc, err := h.svc.SaveBlocks(c.Request.Context(), sessionFrom(c), c.Param("id"), req.Blocks)
	if err != nil {
		h.FailErr(c, err)
		return
	}
	h.OK(c, http.StatusOK, doc)
}

func (h *DocsHandler) UpdateMetadata(c *gin.Context) {
	var patch docs.MetadataPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	doc, err := h.svc.UpdateMetadata(c.Request.Context(), sessionFrom(c), c.Param("id"), patch)
	if err != nil {
		h.FailErr(c, err)
		return
	}
	h.OK(c, http.StatusOK, doc)
}

func (h *DocsHandler) Rename(c *gin.Context) {
	var req struct {
		Title string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	doc, err := h.svc.Rename(c.Request.Context(), sessionFrom(c), c.Param("id"), req.Title)
	if err != nil {
		h.FailErr(c, err)
		return
	}
	h.OK(c, http.StatusOK, doc)
}

func (h *DocsHandler) Submit(c *gin.Context) {
	doc, err := h.svc.SubmitForReview(c.Request.Context(), sessionFrom(c), c.Param("id"))
	if err != nil {
		h.FailErr(c, err)
		return
	}
	h.OK(c, http.StatusOK, doc)
}

func (h *DocsHandler) Publish(c *gin.Context) {
	res, err := h.svc.Publish(c.Request.Context(), sessionFrom(c), c.Param("id"))
	if err != nil {
		h.FailErr(c, err)
		return
	}
	h.OK(c, http.StatusOK, res)
}

func (h *DocsHandler) Deprecate(c *gin.Context) {
	doc, err := h.svc.Deprecate(c.Request.Context(), sessionFrom(c), c.Param("id"))
	if err != nil {
		h.FailErr(c, err)
		return
	}
	h.OK(c, http.StatusOK, doc)
}

func (h *DocsHandler) SetDefault(c *gin.Context) {
	doc, err := h.svc.SetDefault(c.Request.Context(), sessionFrom(c), c.Param("id"))
	if err != nil {
		h.FailErr(c, err)
		return
	}
	h.OK(c, http.StatusOK, doc)
}

func (h *DocsHandler) Move(c *gin.Context) {
	var req struct {
		Direction string `json:"direction" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	dir := repository.Direction(req.Direction)
	if dir != repository.MoveUp && dir != repository.MoveDown {
		h.Fail(c, http.StatusBadRequest, "direction must be up or down")
		return
	}
	if err := h.svc.Move(c.Request.Context(), sessionFrom(c), c.Param("id"), dir); err != nil {
		h.FailErr(c, err)
		return
	}
	h.OK(c, http.StatusOK, gin.H{"moved": true})
}

func (h *DocsHandler) Reorder(c *gin.Context) {
	var req struct {
		Items []repository.OrderUpdate `json:"items" binding:"required"`
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

func (h *DocsHandler) Validate(c *gin.Context) {
	report, err := h.svc.Validate(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.FailErr(c, err)
		return
	}
	h.OK(c, http.StatusOK, report)
}

func (h *DocsHandler) Preview(c *gin.Context) {
	source, err := h.svc.Preview(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.FailErr(c, err)
		return
	}
	h.OK(c, http.StatusOK, gin.H{"mdxContent": source})
}

func (h *DocsHandler) ListPublished(c *gin.Context) {
	metas, err := h.svc.ListPublished(c.Request.Context())
	if err != nil {
		h.FailErr(c, err)
		return
	}
	h.OK(c, http.StatusOK, metas)
}

func (h *DocsHandler) GetPublished(c *gin.Context) {
	doc, err := h.svc.GetPublished(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.FailErr(c, err)
		return
	}
	h.OK(c, http.StatusOK, doc)
}

func (h *DocsHandler) Landing(c *gin.Context) {
	meta, err := h.svc.Landing(c.Request.Context())
	if err != nil {
		h.FailErr(c, err)
		return
	}
	h.OK(c, http.StatusOK, meta)
}
