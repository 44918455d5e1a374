package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/gogotex/backend/doc-revisions/internal/clipboard"
	"github.com/gogotex/gogotex/backend/doc-revisions/internal/document"
	"github.com/gogotex/gogotex/backend/doc-revisions/internal/document/service"
	"github.com/gogotex/gogotex/backend/doc-revisions/internal/lock"
	"github.com/gogotex/gogotex/backend/doc-revisions/internal/plugin"
	"github.com/gogotex/gogotex/backend/doc-revisions/pkg/logger"
	"github.com/gogotex/gogotex/backend/doc-revisions/pkg/middleware"
)

// ResourceResolver turns cdn:// references into fetchable urls.
type ResourceResolver interface {
	PresignResources(ctx context.Context, refs []string, expires time.Duration) (map[string]string, error)
}

// Options configures the optional parts of the document routes.
type Options struct {
	Providers          plugin.Lookup
	ClipboardOriginKey string
	Resolver           ResourceResolver
	PresignTTL         time.Duration
	// WriteLimiter guards the chain-wide writes (restore, hard delete).
	WriteLimiter gin.HandlerFunc
}

type sectionRequest struct {
	Key     string           `json:"key"`
	Type    string           `json:"type"`
	Content document.Content `json:"content"`
}

type documentRequest struct {
	Title       string           `json:"title"`
	Slug        string           `json:"slug"`
	Description string           `json:"description"`
	Language    string           `json:"language"`
	Sections    []sectionRequest `json:"sections"`
}

func (r documentRequest) fields() service.DocumentFields {
	return service.DocumentFields{Title: r.Title, Slug: r.Slug, Description: r.Description, Language: r.Language}
}

func (r documentRequest) sections() []document.Section {
	out := make([]document.Section, len(r.Sections))
	for i, s := range r.Sections {
		out[i] = document.Section{Key: s.Key, Type: s.Type, Content: s.Content}
	}
	return out
}

type handler struct {
	svc  service.Service
	opts Options
	log  *logger.Logger
}

func RegisterDocumentRoutes(r gin.IRouter, svc service.Service, opts Options) {
	if opts.Providers == nil {
		opts.Providers = plugin.NewDefaultRegistry()
	}
	if opts.PresignTTL <= 0 {
		opts.PresignTTL = 15 * time.Minute
	}
	limit := opts.WriteLimiter
	if limit == nil {
		limit = func(c *gin.Context) { c.Next() }
	}
	h := &handler{svc: svc, opts: opts, log: logger.With("document-handler")}

	r.GET("/api/documents", h.list)
	r.POST("/api/documents", h.create)
	r.GET("/api/documents/:key", h.get)
	r.PATCH("/api/documents/:key", h.update)
	r.GET("/api/documents/:key/revisions", h.revisions)
	r.POST("/api/documents/:key/restore", limit, h.restore)
	r.DELETE("/api/documents/:key/sections/:sectionKey/revisions/:revision", limit, h.hardDelete)
	r.GET("/api/documents/:key/resources", h.resources)
	r.POST("/api/clipboard/encode", h.clipboardEncode)
	r.POST("/api/clipboard/decode", h.clipboardDecode)
}

func (h *handler) list(c *gin.Context) {
	keys, err := h.svc.ListDocumentKeys(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": keys})
}

func (h *handler) create(c *gin.Context) {
	var req documentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rev, err := h.svc.CreateDocument(c.Request.Context(), service.CreateParams{
		DocumentFields: req.fields(),
		Sections:       req.sections(),
		User:           middleware.UserFromContext(c),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rev)
}

func (h *handler) get(c *gin.Context) {
	rev, err := h.svc.GetDocument(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rev)
}

func (h *handler) update(c *gin.Context) {
	var req documentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rev, err := h.svc.UpdateDocument(c.Request.Context(), service.UpdateParams{
		DocumentKey:    c.Param("key"),
		DocumentFields: req.fields(),
		Sections:       req.sections(),
		User:           middleware.UserFromContext(c),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rev)
}

func (h *handler) revisions(c *gin.Context) {
	chain, err := h.svc.GetRevisions(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"revisions": chain})
}

func (h *handler) restore(c *gin.Context) {
	var req struct {
		RevisionID string `json:"revisionId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	chain, err := h.svc.RestoreDocumentRevision(c.Request.Context(), service.RestoreParams{
		DocumentKey: c.Param("key"),
		RevisionID:  req.RevisionID,
		User:        middleware.UserFromContext(c),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"revisions": chain})
}

func (h *handler) hardDelete(c *gin.Context) {
	var req struct {
		Reason             string `json:"reason" binding:"required"`
		DeleteAllRevisions bool   `json:"deleteAllRevisions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.svc.HardDeleteSection(c.Request.Context(), service.HardDeleteSectionParams{
		DocumentKey:        c.Param("key"),
		SectionKey:         c.Param("sectionKey"),
		SectionRevision:    c.Param("revision"),
		Reason:             req.Reason,
		DeleteAllRevisions: req.DeleteAllRevisions,
		User:               middleware.UserFromContext(c),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) resources(c *gin.Context) {
	rev, err := h.svc.GetDocument(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	refs := rev.CdnResources
	if refs == nil {
		refs = []string{}
	}
	out := gin.H{"resources": refs}
	if h.opts.Resolver != nil {
		urls, err := h.opts.Resolver.PresignResources(c.Request.Context(), refs, h.opts.PresignTTL)
		if err != nil {
			h.writeError(c, err)
			return
		}
		out["urls"] = urls
	}
	c.JSON(http.StatusOK, out)
}

func (h *handler) clipboardEncode(c *gin.Context) {
	if h.opts.ClipboardOriginKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "clipboard not configured"})
		return
	}
	var req struct {
		Type    string           `json:"type" binding:"required"`
		Content document.Content `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	data, err := clipboard.Encode(clipboard.Section{Type: req.Type, Content: req.Content}, h.opts.ClipboardOriginKey)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func (h *handler) clipboardDecode(c *gin.Context) {
	if h.opts.ClipboardOriginKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "clipboard not configured"})
		return
	}
	var req struct {
		Data          string `json:"data" binding:"required"`
		TargetScopeID string `json:"targetScopeId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	section, ok := clipboard.Decode(req.Data, h.opts.ClipboardOriginKey)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "clipboard data not recognized"})
		return
	}
	redacted := clipboard.RedactSectionContent(*section, h.opts.Providers, req.TargetScopeID)
	c.JSON(http.StatusOK, redacted)
}

func (h *handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, document.ErrInvalidSection):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, document.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, document.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, lock.ErrNotAcquired):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "document is busy, retry later"})
	default:
		h.log.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
