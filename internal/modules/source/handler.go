package source

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/musebox/core/internal/models"
	"github.com/musebox/core/internal/modules/ai"
	"github.com/musebox/core/internal/pkg/pagination"
	"github.com/musebox/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/sources")

	g.GET("", h.list)
	g.GET("/:id", h.get)

	a := g.Group("", authMW)
	a.POST("", h.ingest)
	a.POST("/:id/refresh-metadata", h.refreshMetadata)
	a.POST("/:id/analyze", h.analyze)
	a.POST("/:id/archive", h.archive)
	a.POST("/:id/restore", h.restore)
}

type ingestRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *Handler) ingest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	src, err := h.svc.Ingest(c.Request.Context(), req.Content)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Created(c, src)
}

func (h *Handler) list(c *gin.Context) {
	q := ListQuery{
		Theme:  c.Query("theme"),
		Status: c.Query("status"),
	}

	var sources []models.SourceModel
	page := pagination.FromContext(c)
	meta, err := pagination.Paginate(h.svc.ListScope(c.Request.Context(), q), page, &sources)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, sources, meta)
}

func (h *Handler) get(c *gin.Context) {
	src, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, src)
}

func (h *Handler) refreshMetadata(c *gin.Context) {
	src, err := h.svc.RefreshMetadata(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, src)
}

func (h *Handler) analyze(c *gin.Context) {
	src, err := h.svc.Analyze(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, src)
}

func (h *Handler) archive(c *gin.Context) {
	if err := h.svc.Archive(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) restore(c *gin.Context) {
	if err := h.svc.Restore(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	response.NoContent(c)
}

func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFoundMsg(c, err.Error())
	case errors.Is(err, ErrEmptyContent), errors.Is(err, ErrContentTooLong):
		response.BadRequest(c, err.Error())
	case errors.Is(err, ai.ErrRateLimited):
		response.TooManyRequests(c, "AI provider is rate limited, try again later")
	case errors.Is(err, ai.ErrNoProvider):
		response.UnprocessableEntity(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
