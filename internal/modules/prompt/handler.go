package prompt

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/musebox/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/prompts", authMW)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.POST("/:id/activate", h.activate)
	g.DELETE("/:id", h.remove)
}

type createRequest struct {
	TrackKey string `json:"track_key" binding:"required"`
	Name     string `json:"name"`
	Text     string `json:"text" binding:"required"`
}

type updateRequest struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

func (h *Handler) list(c *gin.Context) {
	prompts, err := h.svc.List(c.Request.Context(), c.Query("track_key"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, prompts)
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, p)
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.Create(c.Request.Context(), req.TrackKey, req.Name, req.Text)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Created(c, p)
}

func (h *Handler) update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), req.Name, req.Text)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, p)
}

func (h *Handler) activate(c *gin.Context) {
	p, err := h.svc.Activate(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, p)
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c)
		return
	}
	response.InternalError(c, err)
}
