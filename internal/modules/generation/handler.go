package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/musebox/core/internal/pkg/response"
	"github.com/musebox/core/internal/pkg/taskqueue"
)

const TaskTypeFanout = "generation:fanout"

type fanoutPayload struct {
	SourceID string `json:"source_id"`
}

type Handler struct {
	svc   *Service
	queue *taskqueue.Queue
}

func NewHandler(svc *Service, queue *taskqueue.Queue) *Handler {
	h := &Handler{svc: svc, queue: queue}
	queue.Register(TaskTypeFanout, h.runFanoutTask)
	return h
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/sources", authMW)
	g.POST("/:id/tracks/:key", h.generateTrack)
	g.POST("/:id/process", h.process)

	t := rg.Group("/tasks", authMW)
	t.GET("", h.listTasks)
	t.GET("/:id", h.getTask)
	t.POST("/:id/cancel", h.cancelTask)
	t.DELETE("/:id", h.deleteTask)
}

// generateTrack runs one track synchronously for one source.
func (h *Handler) generateTrack(c *gin.Context) {
	sourceID := c.Param("id")
	trackKey := c.Param("key")

	if TrackByKey(trackKey) == nil {
		response.NotFoundMsg(c, fmt.Sprintf("unknown content type %q", trackKey))
		return
	}

	result := h.svc.GenerateTrack(c.Request.Context(), sourceID, trackKey)
	response.OK(c, result)
}

// process fans a source out to all suitable tracks. With ?async=true
// the fan-out runs as a background task (deduplicated per source) and
// the task record is returned instead of the batch result.
func (h *Handler) process(c *gin.Context) {
	sourceID := c.Param("id")

	if c.Query("async") == "true" {
		task, err := h.queue.Enqueue(c.Request.Context(), TaskTypeFanout,
			fanoutPayload{SourceID: sourceID}, sourceID)
		if err != nil {
			response.InternalError(c, err)
			return
		}
		response.Accepted(c, task)
		return
	}

	result := h.svc.ProcessSource(c.Request.Context(), sourceID)
	response.OK(c, result)
}

func (h *Handler) runFanoutTask(ctx context.Context, task *taskqueue.Task) (interface{}, error) {
	var payload fanoutPayload
	if err := json.Unmarshal(task.Payload, &payload); err != nil {
		return nil, fmt.Errorf("invalid fan-out payload: %w", err)
	}
	if payload.SourceID == "" {
		return nil, errors.New("fan-out payload has no source id")
	}
	return h.svc.ProcessSource(ctx, payload.SourceID), nil
}

func (h *Handler) listTasks(c *gin.Context) {
	tasks, err := h.queue.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, tasks)
}

func (h *Handler) getTask(c *gin.Context) {
	task, err := h.queue.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if task == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, task)
}

func (h *Handler) cancelTask(c *gin.Context) {
	id := c.Param("id")
	if !h.queue.Cancel(id) {
		response.Conflict(c, "task is not running")
		return
	}
	response.NoContent(c)
}

func (h *Handler) deleteTask(c *gin.Context) {
	if err := h.queue.DeleteByID(c.Request.Context(), c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
