package health

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/musebox/core/internal/pkg/redis"
	"github.com/musebox/core/internal/pkg/response"
	"gorm.io/gorm"
)

var processStart = time.Now()

type Handler struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewHandler(db *gorm.DB, rdb *redis.Client) *Handler {
	return &Handler{db: db, rdb: rdb}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", h.ping)
	rg.GET("/health", h.health)
}

func (h *Handler) ping(c *gin.Context) {
	response.OK(c, gin.H{"message": "pong"})
}

func (h *Handler) health(c *gin.Context) {
	dbOK := true
	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		dbOK = false
	}

	redisOK := h.rdb.Raw().Ping(c.Request.Context()).Err() == nil

	response.OK(c, gin.H{
		"database": dbOK,
		"redis":    redisOK,
		"uptime":   time.Since(processStart).Round(time.Second).String(),
	})
}
