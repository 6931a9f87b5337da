package auth

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/musebox/core/internal/config"
	"github.com/musebox/core/internal/middleware"
	"github.com/musebox/core/internal/pkg/jwt"
	"github.com/musebox/core/internal/pkg/response"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 7 * 24 * time.Hour

// Handler authenticates the single operator account against the
// bcrypt hash from the startup config.
type Handler struct {
	cfg *config.AppConfig
}

func NewHandler(cfg *config.AppConfig) *Handler {
	return &Handler{cfg: cfg}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/auth")
	g.POST("/login", h.login)
	g.GET("/check", authMW, h.check)
}

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if h.cfg.AdminPasswordHash == "" {
		response.BadRequest(c, "admin password is not configured")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.cfg.AdminPasswordHash), []byte(req.Password)); err != nil {
		response.Unauthorized(c)
		return
	}

	token, err := jwt.Sign("admin", tokenTTL)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.OK(c, gin.H{"token": token, "expires_in": int(tokenTTL.Seconds())})
}

func (h *Handler) check(c *gin.Context) {
	subject, _ := c.Get(middleware.ContextKeySubject)
	response.OK(c, gin.H{"ok": 1, "subject": subject})
}
