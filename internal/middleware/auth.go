package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/musebox/core/internal/pkg/jwt"
	"github.com/musebox/core/internal/pkg/response"
)

const ContextKeySubject = "auth_subject"

// Auth returns a middleware that enforces JWT authentication.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := validateToken(extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		c.Set(ContextKeySubject, claims.Subject)
		c.Next()
	}
}

// IsAuthenticated reports whether the current request carries a valid token.
func IsAuthenticated(c *gin.Context) bool {
	_, ok := c.Get(ContextKeySubject)
	return ok
}

func validateToken(rawToken string) (*jwt.Claims, error) {
	token := normalizeToken(rawToken)
	if token == "" {
		return nil, errors.New("token is required")
	}
	return jwt.Parse(token)
}

func normalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token
}

func extractToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		return h
	}
	return c.Query("token")
}
