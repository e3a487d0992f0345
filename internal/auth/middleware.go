package auth

import (
	"strings"

	"codeberg.org/algopatterns/forge/internal/config"
	"codeberg.org/algopatterns/forge/internal/errors"
	"codeberg.org/algopatterns/forge/internal/logger"
	"github.com/gin-gonic/gin"
)

// requires a valid API client token and adds its subject to the context
func RequireToken(secret config.Secret) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errors.Unauthorized(c, "authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			errors.Unauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := ValidateToken(secret, parts[1])
		if err != nil {
			logger.FromContext(c.Request.Context()).Debug("rejected API token", "error", err)
			errors.Unauthorized(c, "invalid or expired token")
			return
		}

		c.Set(contextKeySubject, claims.Subject)
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(),
			logger.FromContext(c.Request.Context()).With("client", claims.Subject)))

		c.Next()
	}
}

// extracts the client subject after RequireToken
func GetSubject(c *gin.Context) (string, bool) {
	subject, exists := c.Get(contextKeySubject)
	if !exists {
		return "", false
	}

	s, ok := subject.(string)
	return s, ok
}
