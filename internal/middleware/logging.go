package middleware

import (
	"time"

	"codeberg.org/algopatterns/forge/internal/logger"
	"github.com/gin-gonic/gin"
)

// logs one line per request; must run after RequestID
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		log := logger.FromContext(c.Request.Context())

		args := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		}

		switch {
		case status >= 500:
			log.Error("request handled", args...)
		case status >= 400:
			log.Warn("request handled", args...)
		default:
			log.Info("request handled", args...)
		}
	}
}
