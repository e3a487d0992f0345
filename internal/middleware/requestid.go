package middleware

import (
	"codeberg.org/algopatterns/forge/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"
	keyRequestID    = "request_id"

	maxRequestIDLength = 128
)

// attaches or propagates X-Request-ID and puts a request-scoped logger
// on the request context
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}

		c.Set(keyRequestID, id)
		c.Header(HeaderRequestID, id)

		ctx := c.Request.Context()
		c.Request = c.Request.WithContext(logger.WithContext(ctx, logger.FromContext(ctx).With(keyRequestID, id)))

		c.Next()
	}
}

// returns the id set by RequestID
func GetRequestID(c *gin.Context) string {
	return c.GetString(keyRequestID)
}
