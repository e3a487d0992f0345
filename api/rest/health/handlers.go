package health

import (
	"context"
	"net/http"
	"time"

	"codeberg.org/algopatterns/forge/internal/logger"
	"github.com/gin-gonic/gin"
)

const (
	serviceName  = "forge"
	checkTimeout = 2 * time.Second
)

// Handler godoc
// @Summary Health check
// @Description Reports service health and the state of optional dependencies
// @Tags health
// @Produce json
// @Success 200 {object} Response
// @Failure 503 {object} Response
// @Router /health [get]
func Handler(version string, checks map[string]Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := Response{
			Status:  "healthy",
			Service: serviceName,
			Version: version,
		}

		status := http.StatusOK

		if len(checks) > 0 {
			resp.Checks = make(map[string]string, len(checks))

			ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
			defer cancel()

			for name, check := range checks {
				if err := check(ctx); err != nil {
					logger.FromContext(ctx).Warn("health check failed", "check", name, "error", err)
					resp.Checks[name] = "unavailable"
					resp.Status = "degraded"
					status = http.StatusServiceUnavailable
					continue
				}

				resp.Checks[name] = "ok"
			}
		}

		c.JSON(status, resp)
	}
}

// responds with pong for testing
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, PingResponse{Message: "pong"})
}
