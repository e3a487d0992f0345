package generate

import (
	"net/http"
	"os"

	"codeberg.org/algopatterns/forge/internal/errors"
	"codeberg.org/algopatterns/forge/internal/logger"
	"codeberg.org/algopatterns/forge/internal/orchestrator"
	"github.com/gin-gonic/gin"
)

// Handler godoc
// @Summary Generate code and publish it
// @Description Generates code for a requirement and commits it to the target repository
// @Tags generate
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Generation request"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} Response
// @Failure 409 {object} Response
// @Failure 429 {object} errors.ErrorResponse
// @Failure 502 {object} Response
// @Failure 503 {object} Response
// @Router /api/v1/generate [post]
func Handler(runner Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Request

		// malformed input still gets an outcome body
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, Response{
				Status:  orchestrator.StatusFailed,
				Stage:   orchestrator.StageValidation,
				Error:   errors.KindValidation.Code(),
				Message: errors.Sanitize(err, os.Getenv("ENVIRONMENT") == "production"),
			})
			return
		}

		outcome := runner.Run(c.Request.Context(), req.Requirement, req.TargetRepository)

		logger.FromContext(c.Request.Context()).Debug("generate request finished",
			"status", outcome.Status,
			"stage", outcome.Stage,
			"reference", outcome.Reference,
		)

		c.JSON(outcome.HTTPStatus(), outcome.Response())
	}
}
