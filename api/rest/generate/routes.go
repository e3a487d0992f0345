package generate

import (
	"fmt"

	"codeberg.org/algopatterns/forge/internal/artifact"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// registers code generation routes; middleware guards the endpoint
func RegisterRoutes(router *gin.RouterGroup, runner Runner, middleware ...gin.HandlerFunc) {
	handlers := append(middleware, Handler(runner))
	router.POST("/generate", handlers...)
}

// adds the binding tags used by Request to gin's validator
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}

	return artifact.RegisterValidators(v)
}
