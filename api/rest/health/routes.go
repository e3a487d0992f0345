package health

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.Engine, v1 *gin.RouterGroup, version string, checks map[string]Check) {
	router.GET("/health", Handler(version, checks))
	v1.GET("/ping", PingHandler)
}
