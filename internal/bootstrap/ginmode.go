package bootstrap

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// GinMode maps APP_ENV onto a gin mode. Unknown environments run in debug mode.
func GinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "production", "prod", "staging":
		return gin.ReleaseMode
	case "test", "testing", "ci":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

func SetGinMode(env string) {
	gin.SetMode(GinMode(env))
}
