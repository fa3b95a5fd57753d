package bootstrap

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGinMode(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"production", gin.ReleaseMode},
		{" Prod ", gin.ReleaseMode},
		{"STAGING", gin.ReleaseMode},
		{"test", gin.TestMode},
		{"ci", gin.TestMode},
		{"development", gin.DebugMode},
		{"", gin.DebugMode},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			assert.Equal(t, tt.want, GinMode(tt.env))
		})
	}
}

func TestSetGinMode(t *testing.T) {
	defer gin.SetMode(gin.TestMode)

	SetGinMode("prod")
	assert.Equal(t, gin.ReleaseMode, gin.Mode())
}
