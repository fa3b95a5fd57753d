package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 5.0, cfg.Navigation.CrowdPenaltyFactor)
	assert.Equal(t, 0.8, cfg.Navigation.AlternatePenalty)
	assert.Equal(t, 1.2, cfg.Navigation.TimePerCost)
	assert.Equal(t, 0.70, cfg.Crowd.CrowdThreshold)
	assert.Equal(t, 0.85, cfg.Crowd.LoadThreshold)
	assert.Equal(t, "*/30 * * * * *", cfg.Crowd.RefreshCron)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("DB_ENABLED", "true")
	t.Setenv("CROWD_THRESHOLD", "0.6")
	t.Setenv("WAIT_SEED", "42")
	t.Setenv("DB_SSLMODE", "require")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, 0.6, cfg.Crowd.CrowdThreshold)
	assert.Equal(t, int64(42), cfg.Crowd.WaitSeed)
	assert.Equal(t, "require", cfg.Database.SSLMode)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-port")
	t.Setenv("LOAD_THRESHOLD", "high")
	t.Setenv("DB_ENABLED", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 0.85, cfg.Crowd.LoadThreshold)
	assert.False(t, cfg.Database.Enabled)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:     ServerConfig{Port: "8080"},
			Navigation: NavigationConfig{CrowdPenaltyFactor: 5, AlternatePenalty: 0.8, TimePerCost: 1.2},
			Crowd:      CrowdConfig{CrowdThreshold: 0.7, LoadThreshold: 0.85},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing port", func(c *Config) { c.Server.Port = "" }, "PORT is required"},
		{"db host required when enabled", func(c *Config) { c.Database.Enabled = true }, "DB_HOST"},
		{"crowd threshold zero", func(c *Config) { c.Crowd.CrowdThreshold = 0 }, "CROWD_THRESHOLD"},
		{"load threshold above one", func(c *Config) { c.Crowd.LoadThreshold = 1.5 }, "LOAD_THRESHOLD"},
		{"threshold of one allowed", func(c *Config) { c.Crowd.LoadThreshold = 1 }, ""},
		{"negative penalty", func(c *Config) { c.Navigation.CrowdPenaltyFactor = -1 }, "penalty"},
		{"negative rate limit", func(c *Config) { c.Server.RateLimitRPS = -1 }, "RATE_LIMIT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
