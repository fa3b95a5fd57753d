package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	App        AppConfig
	Navigation NavigationConfig
	Crowd      CrowdConfig
}

type ServerConfig struct {
	Port           string
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a Redis address is configured
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

type NavigationConfig struct {
	// FacilityData is a facility YAML path; empty uses the embedded facility.
	FacilityData       string
	CrowdPenaltyFactor float64
	AlternatePenalty   float64
	TimePerCost        float64
}

type CrowdConfig struct {
	CrowdThreshold float64
	LoadThreshold  float64
	RefreshCron    string
	// WaitSeed seeds wait-time estimates; 0 seeds from the clock.
	WaitSeed int64
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			CORSOrigins:    getEnvAsList("CORS_ORIGINS", []string{"*"}),
			RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 20),
			RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 40),
		},
		Database: DatabaseConfig{
			Enabled:  getEnvAsBool("DB_ENABLED", false),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "medinav"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Navigation: NavigationConfig{
			FacilityData:       getEnv("FACILITY_DATA", ""),
			CrowdPenaltyFactor: getEnvAsFloat("CROWD_PENALTY_FACTOR", 5.0),
			AlternatePenalty:   getEnvAsFloat("ALTERNATE_PENALTY", 0.8),
			TimePerCost:        getEnvAsFloat("TIME_PER_COST", 1.2),
		},
		Crowd: CrowdConfig{
			CrowdThreshold: getEnvAsFloat("CROWD_THRESHOLD", 0.70),
			LoadThreshold:  getEnvAsFloat("LOAD_THRESHOLD", 0.85),
			RefreshCron:    getEnv("METRICS_REFRESH_CRON", "*/30 * * * * *"),
			WaitSeed:       int64(getEnvAsInt("WAIT_SEED", 0)),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.Enabled && c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required when DB_ENABLED is set")
	}

	if c.Server.RateLimitRPS < 0 || c.Server.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must not be negative")
	}

	if !inUnitRange(c.Crowd.CrowdThreshold) {
		return fmt.Errorf("CROWD_THRESHOLD must be in (0,1], got %v", c.Crowd.CrowdThreshold)
	}
	if !inUnitRange(c.Crowd.LoadThreshold) {
		return fmt.Errorf("LOAD_THRESHOLD must be in (0,1], got %v", c.Crowd.LoadThreshold)
	}

	if c.Navigation.CrowdPenaltyFactor < 0 || c.Navigation.AlternatePenalty < 0 || c.Navigation.TimePerCost < 0 {
		return fmt.Errorf("navigation penalty factors must not be negative")
	}

	return nil
}

func inUnitRange(v float64) bool {
	return v > 0 && v <= 1
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
