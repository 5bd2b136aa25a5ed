// internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string

	// UpstreamURL is the base URL of the marketplace REST API.
	UpstreamURL string

	RedisAddr string

	SessionSecret string
	SessionMaxAge time.Duration
}

func Load() (*Config, error) {
	// Load .env if present; in production everything comes from the environment.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:          getEnv("PORT", ":8080"),
		Environment:   getEnv("APP_ENV", "development"),
		UpstreamURL:   getEnv("UPSTREAM_API_URL", "http://localhost:8000/api"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		SessionSecret: getEnv("SESSION_SECRET", ""),
		SessionMaxAge: time.Duration(getEnvAsInt("SESSION_MAX_AGE", 36000)) * time.Second,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.UpstreamURL == "" {
		return fmt.Errorf("UPSTREAM_API_URL is required")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
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
