package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

func (c DatabaseConfig) ConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

type BlobConfig struct {
	ConnectionString string
	ContainerImages  string
	ContainerVideos  string
	ContainerGIFs    string
}

type Config struct {
	HTTPAddr        string
	Database        DatabaseConfig
	JWTSecret       string
	TokenTTL        time.Duration
	CleanupInterval time.Duration
	Blob            BlobConfig
	NATSURL         string
}

// Load reads configuration from the environment. There is deliberately no
// fallback signing secret: an unset JWT_SECRET refuses to start rather than
// signing sessions with a well-known value.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr: getEnv("HTTP_ADDR", "0.0.0.0:8080"),
		Database: DatabaseConfig{
			Host:         getEnv("POSTGRES_HOST", "localhost"),
			Port:         getEnvAsInt("POSTGRES_PORT", 5432),
			User:         getEnv("POSTGRES_USER", "postgres"),
			Password:     getEnv("POSTGRES_PASSWORD", "postgres"),
			DBName:       getEnv("POSTGRES_DB", "vibeshare"),
			SSLMode:      getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns: getEnvAsInt("POSTGRES_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("POSTGRES_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvAsDuration("POSTGRES_MAX_LIFETIME", 5*time.Minute),
		},
		JWTSecret:       strings.TrimSpace(os.Getenv("JWT_SECRET")),
		TokenTTL:        getEnvAsDuration("TOKEN_TTL", 30*24*time.Hour),
		CleanupInterval: getEnvAsDuration("TOKEN_CLEANUP_INTERVAL", time.Hour),
		Blob: BlobConfig{
			ConnectionString: os.Getenv("AZURE_STORAGE_CONNECTION_STRING"),
			ContainerImages:  getEnv("AZURE_STORAGE_CONTAINER_IMAGES", "images"),
			ContainerVideos:  getEnv("AZURE_STORAGE_CONTAINER_VIDEOS", "videos"),
			ContainerGIFs:    getEnv("AZURE_STORAGE_CONTAINER_GIFS", "gifs"),
		},
		NATSURL: os.Getenv("NATS_URL"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Blob.ConnectionString == "" {
		return nil, fmt.Errorf("AZURE_STORAGE_CONNECTION_STRING is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
