package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/reviewstats/partagg/shared/middleware"
)

// Transport kinds
const (
	TransportInProcess = "inprocess"
	TransportRabbitMQ  = "rabbitmq"
)

// Config holds all configuration for the query orchestrator
type Config struct {
	DatasetLocation string
	TotalRows       int
	WorkerCount     int
	Query           string
	Transport       string
	RabbitMQ        RabbitMQConfig
	MetricsPort     string
	LogLevel        string
}

// RabbitMQConfig holds RabbitMQ connection configuration
type RabbitMQConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// LoadConfig loads configuration from environment variables with defaults.
// Variables from ENV_FILE (default .env) fill in whatever the environment
// does not already set; a missing file is not an error.
func LoadConfig() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	totalRows, err := getEnvInt("DATASET_SIZE", 3000000)
	if err != nil {
		return nil, err
	}
	workers, err := getEnvInt("NUM_WORKERS", runtime.NumCPU())
	if err != nil {
		return nil, err
	}
	port, err := getEnvInt("RABBITMQ_PORT", 5672)
	if err != nil {
		return nil, err
	}

	transport := strings.ToLower(getEnv("TRANSPORT", TransportInProcess))
	if transport != TransportInProcess && transport != TransportRabbitMQ {
		return nil, fmt.Errorf("invalid TRANSPORT %q: want %s or %s", transport, TransportInProcess, TransportRabbitMQ)
	}

	return &Config{
		DatasetLocation: getEnv("PATH_DATASET", ""),
		TotalRows:       totalRows,
		WorkerCount:     workers,
		Query:           getEnv("QUERY", "exact-books"),
		Transport:       transport,
		RabbitMQ: RabbitMQConfig{
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     port,
			Username: getEnv("RABBITMQ_USER", "admin"),
			Password: getEnv("RABBITMQ_PASS", "password"),
		},
		MetricsPort: getEnv("METRICS_PORT", ""),
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),
	}, nil
}

// ToMiddlewareConfig converts the config to middleware connection config
func (c *Config) ToMiddlewareConfig() *middleware.ConnectionConfig {
	return &middleware.ConnectionConfig{
		Host:     c.RabbitMQ.Host,
		Port:     c.RabbitMQ.Port,
		Username: c.RabbitMQ.Username,
		Password: c.RabbitMQ.Password,
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := getEnv(key, strconv.Itoa(defaultValue))
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}
