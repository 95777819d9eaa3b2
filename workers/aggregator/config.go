package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/reviewstats/partagg/shared/middleware"
)

// WorkerConfig holds the configuration of one aggregator worker process
type WorkerConfig struct {
	WorkerID    int
	Connection  *middleware.ConnectionConfig
	MetricsPort string
	LogLevel    string
}

func loadConfig() (*WorkerConfig, error) {
	workerID, err := strconv.Atoi(getEnv("WORKER_ID", "0"))
	if err != nil || workerID < 0 {
		return nil, fmt.Errorf("invalid WORKER_ID %q", os.Getenv("WORKER_ID"))
	}

	port, err := strconv.Atoi(getEnv("RABBITMQ_PORT", "5672"))
	if err != nil {
		return nil, fmt.Errorf("invalid RABBITMQ_PORT: %w", err)
	}

	return &WorkerConfig{
		WorkerID: workerID,
		Connection: &middleware.ConnectionConfig{
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     port,
			Username: getEnv("RABBITMQ_USER", "admin"),
			Password: getEnv("RABBITMQ_PASS", "password"),
		},
		MetricsPort: getEnv("METRICS_PORT", ""),
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),
	}, nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
