package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/reviewstats/partagg/shared/health_server"
	"github.com/reviewstats/partagg/shared/jobworker"
	"github.com/reviewstats/partagg/shared/metrics"
	"github.com/reviewstats/partagg/shared/middleware"
	"github.com/reviewstats/partagg/shared/query"
)

func main() {
	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return
	}
	middleware.SetLogLevelFromString(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	if cfg.MetricsPort != "" {
		hs := health_server.NewHealthServer(cfg.MetricsPort, m.Registry)
		hs.Start()
		defer hs.Stop()
	}

	log.Printf("Aggregator Worker %d: Connecting to RabbitMQ at %s:%d with user %s",
		cfg.WorkerID, cfg.Connection.Host, cfg.Connection.Port, cfg.Connection.Username)
	if err := middleware.WaitForConnection(cfg.Connection, 10, 2*time.Second); err != nil {
		log.Printf("Aggregator Worker %d: %v", cfg.WorkerID, err)
		return
	}

	// Create and initialize aggregator worker
	worker, err := NewAggregatorWorker(ctx, cfg, jobworker.NewWorker(query.DefaultRegistry(), m))
	if err != nil {
		log.Printf("Failed to create aggregator worker: %v", err)
		return
	}
	defer worker.Close()

	// Start the worker
	if err := worker.Start(); err != 0 {
		log.Printf("Failed to start aggregator worker: %v", err)
		return
	}

	<-ctx.Done()
	log.Printf("Aggregator Worker %d: shutting down", cfg.WorkerID)
}
