package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reviewstats/partagg/server/controller/query-orchestrator/config"
	"github.com/reviewstats/partagg/server/controller/query-orchestrator/orchestrator"
	"github.com/reviewstats/partagg/shared/coordination"
	"github.com/reviewstats/partagg/shared/health_server"
	"github.com/reviewstats/partagg/shared/jobworker"
	"github.com/reviewstats/partagg/shared/metrics"
	"github.com/reviewstats/partagg/shared/middleware"
	"github.com/reviewstats/partagg/shared/query"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		printResult(orchestrator.FailureResult(fmt.Errorf("%w: %v", orchestrator.ErrConfiguration, err)))
		return 1
	}
	middleware.SetLogLevelFromString(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := query.DefaultRegistry()
	m := metrics.New()

	if cfg.MetricsPort != "" {
		hs := health_server.NewHealthServer(cfg.MetricsPort, m.Registry)
		hs.Start()
		defer hs.Stop()
	}

	qo := orchestrator.NewQueryOrchestrator(registry, m, transportFactory(cfg, registry, m))

	log.Printf("Running query %s over %s (%d rows, %d workers, %s transport)",
		cfg.Query, cfg.DatasetLocation, cfg.TotalRows, cfg.WorkerCount, cfg.Transport)

	result, err := qo.Run(ctx, orchestrator.Job{
		DatasetLocation: cfg.DatasetLocation,
		TotalRows:       cfg.TotalRows,
		WorkerCount:     cfg.WorkerCount,
		Query:           cfg.Query,
	})
	if result != nil {
		printResult(result)
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, orchestrator.ErrConfiguration), errors.Is(err, orchestrator.ErrWorkerFailure):
		return 1
	default:
		log.Printf("Job did not finish: %v", err)
		return 2
	}
}

func transportFactory(cfg *config.Config, registry *query.Registry, m *metrics.Metrics) orchestrator.TransportFactory {
	if cfg.Transport == config.TransportRabbitMQ {
		return func(ctx context.Context, workers int) (coordination.Transport, error) {
			log.Printf("Connecting to RabbitMQ at %s:%d with user %s",
				cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.Username)
			connConfig := cfg.ToMiddlewareConfig()
			if err := middleware.WaitForConnection(connConfig, 10, 2*time.Second); err != nil {
				return nil, err
			}
			return coordination.NewRabbitMQTransport(connConfig, workers)
		}
	}

	return func(ctx context.Context, workers int) (coordination.Transport, error) {
		worker := jobworker.NewWorker(registry, m)
		return coordination.NewInProcessTransport(ctx, workers, worker.Handle)
	}
}

func printResult(result *orchestrator.JobResult) {
	data, err := json.Marshal(result)
	if err != nil {
		log.Printf("Failed to encode result: %v", err)
		return
	}
	fmt.Println(string(data))
}
