package main

import (
	"context"
	"fmt"

	"github.com/reviewstats/partagg/shared/jobworker"
	"github.com/reviewstats/partagg/shared/middleware"
	"github.com/reviewstats/partagg/shared/middleware/workerqueue"
	"github.com/reviewstats/partagg/shared/queues"
)

// AggregatorWorker consumes its range queue and answers on the result or
// error queue.
type AggregatorWorker struct {
	workerID       int
	component      string
	consumer       *workerqueue.QueueConsumer
	resultProducer *workerqueue.QueueMiddleware
	errorProducer  *workerqueue.QueueMiddleware
	handler        *jobworker.Worker
	ctx            context.Context
}

// NewAggregatorWorker creates a new AggregatorWorker instance
func NewAggregatorWorker(ctx context.Context, cfg *WorkerConfig, handler *jobworker.Worker) (*AggregatorWorker, error) {
	aw := &AggregatorWorker{
		workerID:  cfg.WorkerID,
		component: fmt.Sprintf("Aggregator Worker %d", cfg.WorkerID),
		handler:   handler,
		ctx:       ctx,
	}

	rangeQueue := queues.RangeQueueName(cfg.WorkerID)
	aw.consumer = workerqueue.NewQueueConsumer(rangeQueue, cfg.Connection)
	if aw.consumer == nil {
		return nil, fmt.Errorf("failed to create consumer for %s", rangeQueue)
	}
	if err := aw.consumer.DeclareQueue(false); err != 0 {
		aw.Close()
		return nil, fmt.Errorf("failed to declare %s: %v", rangeQueue, err)
	}

	var err error
	if aw.resultProducer, err = newProducer(queues.ResultQueue, cfg.Connection); err != nil {
		aw.Close()
		return nil, err
	}
	if aw.errorProducer, err = newProducer(queues.ErrorQueue, cfg.Connection); err != nil {
		aw.Close()
		return nil, err
	}

	return aw, nil
}

func newProducer(queueName string, config *middleware.ConnectionConfig) (*workerqueue.QueueMiddleware, error) {
	producer := workerqueue.NewMessageMiddlewareQueue(queueName, config)
	if producer == nil {
		return nil, fmt.Errorf("failed to create producer for %s", queueName)
	}
	if err := producer.DeclareQueue(false, false, false, false); err != 0 {
		producer.Close()
		return nil, fmt.Errorf("failed to declare %s: %v", queueName, err)
	}
	return producer, nil
}

// Start starts the aggregator worker
func (aw *AggregatorWorker) Start() middleware.MessageMiddlewareError {
	middleware.LogInfo(aw.component, "Starting to listen for ranges...")
	return aw.consumer.StartConsuming(aw.createCallback())
}

// Close closes all connections
func (aw *AggregatorWorker) Close() {
	if aw.consumer != nil {
		aw.consumer.Close()
	}
	if aw.resultProducer != nil {
		aw.resultProducer.Close()
	}
	if aw.errorProducer != nil {
		aw.errorProducer.Close()
	}
}

// createCallback creates the message processing callback
func (aw *AggregatorWorker) createCallback() middleware.OnMessageCallback {
	return func(consumeChannel middleware.ConsumeChannel, done chan error) {
		for delivery := range *consumeChannel {
			if err := aw.processMessage(delivery.Body); err != 0 {
				middleware.LogError(aw.component, "Failed to publish reply: %v", err)
				delivery.Nack(false, true) // Reject and requeue
				continue
			}
			delivery.Ack(false)
		}
		done <- nil
	}
}
