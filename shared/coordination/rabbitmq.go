package coordination

import (
	"context"
	"fmt"
	"sync"

	"github.com/reviewstats/partagg/shared/middleware"
	"github.com/reviewstats/partagg/shared/middleware/workerqueue"
	"github.com/reviewstats/partagg/shared/queues"
)

// RabbitMQTransport talks to worker processes through RabbitMQ: one range
// queue per worker, a shared result queue and a shared error queue.
type RabbitMQTransport struct {
	rangeProducers []*workerqueue.QueueMiddleware
	resultConsumer *workerqueue.QueueConsumer
	errorConsumer  *workerqueue.QueueConsumer

	inbox     chan Envelope
	closed    chan struct{}
	closeOnce sync.Once
}

// NewRabbitMQTransport declares every queue and starts consuming replies.
func NewRabbitMQTransport(config *middleware.ConnectionConfig, numWorkers int) (*RabbitMQTransport, error) {
	if numWorkers < 1 {
		return nil, fmt.Errorf("rabbitmq transport needs at least one worker, got %d", numWorkers)
	}

	t := &RabbitMQTransport{
		inbox:  make(chan Envelope, numWorkers),
		closed: make(chan struct{}),
	}

	for i := 0; i < numWorkers; i++ {
		producer := workerqueue.NewMessageMiddlewareQueue(queues.RangeQueueName(i), config)
		if producer == nil {
			t.Close()
			return nil, fmt.Errorf("failed to create producer for %s", queues.RangeQueueName(i))
		}
		t.rangeProducers = append(t.rangeProducers, producer)
		if err := producer.DeclareQueue(false, false, false, false); err != 0 {
			t.Close()
			return nil, fmt.Errorf("failed to declare %s: %v", queues.RangeQueueName(i), err)
		}
	}

	var err error
	if t.resultConsumer, err = t.consume(queues.ResultQueue, config, false); err != nil {
		t.Close()
		return nil, err
	}
	if t.errorConsumer, err = t.consume(queues.ErrorQueue, config, true); err != nil {
		t.Close()
		return nil, err
	}

	return t, nil
}

func (t *RabbitMQTransport) consume(queueName string, config *middleware.ConnectionConfig, failed bool) (*workerqueue.QueueConsumer, error) {
	consumer := workerqueue.NewQueueConsumer(queueName, config)
	if consumer == nil {
		return nil, fmt.Errorf("failed to create consumer for %s", queueName)
	}
	if err := consumer.DeclareQueue(false); err != 0 {
		consumer.Close()
		return nil, fmt.Errorf("failed to declare %s: %v", queueName, err)
	}

	callback := func(consumeChannel middleware.ConsumeChannel, done chan error) {
		for delivery := range *consumeChannel {
			select {
			case t.inbox <- Envelope{Body: delivery.Body, Failed: failed}:
				delivery.Ack(false)
			case <-t.closed:
				delivery.Nack(false, true)
				done <- nil
				return
			}
		}
		done <- nil
	}

	if err := consumer.StartConsuming(callback); err != 0 {
		consumer.Close()
		return nil, fmt.Errorf("failed to consume %s: %v", queueName, err)
	}
	return consumer, nil
}

func (t *RabbitMQTransport) Dispatch(ctx context.Context, workerID int, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if workerID < 0 || workerID >= len(t.rangeProducers) {
		return fmt.Errorf("unknown worker %d", workerID)
	}
	if err := t.rangeProducers[workerID].Send(body); err != 0 {
		return fmt.Errorf("failed to send range to worker %d: %v", workerID, err)
	}
	return nil
}

func (t *RabbitMQTransport) Gather(ctx context.Context) (Envelope, error) {
	select {
	case env := <-t.inbox:
		return env, nil
	case <-t.closed:
		return Envelope{}, ErrTransportClosed
	case <-ctx.Done():
		return Envelope{}, ctx.Err()
	}
}

func (t *RabbitMQTransport) Close() error {
	t.closeOnce.Do(func() {
		close(t.closed)
		if t.resultConsumer != nil {
			t.resultConsumer.Close()
		}
		if t.errorConsumer != nil {
			t.errorConsumer.Close()
		}
		for _, producer := range t.rangeProducers {
			producer.Close()
		}
	})
	return nil
}
