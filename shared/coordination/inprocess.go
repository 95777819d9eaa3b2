package coordination

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/reviewstats/partagg/shared/jobworker"
	"github.com/reviewstats/partagg/shared/middleware"
)

// WorkerFunc handles one range message and returns the worker's reply.
type WorkerFunc func(ctx context.Context, workerID int, body []byte) jobworker.Reply

// InProcessTransport runs each worker in its own goroutine. Every worker has
// a private range channel and all of them share one result and one error
// channel. Only serialized bytes cross the channels.
type InProcessTransport struct {
	ranges  []chan []byte
	results chan Envelope
	errors  chan Envelope

	cancel    context.CancelFunc
	group     *errgroup.Group
	closeOnce sync.Once
}

// NewInProcessTransport starts numWorkers goroutines running handle.
func NewInProcessTransport(ctx context.Context, numWorkers int, handle WorkerFunc) (*InProcessTransport, error) {
	if numWorkers < 1 {
		return nil, fmt.Errorf("in-process transport needs at least one worker, got %d", numWorkers)
	}

	ctx, cancel := context.WithCancel(ctx)
	group, groupCtx := errgroup.WithContext(ctx)

	t := &InProcessTransport{
		ranges:  make([]chan []byte, numWorkers),
		results: make(chan Envelope, numWorkers),
		errors:  make(chan Envelope, numWorkers),
		cancel:  cancel,
		group:   group,
	}

	for i := range t.ranges {
		t.ranges[i] = make(chan []byte, 1)
	}
	for i := range t.ranges {
		workerID := i
		group.Go(func() error {
			return t.runWorker(groupCtx, workerID, handle)
		})
	}

	return t, nil
}

func (t *InProcessTransport) runWorker(ctx context.Context, workerID int, handle WorkerFunc) error {
	component := fmt.Sprintf("Worker %d", workerID)
	for {
		select {
		case <-ctx.Done():
			return nil
		case body, ok := <-t.ranges[workerID]:
			if !ok {
				return nil
			}

			reply := handle(ctx, workerID, body)
			out := t.results
			if reply.Failed {
				out = t.errors
			}

			select {
			case out <- Envelope{Body: reply.Body, Failed: reply.Failed}:
				middleware.LogDebug(component, "Reply sent (failed=%v)", reply.Failed)
			case <-ctx.Done():
				return nil
			}
		}
	}
}

func (t *InProcessTransport) Dispatch(ctx context.Context, workerID int, body []byte) error {
	if workerID < 0 || workerID >= len(t.ranges) {
		return fmt.Errorf("unknown worker %d", workerID)
	}

	select {
	case t.ranges[workerID] <- body:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *InProcessTransport) Gather(ctx context.Context) (Envelope, error) {
	select {
	case env := <-t.results:
		return env, nil
	case env := <-t.errors:
		return env, nil
	case <-ctx.Done():
		return Envelope{}, ctx.Err()
	}
}

// Close stops the workers and waits for them to exit.
func (t *InProcessTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		t.cancel()
		err = t.group.Wait()
	})
	return err
}
