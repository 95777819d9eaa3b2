package coordination

import (
	"context"
	"errors"
)

// ErrTransportClosed is returned once a transport has been closed.
var ErrTransportClosed = errors.New("transport closed")

// Envelope is one message a worker sent back. Failed is set when it arrived
// on the error channel.
type Envelope struct {
	Body   []byte
	Failed bool
}

// Transport moves serialized messages between the coordinator and the
// workers. Dispatch hands a range message to one worker; Gather blocks until
// any worker replies or ctx is done.
type Transport interface {
	Dispatch(ctx context.Context, workerID int, body []byte) error
	Gather(ctx context.Context) (Envelope, error)
	Close() error
}
