package main

import (
	"github.com/reviewstats/partagg/shared/middleware"
)

// processMessage aggregates one range and publishes the single reply.
func (aw *AggregatorWorker) processMessage(body []byte) middleware.MessageMiddlewareError {
	reply := aw.handler.Handle(aw.ctx, aw.workerID, body)

	producer := aw.resultProducer
	if reply.Failed {
		producer = aw.errorProducer
	}

	if err := producer.Send(reply.Body); err != 0 {
		return err
	}

	middleware.LogDebug(aw.component, "Reply sent to %s", producer.QueueName)
	return 0
}
