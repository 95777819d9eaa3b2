package workerqueue

import (
	"github.com/reviewstats/partagg/shared/middleware"
)

// QueueConsumer wraps the middleware.MessageMiddlewareQueue with consumer methods
type QueueConsumer struct {
	*middleware.MessageMiddlewareQueue
	consumerTag string
}

// NewQueueConsumer creates a new QueueConsumer instance
func NewQueueConsumer(
	queueName string,
	config *middleware.ConnectionConfig,
) *QueueConsumer {
	conn, channel, err := middleware.CreateMiddlewareChannel(config)
	if err != nil {
		middleware.LogError("Queue Consumer", "Failed to create channel for queue '%s': %v", queueName, err)
		return nil
	}

	return &QueueConsumer{
		MessageMiddlewareQueue: &middleware.MessageMiddlewareQueue{
			QueueName: queueName,
			Conn:      conn,
			Channel:   channel,
		},
		consumerTag: "consumer-" + queueName,
	}
}

// DeclareQueue makes sure the queue exists before consuming from it.
func (m *QueueConsumer) DeclareQueue(durable bool) middleware.MessageMiddlewareError {
	if m.Channel == nil {
		return middleware.MessageMiddlewareDisconnectedError
	}
	if _, err := m.Channel.QueueDeclare(m.QueueName, durable, false, false, false, nil); err != nil {
		middleware.LogError("Queue Consumer", "Failed to declare queue '%s': %v", m.QueueName, err)
		return middleware.MessageMiddlewareMessageError
	}
	return 0
}

// StartConsuming implements the consumer startup logic for MessageMiddlewareQueue.
func (m *QueueConsumer) StartConsuming(
	onMessageCallback middleware.OnMessageCallback,
) middleware.MessageMiddlewareError {
	if m.Channel == nil {
		return middleware.MessageMiddlewareDisconnectedError
	}

	deliveries, err := m.Channel.Consume(
		m.QueueName,
		m.consumerTag,
		false, // auto-ack (we'll handle acknowledgments manually)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		middleware.LogError("Queue Consumer", "Failed to start consuming for queue '%s': %v", m.QueueName, err)
		return middleware.MessageMiddlewareMessageError
	}

	m.ConsumeChannel = &deliveries

	go func() {
		done := make(chan error, 1)
		middleware.LogDebug("Queue Consumer", "Starting consumer for queue '%s'", m.QueueName)
		onMessageCallback(m.ConsumeChannel, done)
	}()

	return 0
}

// StopConsuming implements the consumer shutdown logic.
func (m *QueueConsumer) StopConsuming() middleware.MessageMiddlewareError {
	if m.Channel == nil {
		return middleware.MessageMiddlewareDisconnectedError
	}

	if m.ConsumeChannel == nil {
		middleware.LogDebug("Queue Consumer", "Not consuming for queue '%s', StopConsuming has no effect", m.QueueName)
		return 0
	}

	if err := m.Channel.Cancel(m.consumerTag, false); err != nil {
		middleware.LogError("Queue Consumer", "Failed to cancel consumer for queue '%s': %v", m.QueueName, err)
		return middleware.MessageMiddlewareMessageError
	}

	m.ConsumeChannel = nil
	middleware.LogDebug("Queue Consumer", "Consumer halted for queue '%s'", m.QueueName)

	return 0
}

// Close disconnects the channel.
func (m *QueueConsumer) Close() middleware.MessageMiddlewareError {
	if m.Channel == nil {
		return 0 // Already closed
	}

	if m.ConsumeChannel != nil {
		if stopErr := m.StopConsuming(); stopErr != 0 {
			middleware.LogError("Queue Consumer", "Error stopping consumption during close for queue '%s': %v", m.QueueName, stopErr)
		}
	}

	if err := m.Channel.Close(); err != nil {
		middleware.LogError("Queue Consumer", "Close error for queue '%s': %v", m.QueueName, err)
		return middleware.MessageMiddlewareCloseError
	}
	m.Channel = nil

	if m.Conn != nil {
		m.Conn.Close()
		m.Conn = nil
	}
	middleware.LogDebug("Queue Consumer", "Channel closed for queue '%s'", m.QueueName)

	return 0
}
