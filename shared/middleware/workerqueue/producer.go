package workerqueue

import (
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/reviewstats/partagg/shared/middleware"
)

// QueueMiddleware wraps the middleware.MessageMiddlewareQueue with producer methods
type QueueMiddleware struct {
	*middleware.MessageMiddlewareQueue
}

// NewMessageMiddlewareQueue creates a new QueueMiddleware instance
func NewMessageMiddlewareQueue(queueName string, config *middleware.ConnectionConfig) *QueueMiddleware {
	conn, channel, err := middleware.CreateMiddlewareChannel(config)
	if err != nil {
		middleware.LogError("Queue Producer", "Failed to create channel for queue '%s': %v", queueName, err)
		return nil
	}

	return &QueueMiddleware{
		MessageMiddlewareQueue: &middleware.MessageMiddlewareQueue{
			QueueName: queueName,
			Conn:      conn,
			Channel:   channel,
		},
	}
}

// DeclareQueue declares the queue on the RabbitMQ server.
// Parameters:
//   - durable: If true, the queue will survive server restarts
//   - autoDelete: If true, the queue will be deleted when no longer used
//   - exclusive: If true, the queue can only be used by one connection
//   - noWait: If true, don't wait for a server response
func (m *QueueMiddleware) DeclareQueue(
	durable bool,
	autoDelete bool,
	exclusive bool,
	noWait bool,
) middleware.MessageMiddlewareError {
	if m.Channel == nil {
		return middleware.MessageMiddlewareDisconnectedError
	}

	_, err := m.Channel.QueueDeclare(
		m.QueueName,
		durable,
		autoDelete,
		exclusive,
		noWait,
		nil, // arguments
	)
	if err != nil {
		middleware.LogError("Queue Producer", "Failed to declare queue '%s': %v", m.QueueName, err)
		return middleware.MessageMiddlewareMessageError
	}

	middleware.LogDebug("Queue Producer", "Declared queue '%s' (durable: %t)", m.QueueName, durable)
	return 0
}

// Send publishes one message to the queue through the default exchange.
func (m *QueueMiddleware) Send(
	message []byte,
) middleware.MessageMiddlewareError {
	if m.Channel == nil {
		return middleware.MessageMiddlewareDisconnectedError
	}

	err := m.Channel.Publish(
		"",          // exchange (empty for default queue)
		m.QueueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/octet-stream",
			DeliveryMode: amqp.Persistent,
			Body:         message,
		},
	)
	if err != nil {
		middleware.LogError("Queue Producer", "Send error on queue '%s': %v", m.QueueName, err)
		return middleware.MessageMiddlewareMessageError
	}
	middleware.LogDebug("Queue Producer", "Sent %d bytes to queue '%s'", len(message), m.QueueName)

	return 0
}

// Delete forces the remote deletion of the queue.
func (m *QueueMiddleware) Delete() middleware.MessageMiddlewareError {
	if m.Channel == nil {
		return middleware.MessageMiddlewareDisconnectedError
	}

	_, err := m.Channel.QueueDelete(
		m.QueueName,
		false, // ifUnused
		false, // ifEmpty
		false, // noWait
	)
	if err != nil {
		middleware.LogError("Queue Producer", "Delete error on queue '%s': %v", m.QueueName, err)
		return middleware.MessageMiddlewareDeleteError
	}

	return 0
}

// Close disconnects the channel and its connection.
func (m *QueueMiddleware) Close() middleware.MessageMiddlewareError {
	if m.Channel == nil {
		return 0 // Already closed
	}

	if err := m.Channel.Close(); err != nil {
		middleware.LogError("Queue Producer", "Close error on queue '%s': %v", m.QueueName, err)
		return middleware.MessageMiddlewareCloseError
	}
	m.Channel = nil

	if m.Conn != nil {
		m.Conn.Close()
		m.Conn = nil
	}

	return 0
}
