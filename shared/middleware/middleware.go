package middleware

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageMiddlewareError is the status code returned by every queue operation.
// Zero means success.
type MessageMiddlewareError int

const (
	MessageMiddlewareMessageError MessageMiddlewareError = iota + 1
	MessageMiddlewareDisconnectedError
	MessageMiddlewareCloseError
	MessageMiddlewareDeleteError
)

func (e MessageMiddlewareError) String() string {
	switch e {
	case 0:
		return "ok"
	case MessageMiddlewareMessageError:
		return "message error"
	case MessageMiddlewareDisconnectedError:
		return "disconnected"
	case MessageMiddlewareCloseError:
		return "close error"
	case MessageMiddlewareDeleteError:
		return "delete error"
	default:
		return "unknown middleware error"
	}
}

// MiddlewareChannel is the AMQP channel shared by producers and consumers.
type MiddlewareChannel = *amqp.Channel

// ConsumeChannel is the delivery stream handed to consumer callbacks.
type ConsumeChannel = *<-chan amqp.Delivery

// OnMessageCallback receives the delivery stream and reports through done when it stops.
type OnMessageCallback func(consumeChannel ConsumeChannel, done chan error)

// MessageMiddlewareQueue binds a queue name to an open channel.
type MessageMiddlewareQueue struct {
	QueueName      string
	Conn           *amqp.Connection
	Channel        MiddlewareChannel
	ConsumeChannel ConsumeChannel
}
