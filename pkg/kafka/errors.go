package kafka

import "errors"

var (
	// ErrProducerClosed indicates the producer has been closed
	ErrProducerClosed = errors.New("kafka producer is closed")

	// ErrInvalidMessage indicates the message could not be built
	ErrInvalidMessage = errors.New("invalid message")

	// ErrEmptyKey indicates the message key is empty
	ErrEmptyKey = errors.New("message key cannot be empty")

	// ErrEmptyValue indicates the message value is empty
	ErrEmptyValue = errors.New("message value cannot be empty")

	// ErrQueueFull indicates the dispatcher queue had no room for the message
	ErrQueueFull = errors.New("kafka dispatch queue is full")

	// ErrNoBrokers indicates the producer was configured without brokers
	ErrNoBrokers = errors.New("at least one broker is required")
)
