package client

import (
	"context"
	"hitcounter/pkg/kafka"
	"hitcounter/pkg/logger"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// Client owns the process-wide connections. It is built once in main and
// handed explicitly to whatever needs a handle.
type Client struct {
	Mongo  *mongo.Client
	Events *kafka.Dispatcher
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) SetMongo(log *logger.Logger, mongoURI string, mongoConnTimeout time.Duration) {
	c.Mongo = ConnectMongo(log, mongoURI, mongoConnTimeout)
}

func (c *Client) SetEventStream(dispatcher *kafka.Dispatcher) {
	c.Events = dispatcher
}

// GracefulShutdown drains and closes the event stream, then disconnects
// MongoDB. Both share ctx.
func (c *Client) GracefulShutdown(ctx context.Context, log *logger.Logger) {
	if c.Events != nil {
		if err := c.Events.Shutdown(ctx); err != nil {
			log.Error("Failed to close event producer", "error", err)
		} else {
			log.Info("Event producer closed")
		}
	}

	if c.Mongo != nil {
		if err := c.Mongo.Disconnect(ctx); err != nil {
			log.Error("Failed to disconnect from MongoDB", "error", err)
		} else {
			log.Info("Disconnected from MongoDB")
		}
	}
}

// DisconnectWithin is GracefulShutdown bounded by timeout.
func (c *Client) DisconnectWithin(timeout time.Duration, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	c.GracefulShutdown(ctx, log)
}
