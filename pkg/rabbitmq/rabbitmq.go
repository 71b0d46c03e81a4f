package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"

	"shoestore/internal/models"
)

// EventOrderCreated is the type header of order creation messages.
const EventOrderCreated = "order.created"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	logger  *zap.Logger

	// amqp channels are not safe for concurrent publishing.
	mu sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL   string
	Queue string
}

// NewClient connects to RabbitMQ, opens a channel and declares the durable
// order queue.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.Queue == "" {
		cfg.Queue = "order_queue"
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		cfg.Queue, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", cfg.Queue, err)
	}

	logger = logger.Named("rabbitmq")
	logger.Info("RabbitMQ client connected", zap.String("queue", cfg.Queue))

	return &Client{
		conn:    conn,
		channel: ch,
		queue:   cfg.Queue,
		logger:  logger,
	}, nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// PublishOrderCreated publishes a persistent JSON order.created message to
// the order queue.
func (c *Client) PublishOrderCreated(ctx context.Context, event models.OrderCreatedEvent) error {
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	c.mu.Lock()
	err = c.channel.Publish(
		"",      // default exchange
		c.queue, // routing key: the queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         EventOrderCreated,
			MessageId:    event.OrderID,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Debug("order event published", zap.String("order_id", event.OrderID))
	return nil
}

// OrderCreatedHandler processes one decoded order.created event.
type OrderCreatedHandler func(ctx context.Context, event models.OrderCreatedEvent) error

// ConsumeOrderEvents starts consuming the order queue with manual
// acknowledgement. It returns once the consumer is registered; deliveries are
// handled in a goroutine until ctx is done or the channel closes.
func (c *Client) ConsumeOrderEvents(ctx context.Context, handler OrderCreatedHandler) error {
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		c.queue, // queue
		"",      // consumer tag
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("waiting for order events", zap.String("queue", c.queue))

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					c.logger.Warn("order event channel closed")
					return
				}
				HandleDelivery(ctx, msg, handler, c.logger)
			}
		}
	}()
	return nil
}

// DecodeOrderCreated parses the body of an order.created message.
func DecodeOrderCreated(body []byte) (models.OrderCreatedEvent, error) {
	var event models.OrderCreatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return event, fmt.Errorf("failed to decode order event: %w", err)
	}
	if event.OrderID == "" {
		return event, errors.New("order event without order id")
	}
	return event, nil
}

// HandleDelivery decodes msg, runs handler and acknowledges the message.
// Undecodable messages are dropped. A failed handler gets the message
// requeued once; a redelivered message that fails again is dropped.
func HandleDelivery(ctx context.Context, msg amqp.Delivery, handler OrderCreatedHandler, logger *zap.Logger) {
	log := logger.With(zap.Uint64("delivery_tag", msg.DeliveryTag))

	event, err := DecodeOrderCreated(msg.Body)
	if err != nil {
		log.Error("dropping malformed order event", zap.Error(err))
		if nackErr := msg.Nack(false, false); nackErr != nil {
			log.Error("failed to nack message", zap.Error(nackErr))
		}
		return
	}

	if err := handler(ctx, event); err != nil {
		requeue := !msg.Redelivered
		log.Error("failed to process order event",
			zap.String("order_id", event.OrderID),
			zap.Bool("requeue", requeue),
			zap.Error(err),
		)
		if nackErr := msg.Nack(false, requeue); nackErr != nil {
			log.Error("failed to nack message", zap.Error(nackErr))
		}
		return
	}

	if ackErr := msg.Ack(false); ackErr != nil {
		log.Error("failed to ack message", zap.Error(ackErr))
	}
}
