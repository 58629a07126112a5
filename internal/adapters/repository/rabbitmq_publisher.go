package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/IANDYI/health-tracker/internal/core/ports"
	"github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
)

// DefaultEventsQueue is the queue health events go to when none is configured
const DefaultEventsQueue = "health_events"

// RabbitMQPublisher implements EventPublisher for publishing health events to RabbitMQ
// Includes retry logic and circuit breaker for resilience
type RabbitMQPublisher struct {
	conn          *amqp091.Connection
	channel       *amqp091.Channel
	queueName     string
	cb            *gobreaker.CircuitBreaker
	maxRetries    int
	retryDelay    time.Duration
	connMutex     sync.RWMutex
	reconnectCh   chan bool
	stopReconnect chan bool
}

// NewRabbitMQPublisher creates a new RabbitMQ publisher with circuit breaker
func NewRabbitMQPublisher(rabbitMQURL string, queueName string, settings BreakerSettings) (*RabbitMQPublisher, error) {
	if queueName == "" {
		queueName = DefaultEventsQueue
	}

	publisher := &RabbitMQPublisher{
		queueName:     queueName,
		cb:            newCircuitBreaker("rabbitmq", settings),
		maxRetries:    3,
		retryDelay:    1 * time.Second,
		reconnectCh:   make(chan bool, 1),
		stopReconnect: make(chan bool),
	}

	if err := publisher.connect(rabbitMQURL); err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	go publisher.handleReconnection(rabbitMQURL)

	return publisher, nil
}

// connect dials RabbitMQ and declares the durable events queue
func (p *RabbitMQPublisher) connect(rabbitMQURL string) error {
	var conn *amqp091.Connection
	var err error
	for i := 0; i < p.maxRetries; i++ {
		conn, err = amqp091.Dial(rabbitMQURL)
		if err == nil {
			break
		}
		log.Printf("Failed to connect to RabbitMQ (attempt %d/%d): %v", i+1, p.maxRetries, err)
		if i < p.maxRetries-1 {
			time.Sleep(p.retryDelay)
		}
	}
	if err != nil {
		return err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}

	// Declare queue (idempotent)
	_, err = channel.QueueDeclare(
		p.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return err
	}

	p.connMutex.Lock()
	p.conn = conn
	p.channel = channel
	p.connMutex.Unlock()

	log.Printf("Connected to RabbitMQ, publishing to queue %s", p.queueName)
	return nil
}

// handleReconnection reconnects whenever a publish finds the channel gone
func (p *RabbitMQPublisher) handleReconnection(rabbitMQURL string) {
	for {
		select {
		case <-p.reconnectCh:
			log.Println("Attempting to reconnect to RabbitMQ...")
			p.connMutex.Lock()
			if p.channel != nil {
				p.channel.Close()
			}
			if p.conn != nil {
				p.conn.Close()
			}
			p.connMutex.Unlock()

			if err := p.connect(rabbitMQURL); err != nil {
				log.Printf("Reconnection failed: %v", err)
			}
		case <-p.stopReconnect:
			return
		}
	}
}

// Publish sends a health event as a persistent JSON message
func (p *RabbitMQPublisher) Publish(ctx context.Context, event ports.HealthEvent) error {
	_, err := p.cb.Execute(func() (interface{}, error) {
		return nil, p.publishWithRetry(ctx, event)
	})
	return err
}

func (p *RabbitMQPublisher) requestReconnect() {
	select {
	case p.reconnectCh <- true:
	default:
	}
}

// publishWithRetry publishes with retry logic
func (p *RabbitMQPublisher) publishWithRetry(ctx context.Context, event ports.HealthEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal health event: %w", err)
	}

	var lastErr error
	for i := 0; i < p.maxRetries; i++ {
		p.connMutex.RLock()
		ch := p.channel
		conn := p.conn
		p.connMutex.RUnlock()

		if ch == nil || conn == nil || conn.IsClosed() {
			lastErr = amqp091.ErrClosed
			p.requestReconnect()
			time.Sleep(p.retryDelay)
			continue
		}

		err = ch.PublishWithContext(
			ctx,
			"",          // exchange
			p.queueName, // routing key
			false,       // mandatory
			false,       // immediate
			amqp091.Publishing{
				ContentType:  "application/json",
				Type:         event.EventType,
				Body:         body,
				DeliveryMode: amqp091.Persistent,
				Timestamp:    event.Timestamp,
			},
		)
		if err == nil {
			return nil
		}

		lastErr = err
		log.Printf("Failed to publish %s event (attempt %d/%d): %v", event.EventType, i+1, p.maxRetries, err)

		if i < p.maxRetries-1 {
			p.requestReconnect()
			time.Sleep(p.retryDelay)
		}
	}

	return fmt.Errorf("failed to publish event after %d retries: %w", p.maxRetries, lastErr)
}

// Close closes the RabbitMQ connection
func (p *RabbitMQPublisher) Close() error {
	close(p.stopReconnect)
	p.connMutex.Lock()
	defer p.connMutex.Unlock()

	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Ensure RabbitMQPublisher implements the interface
var _ ports.EventPublisher = (*RabbitMQPublisher)(nil)
