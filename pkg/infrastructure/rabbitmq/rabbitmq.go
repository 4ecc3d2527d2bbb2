package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/thanhthanh221/identity-gateway/pkg/common"
	"github.com/thanhthanh221/identity-gateway/pkg/models"
)

const appID = "identity-gateway"

// amqpChannel is the part of *amqp.Channel the publisher uses
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	Close() error
}

// Publisher sends domain events to a durable topic exchange, one routing key per event type
type Publisher struct {
	conn       *amqp.Connection
	channel    amqpChannel
	exchange   string
	logger     *logrus.Logger
	tracer     trace.TracerProvider
	propagator propagation.TextMapPropagator
}

// NewPublisher dials the broker and declares the events exchange
func NewPublisher(url, exchange string, logger *logrus.Logger, tracer trace.TracerProvider) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		logger.Errorf("Failed to connect to RabbitMQ: error=%s", err.Error())
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Errorf("Failed to open RabbitMQ channel: error=%s", err.Error())
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	p, err := newPublisher(channel, exchange, logger, tracer)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn

	logger.WithField("exchange", exchange).Info("Successfully connected to RabbitMQ")
	return p, nil
}

func newPublisher(channel amqpChannel, exchange string, logger *logrus.Logger, tracer trace.TracerProvider) (*Publisher, error) {
	if err := channel.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return &Publisher{
		channel:    channel,
		exchange:   exchange,
		logger:     logger,
		tracer:     tracer,
		propagator: otel.GetTextMapPropagator(), // W3C Trace Context propagator
	}, nil
}

// trace creates a new span for RabbitMQ operations
func (p *Publisher) trace(ctx context.Context, operation string) (context.Context, trace.Span) {
	tracer := p.tracer.Tracer("rabbitmq.client")
	return tracer.Start(ctx, fmt.Sprintf("rabbitmq.%s", operation), trace.WithSpanKind(trace.SpanKindProducer))
}

// Publish implements services.EventPublisher
func (p *Publisher) Publish(ctx context.Context, event models.UserEvent) error {
	options := models.PublishOptions{
		MessageID: event.ID,
		Timestamp: event.OccurredAt,
		Type:      event.Type,
		AppID:     appID,
	}
	if requestID := common.RequestID(ctx); requestID != "" {
		options.Headers = map[string]any{"x-request-id": requestID}
	}
	return p.PublishWithOptions(ctx, event.Type, event, options)
}

// PublishWithOptions publishes a JSON message with custom options
func (p *Publisher) PublishWithOptions(ctx context.Context, routingKey string, message any, options models.PublishOptions) error {
	ctx, span := p.trace(ctx, "publish")
	defer span.End()

	span.SetAttributes(
		attribute.String("rabbitmq.exchange", p.exchange),
		attribute.String("rabbitmq.routing_key", routingKey),
	)

	body, err := json.Marshal(message)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	contentType := options.ContentType
	if contentType == "" {
		contentType = "application/json"
	}

	publishing := amqp.Publishing{
		ContentType:  contentType,
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Headers:      make(amqp.Table),
		MessageId:    options.MessageID,
		Type:         options.Type,
		AppId:        options.AppID,
	}
	if !options.Timestamp.IsZero() {
		publishing.Timestamp = options.Timestamp
	}
	if options.Headers != nil {
		maps.Copy(publishing.Headers, options.Headers)
	}
	if options.MessageID != "" {
		publishing.Headers["x-message-id"] = options.MessageID
	}

	// Inject tracing context into message headers for distributed tracing
	carrier := &models.AMQPCarrier{Headers: publishing.Headers}
	p.propagator.Inject(ctx, carrier)
	publishing.Headers = carrier.Headers

	if err := p.channel.PublishWithContext(ctx, p.exchange, routingKey, options.Mandatory, false, publishing); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.logger.Errorf("Failed to publish message to RabbitMQ: exchange=%s, routing_key=%s, error=%s", p.exchange, routingKey, err.Error())
		return fmt.Errorf("failed to publish message: %w", err)
	}

	span.SetAttributes(attribute.Int("rabbitmq.message_size", len(body)))
	span.SetStatus(codes.Ok, "Message published successfully")
	p.logger.Debugf("Message published: exchange=%s, routing_key=%s, message_id=%s", p.exchange, routingKey, options.MessageID)
	return nil
}

// Close closes the channel and the connection
func (p *Publisher) Close() error {
	var errs []error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing RabbitMQ: %v", errs)
	}
	return nil
}
