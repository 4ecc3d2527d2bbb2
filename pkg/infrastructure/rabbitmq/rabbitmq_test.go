package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/thanhthanh221/identity-gateway/pkg/common"
	"github.com/thanhthanh221/identity-gateway/pkg/models"
)

type fakeChannel struct {
	declared   []string
	published  []amqp.Publishing
	keys       []string
	publishErr error
	declareErr error
	closed     bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, _, _, _, _ bool, _ amqp.Table) error {
	if f.declareErr != nil {
		return f.declareErr
	}
	f.declared = append(f.declared, name+":"+kind)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestNewPublisherDeclaresTopicExchange(t *testing.T) {
	ch := &fakeChannel{}
	_, err := newPublisher(ch, "identity.events", quietLogger(), noop.NewTracerProvider())

	require.NoError(t, err)
	assert.Equal(t, []string{"identity.events:topic"}, ch.declared)

	_, err = newPublisher(&fakeChannel{declareErr: errors.New("access refused")}, "x", quietLogger(), noop.NewTracerProvider())
	assert.Error(t, err)
}

func TestPublishEvent(t *testing.T) {
	ch := &fakeChannel{}
	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())
	p, err := newPublisher(ch, "identity.events", quietLogger(), tp)
	require.NoError(t, err)
	p.propagator = propagation.TraceContext{}

	event := models.UserEvent{
		ID:         "evt-1",
		Type:       models.EventUserCreated,
		SubjectID:  "u1",
		ActorID:    "admin",
		OccurredAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	ctx := common.WithRequestID(context.Background(), "req-42")
	require.NoError(t, p.Publish(ctx, event))

	require.Len(t, ch.published, 1)
	msg := ch.published[0]
	assert.Equal(t, models.EventUserCreated, ch.keys[0])
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, "evt-1", msg.MessageId)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "evt-1", msg.Headers["x-message-id"])
	assert.NotEmpty(t, msg.Headers["traceparent"])
	assert.Equal(t, "req-42", msg.Headers["x-request-id"])

	var decoded models.UserEvent
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, event, decoded)
}

func TestPublishFailure(t *testing.T) {
	ch := &fakeChannel{publishErr: amqp.ErrClosed}
	p, err := newPublisher(ch, "identity.events", quietLogger(), noop.NewTracerProvider())
	require.NoError(t, err)

	err = p.Publish(context.Background(), models.UserEvent{Type: models.EventUserDeleted})
	assert.ErrorIs(t, err, amqp.ErrClosed)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestAMQPCarrier(t *testing.T) {
	carrier := &models.AMQPCarrier{}
	assert.Empty(t, carrier.Get("traceparent"))

	carrier.Set("traceparent", "00-abc-def-01")
	carrier.Headers["count"] = 3

	assert.Equal(t, "00-abc-def-01", carrier.Get("traceparent"))
	assert.Empty(t, carrier.Get("count"))
	assert.ElementsMatch(t, []string{"traceparent", "count"}, carrier.Keys())
}
