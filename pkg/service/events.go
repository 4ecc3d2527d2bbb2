package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/thanhthanh221/identity-gateway/pkg/metrics"
	"github.com/thanhthanh221/identity-gateway/pkg/models"
)

// EventPublisher delivers domain events after a mutation has been applied
type EventPublisher interface {
	Publish(ctx context.Context, event models.UserEvent) error
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, models.UserEvent) error { return nil }

// publishEvent sends an event and only logs a failure: the external mutation already happened
func publishEvent(ctx context.Context, publisher EventPublisher, logger *logrus.Logger, eventType, subjectID, actorID string, data map[string]any) {
	if publisher == nil {
		return
	}
	event := models.UserEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		SubjectID:  subjectID,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
	if err := publisher.Publish(ctx, event); err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(eventType, "failed").Inc()
		logger.WithError(err).WithFields(logrus.Fields{
			"event_type": eventType,
			"subject_id": subjectID,
		}).Warn("failed to publish event")
		return
	}
	metrics.EventsPublishedTotal.WithLabelValues(eventType, "published").Inc()
}
