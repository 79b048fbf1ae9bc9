package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prasaddsahil07/vdoTube/internal/domain"
	"github.com/prasaddsahil07/vdoTube/pkg/logger"
	"github.com/prasaddsahil07/vdoTube/pkg/metrics"
	"github.com/prasaddsahil07/vdoTube/pkg/telemetry"
	"go.uber.org/zap"
)

// MessageProducer is satisfied by pkg/kafka.Producer
type MessageProducer interface {
	ProduceJSON(ctx context.Context, topic, key string, data interface{}, headers map[string]string) error
}

// EventPublisher sends domain events to the message bus
type EventPublisher interface {
	// PublishActivity records a user action. Failures are logged, never returned:
	// activity events must not fail the request that caused them.
	PublishActivity(ctx context.Context, event *domain.ActivityEvent)
	// PublishMediaDiscarded hands an unreferenced object to the media janitor
	PublishMediaDiscarded(ctx context.Context, event *domain.MediaDiscardedEvent) error
	// Async reports whether published events are consumed elsewhere
	Async() bool
}

// kafkaEventPublisher implements EventPublisher on Kafka
type kafkaEventPublisher struct {
	producer      MessageProducer
	activityTopic string
	mediaTopic    string
}

// NewKafkaEventPublisher creates an EventPublisher writing to the given topics
func NewKafkaEventPublisher(producer MessageProducer, activityTopic, mediaTopic string) EventPublisher {
	return &kafkaEventPublisher{
		producer:      producer,
		activityTopic: activityTopic,
		mediaTopic:    mediaTopic,
	}
}

func (p *kafkaEventPublisher) PublishActivity(ctx context.Context, event *domain.ActivityEvent) {
	ctx, span := telemetry.StartSpan(ctx, "service.events.publish_activity")
	defer span.End()

	// keyed by actor so one user's events stay ordered
	err := p.producer.ProduceJSON(ctx, p.activityTopic, event.ActorID, event, telemetry.InjectToMap(ctx))
	metrics.EventsPublished.WithLabelValues(event.Type, metrics.Result(err)).Inc()
	if err != nil {
		span.RecordError(err)
		logger.Get().Warn("failed to publish activity event",
			zap.String("type", event.Type),
			zap.String("actor_id", event.ActorID),
			zap.Error(err),
		)
	}
}

func (p *kafkaEventPublisher) PublishMediaDiscarded(ctx context.Context, event *domain.MediaDiscardedEvent) error {
	ctx, span := telemetry.StartSpan(ctx, "service.events.publish_media_discarded")
	defer span.End()

	err := p.producer.ProduceJSON(ctx, p.mediaTopic, event.URL, event, telemetry.InjectToMap(ctx))
	metrics.EventsPublished.WithLabelValues(domain.EventMediaDiscarded, metrics.Result(err)).Inc()
	if err != nil {
		span.RecordError(err)
	}
	return err
}

func (p *kafkaEventPublisher) Async() bool { return true }

// NoOpEventPublisher drops events; used when messaging is disabled
type NoOpEventPublisher struct{}

func (NoOpEventPublisher) PublishActivity(ctx context.Context, event *domain.ActivityEvent) {}

func (NoOpEventPublisher) PublishMediaDiscarded(ctx context.Context, event *domain.MediaDiscardedEvent) error {
	return nil
}

func (NoOpEventPublisher) Async() bool { return false }

// newActivity builds an activity event with a fresh id
func newActivity(eventType, actorID string, kind domain.ToggleKind, targetID string) *domain.ActivityEvent {
	return &domain.ActivityEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		ActorID:    actorID,
		TargetKind: string(kind),
		TargetID:   targetID,
		OccurredAt: time.Now().UTC(),
	}
}
