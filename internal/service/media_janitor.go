package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prasaddsahil07/vdoTube/internal/domain"
	"github.com/prasaddsahil07/vdoTube/pkg/kafka"
	"github.com/prasaddsahil07/vdoTube/pkg/metrics"
	"github.com/prasaddsahil07/vdoTube/pkg/retry"
	"github.com/prasaddsahil07/vdoTube/pkg/telemetry"
	"go.uber.org/zap"
)

// RecordSource is the consumer side of the media topic
type RecordSource interface {
	Poll(ctx context.Context) ([]*kafka.Record, error)
	CommitRecords(ctx context.Context, records []*kafka.Record) error
}

// RecordProcessor runs a record handler with retries and dead-lettering
type RecordProcessor interface {
	Process(ctx context.Context, msg *retry.MessageContext, op retry.Operation) error
}

// MediaJanitor deletes objects announced on the media.discarded topic
type MediaJanitor struct {
	source RecordSource
	media  MediaService
	dlq    RecordProcessor
	log    *zap.Logger

	// pollBackoff is the pause after a failed poll
	pollBackoff time.Duration
}

// NewMediaJanitor creates a janitor; dlq may be nil to process without retries
func NewMediaJanitor(source RecordSource, media MediaService, dlq RecordProcessor, log *zap.Logger) *MediaJanitor {
	if log == nil {
		log = zap.NewNop()
	}
	return &MediaJanitor{
		source:      source,
		media:       media,
		dlq:         dlq,
		log:         log,
		pollBackoff: time.Second,
	}
}

// Run polls until ctx is done or the source closes
func (j *MediaJanitor) Run(ctx context.Context) error {
	j.log.Info("media janitor started")
	defer j.log.Info("media janitor stopped")

	for {
		records, err := j.source.Poll(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, kafka.ErrConsumerClosed) {
				return nil
			}
			j.log.Warn("poll failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(j.pollBackoff):
			}
			continue
		}

		done := make([]*kafka.Record, 0, len(records))
		for _, r := range records {
			if err := j.HandleRecord(ctx, r); err != nil {
				if errors.Is(err, retry.ErrContextCanceled) || ctx.Err() != nil {
					// uncommitted records are redelivered after restart
					break
				}
				j.log.Error("media cleanup failed",
					zap.String("topic", r.Topic),
					zap.Int64("offset", r.Offset),
					zap.Error(err),
				)
			}
			done = append(done, r)
		}

		if err := j.source.CommitRecords(context.WithoutCancel(ctx), done); err != nil {
			j.log.Warn("commit failed", zap.Int("records", len(done)), zap.Error(err))
		}
	}
}

// HandleRecord decodes one event and deletes the object it names
func (j *MediaJanitor) HandleRecord(ctx context.Context, r *kafka.Record) error {
	headers := kafka.Headers(r)
	ctx = telemetry.ExtractFromMap(ctx, headers)
	ctx, span := telemetry.StartSpan(ctx, "service.media_janitor.handle")
	defer span.End()

	op := func(ctx context.Context) error {
		var event domain.MediaDiscardedEvent
		if err := json.Unmarshal(r.Value, &event); err != nil {
			return retry.Permanent(fmt.Errorf("decode media event: %w", err))
		}
		if event.URL == "" {
			return retry.Permanent(errors.New("media event without url"))
		}
		return j.media.Purge(ctx, event.URL)
	}

	var err error
	if j.dlq == nil {
		err = op(ctx)
	} else {
		err = j.dlq.Process(ctx, &retry.MessageContext{
			Topic:   r.Topic,
			Key:     string(r.Key),
			Payload: r.Value,
			Headers: headers,
		}, op)
	}

	metrics.MediaCleanup.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		span.RecordError(err)
	}
	return err
}
