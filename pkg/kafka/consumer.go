package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// ErrConsumerClosed is returned by Poll after Close
var ErrConsumerClosed = errors.New("kafka: consumer closed")

// ConsumerConfig holds consumer group settings
type ConsumerConfig struct {
	Brokers        []string
	GroupID        string
	Topics         []string
	ClientID       string
	MaxRetries     int
	RetryInterval  time.Duration
	SessionTimeout time.Duration
}

// Consumer reads records as a group member. Offsets are committed explicitly.
type Consumer struct {
	client *kgo.Client
}

// NewConsumer joins the consumer group once a broker answers
func NewConsumer(ctx context.Context, cfg *ConsumerConfig) (*Consumer, error) {
	if cfg == nil || len(cfg.Brokers) == 0 {
		return nil, ErrNoBrokers
	}
	if cfg.GroupID == "" || len(cfg.Topics) == 0 {
		return nil, errors.New("kafka: consumer needs a group id and at least one topic")
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumerGroup(cfg.GroupID),
		kgo.ConsumeTopics(cfg.Topics...),
		kgo.DisableAutoCommit(),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	}
	if cfg.ClientID != "" {
		opts = append(opts, kgo.ClientID(cfg.ClientID))
	}
	if cfg.SessionTimeout > 0 {
		opts = append(opts, kgo.SessionTimeout(cfg.SessionTimeout))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer: %w", err)
	}

	if err := pingWithRetry(ctx, client, cfg.MaxRetries, cfg.RetryInterval); err != nil {
		client.Close()
		return nil, err
	}

	return &Consumer{client: client}, nil
}

// Poll blocks until records are available or ctx is done
func (c *Consumer) Poll(ctx context.Context) ([]*Record, error) {
	fetches := c.client.PollFetches(ctx)
	if fetches.IsClientClosed() {
		return nil, ErrConsumerClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var errs []error
	for _, fe := range fetches.Errors() {
		errs = append(errs, fmt.Errorf("fetch %s[%d]: %w", fe.Topic, fe.Partition, fe.Err))
	}

	var records []*Record
	fetches.EachRecord(func(r *kgo.Record) {
		records = append(records, r)
	})

	if len(records) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return records, nil
}

// CommitRecords marks records as processed
func (c *Consumer) CommitRecords(ctx context.Context, records []*Record) error {
	if len(records) == 0 {
		return nil
	}
	return c.client.CommitRecords(ctx, records...)
}

// Close leaves the group and closes the client
func (c *Consumer) Close() {
	c.client.Close()
}

// Headers flattens record headers; later duplicates win
func Headers(r *Record) map[string]string {
	h := make(map[string]string, len(r.Headers))
	for _, rh := range r.Headers {
		h[rh.Key] = string(rh.Value)
	}
	return h
}
