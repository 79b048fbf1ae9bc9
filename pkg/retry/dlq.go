package retry

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// DLQMessage is the envelope written to a dead letter topic
type DLQMessage struct {
	OriginalTopic  string            `json:"original_topic"`
	OriginalKey    string            `json:"original_key"`
	Payload        json.RawMessage   `json:"payload"`
	Headers        map[string]string `json:"headers,omitempty"`
	Error          string            `json:"error"`
	Attempts       int               `json:"attempts"`
	FirstAttemptAt time.Time         `json:"first_attempt_at"`
	MovedToDLQAt   time.Time         `json:"moved_to_dlq_at"`
	Source         string            `json:"source"`
}

// DLQPublisher publishes failed messages to a dead letter queue
type DLQPublisher interface {
	PublishToDLQ(ctx context.Context, msg *DLQMessage) error
}

// JSONProducer is satisfied by pkg/kafka.Producer
type JSONProducer interface {
	ProduceJSON(ctx context.Context, topic, key string, data interface{}, headers map[string]string) error
}

// KafkaDLQPublisher writes failures to "<topic>.dlq"
type KafkaDLQPublisher struct {
	producer JSONProducer
	source   string
}

// NewKafkaDLQPublisher creates a new Kafka DLQ publisher
func NewKafkaDLQPublisher(producer JSONProducer, source string) *KafkaDLQPublisher {
	return &KafkaDLQPublisher{producer: producer, source: source}
}

// DLQTopic returns the dead letter topic for a topic
func DLQTopic(topic string) string {
	return topic + ".dlq"
}

// PublishToDLQ publishes a message to the dead letter queue
func (p *KafkaDLQPublisher) PublishToDLQ(ctx context.Context, msg *DLQMessage) error {
	if msg == nil {
		return fmt.Errorf("DLQ message cannot be nil")
	}

	msg.MovedToDLQAt = time.Now().UTC()
	msg.Source = p.source

	headers := map[string]string{
		"content_type":   "application/json",
		"original_topic": msg.OriginalTopic,
		"attempts":       strconv.Itoa(msg.Attempts),
		"source":         msg.Source,
	}

	return p.producer.ProduceJSON(ctx, DLQTopic(msg.OriginalTopic), msg.OriginalKey, msg, headers)
}

// NoOpDLQPublisher drops dead letters; used when messaging is disabled
type NoOpDLQPublisher struct{}

// PublishToDLQ does nothing
func (NoOpDLQPublisher) PublishToDLQ(ctx context.Context, msg *DLQMessage) error {
	return nil
}

// MessageContext identifies the message being processed
type MessageContext struct {
	Topic   string
	Key     string
	Payload json.RawMessage
	Headers map[string]string
}

// DLQHandler retries an operation and dead-letters the message when retries run out
type DLQHandler struct {
	retrier   *Retrier
	publisher DLQPublisher
	onDLQ     func(msg *DLQMessage)
}

// NewDLQHandler creates a new DLQ handler. onDLQ may be nil.
func NewDLQHandler(publisher DLQPublisher, config *Config, onDLQ func(msg *DLQMessage)) *DLQHandler {
	return &DLQHandler{
		retrier:   New(config),
		publisher: publisher,
		onDLQ:     onDLQ,
	}
}

// Process runs op with retries. On exhaustion the message is published to the
// DLQ and the operation error is returned; a DLQ failure is returned wrapped.
func (h *DLQHandler) Process(ctx context.Context, msgCtx *MessageContext, op Operation) error {
	firstAttempt := time.Now().UTC()

	result := h.retrier.Do(ctx, op)
	if result.Err == nil {
		return nil
	}
	if result.Err == ErrContextCanceled {
		// shutting down; the message is redelivered after restart
		return result.Err
	}

	errMsg := result.Err.Error()
	if result.LastError != nil {
		errMsg = result.LastError.Error()
	}

	dlqMsg := &DLQMessage{
		OriginalTopic:  msgCtx.Topic,
		OriginalKey:    msgCtx.Key,
		Payload:        msgCtx.Payload,
		Headers:        msgCtx.Headers,
		Error:          errMsg,
		Attempts:       result.Attempts,
		FirstAttemptAt: firstAttempt,
	}

	if h.onDLQ != nil {
		h.onDLQ(dlqMsg)
	}

	if err := h.publisher.PublishToDLQ(ctx, dlqMsg); err != nil {
		return fmt.Errorf("failed to publish to DLQ: %w (original error: %s)", err, errMsg)
	}

	return result.Error()
}
