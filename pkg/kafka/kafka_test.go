package kafka

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

func TestToRecord(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	rec := toRecord(&Message{
		Topic:     "vdotube.activity",
		Key:       []byte("user-1"),
		Value:     []byte(`{"type":"like.toggled"}`),
		Headers:   map[string]string{"event_type": "like.toggled"},
		Timestamp: ts,
	})

	assert.Equal(t, "vdotube.activity", rec.Topic)
	assert.Equal(t, []byte("user-1"), rec.Key)
	assert.Equal(t, ts, rec.Timestamp)
	require.Len(t, rec.Headers, 1)
	assert.Equal(t, "event_type", rec.Headers[0].Key)
	assert.Equal(t, "like.toggled", string(rec.Headers[0].Value))
}

func TestHeaders(t *testing.T) {
	rec := &kgo.Record{Headers: []kgo.RecordHeader{
		{Key: "a", Value: []byte("1")},
		{Key: "b", Value: []byte("2")},
		{Key: "a", Value: []byte("3")},
	}}

	assert.Equal(t, map[string]string{"a": "3", "b": "2"}, Headers(rec))
}

func TestNewProducer_NoBrokers(t *testing.T) {
	_, err := NewProducer(context.Background(), &ProducerConfig{})
	assert.ErrorIs(t, err, ErrNoBrokers)
}

func TestNewConsumer_Validation(t *testing.T) {
	_, err := NewConsumer(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoBrokers)

	_, err = NewConsumer(context.Background(), &ConsumerConfig{Brokers: []string{"localhost:9092"}})
	assert.Error(t, err)
}

// Integration test - requires a broker
func TestProduceConsume_Integration(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run")
	}

	brokers := []string{"localhost:9092"}
	if b := os.Getenv("TEST_KAFKA_BROKERS"); b != "" {
		brokers = strings.Split(b, ",")
	}
	topic := "vdotube.test." + time.Now().Format("20060102150405")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	producer, err := NewProducer(ctx, &ProducerConfig{Brokers: brokers, ClientID: "test"})
	require.NoError(t, err)
	defer producer.Close()

	require.NoError(t, producer.ProduceJSON(ctx, topic, "k1", map[string]string{"hello": "world"}, nil))

	consumer, err := NewConsumer(ctx, &ConsumerConfig{Brokers: brokers, GroupID: topic, Topics: []string{topic}})
	require.NoError(t, err)
	defer consumer.Close()

	records, err := consumer.Poll(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.JSONEq(t, `{"hello":"world"}`, string(records[0].Value))
	assert.Equal(t, "application/json", Headers(records[0])["content_type"])
	assert.NoError(t, consumer.CommitRecords(ctx, records))
}
