package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prasaddsahil07/vdoTube/internal/service"
	"github.com/prasaddsahil07/vdoTube/pkg/config"
	"github.com/prasaddsahil07/vdoTube/pkg/kafka"
	"github.com/prasaddsahil07/vdoTube/pkg/logger"
	"github.com/prasaddsahil07/vdoTube/pkg/retry"
	"github.com/prasaddsahil07/vdoTube/pkg/storage"
	"github.com/prasaddsahil07/vdoTube/pkg/telemetry"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logCfg := &logger.Config{
		Level:       cfg.App.Environment,
		ServiceName: "media-janitor",
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting media janitor...")

	if !cfg.Kafka.Enabled {
		appLog.Fatal("KAFKA_ENABLED must be true to run the media janitor")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    "media-janitor",
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}); err != nil {
		appLog.Warn(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	}
	defer telemetry.Shutdown(context.Background())

	// Initialize object store
	if err := cfg.ValidateStorage(); err != nil {
		appLog.Fatal(err.Error())
	}
	store, err := storage.NewS3Store(ctx, storage.Config{
		Endpoint:      cfg.Storage.Endpoint,
		Region:        cfg.Storage.Region,
		Bucket:        cfg.Storage.Bucket,
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
		UsePathStyle:  cfg.Storage.UsePathStyle,
	})
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Object store initialization failed: %v", err))
	}

	// Initialize Kafka consumer
	consumer, err := kafka.NewConsumer(ctx, &kafka.ConsumerConfig{
		Brokers:        cfg.Kafka.Brokers,
		GroupID:        cfg.Kafka.ConsumerGroup,
		Topics:         []string{cfg.Kafka.MediaTopic},
		ClientID:       "media-janitor",
		MaxRetries:     3,
		RetryInterval:  2 * time.Second,
		SessionTimeout: 30 * time.Second,
	})
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Failed to create Kafka consumer: %v", err))
	}
	defer consumer.Close()
	appLog.Info("Kafka consumer connected")

	// Dead letters go to <media topic>.dlq
	producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
		Brokers:       cfg.Kafka.Brokers,
		ClientID:      "media-janitor-dlq",
		MaxRetries:    3,
		RetryInterval: 2 * time.Second,
	})
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Failed to create Kafka producer: %v", err))
	}
	defer producer.Close()

	dlq := retry.NewDLQHandler(
		retry.NewKafkaDLQPublisher(producer, "media-janitor"),
		retry.DefaultConfig(),
		func(msg *retry.DLQMessage) {
			appLog.Warn("media event dead-lettered",
				zap.String("key", msg.OriginalKey),
				zap.Int("attempts", msg.Attempts),
				zap.String("error", msg.Error),
			)
		},
	)

	// Purge never publishes, so the media service needs no publisher here
	media := service.NewMediaService(store, nil)
	janitor := service.NewMediaJanitor(consumer, media, dlq, appLog.Named("janitor").Logger)

	done := make(chan error, 1)
	go func() { done <- janitor.Run(ctx) }()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		appLog.Info("Shutting down media janitor...")
		cancel()
		if err := <-done; err != nil {
			appLog.Error(fmt.Sprintf("Media janitor stopped with error: %v", err))
		}
	case err := <-done:
		if err != nil {
			appLog.Fatal(fmt.Sprintf("Media janitor failed: %v", err))
		}
	}

	appLog.Info("Media janitor stopped")
}
