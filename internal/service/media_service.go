package service

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/prasaddsahil07/vdoTube/internal/domain"
	"github.com/prasaddsahil07/vdoTube/pkg/logger"
	"github.com/prasaddsahil07/vdoTube/pkg/storage"
	"github.com/prasaddsahil07/vdoTube/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// Object store folders
const (
	FolderAvatars    = "avatars"
	FolderCovers     = "covers"
	FolderVideos     = "videos"
	FolderThumbnails = "thumbnails"
)

// MediaStore is satisfied by pkg/storage.S3Store
type MediaStore interface {
	Upload(ctx context.Context, localPath, folder string) (*storage.Object, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(rawURL string) (string, error)
}

// MediaService moves uploads into the object store and retires replaced media
type MediaService interface {
	// Upload stores a locally saved upload and returns its permanent URL.
	// The local file is removed on success and on failure.
	Upload(ctx context.Context, localPath, folder string) (string, error)
	// Discard schedules deletion of an object no longer referenced. Best effort.
	Discard(ctx context.Context, url, ownerID, reason string)
	// Purge deletes the object behind url now. URLs outside the store are ignored.
	Purge(ctx context.Context, url string) error
}

// mediaService implements MediaService
type mediaService struct {
	store     MediaStore
	publisher EventPublisher
}

// NewMediaService creates a new MediaService. When the publisher is asynchronous
// discarded media is deleted by the janitor, otherwise inline.
func NewMediaService(store MediaStore, publisher EventPublisher) MediaService {
	if publisher == nil {
		publisher = NoOpEventPublisher{}
	}
	return &mediaService{store: store, publisher: publisher}
}

// Upload uploads a local file and removes it afterwards
func (s *mediaService) Upload(ctx context.Context, localPath, folder string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.media.upload")
	defer span.End()
	defer removeLocal(localPath)

	span.SetAttributes(attribute.String("folder", folder))

	obj, err := s.store.Upload(ctx, localPath, folder)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	span.SetAttributes(attribute.String("key", obj.Key), attribute.Int64("size", obj.Size))
	span.SetStatus(codes.Ok, "")
	return obj.URL, nil
}

// Discard publishes a media.discarded event, deleting inline when there is no consumer
// or the publish fails
func (s *mediaService) Discard(ctx context.Context, url, ownerID, reason string) {
	if url == "" {
		return
	}
	ctx, span := telemetry.StartSpan(ctx, "service.media.discard")
	defer span.End()

	// the request may be finishing; deletion should not be cut short by it
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	if s.publisher.Async() {
		err := s.publisher.PublishMediaDiscarded(ctx, &domain.MediaDiscardedEvent{
			ID:         uuid.New().String(),
			URL:        url,
			Reason:     reason,
			OwnerID:    ownerID,
			OccurredAt: time.Now().UTC(),
		})
		if err == nil {
			return
		}
		span.RecordError(err)
		logger.Get().Warn("failed to publish media.discarded, deleting inline",
			zap.String("url", url), zap.Error(err))
	}

	if err := s.Purge(ctx, url); err != nil {
		span.RecordError(err)
		logger.Get().Error("failed to delete discarded media",
			zap.String("url", url), zap.String("reason", reason), zap.Error(err))
	}
}

// Purge deletes the object now
func (s *mediaService) Purge(ctx context.Context, url string) error {
	key, err := s.store.KeyFromURL(url)
	if errors.Is(err, storage.ErrForeignURL) {
		logger.Get().Debug("skipping media outside the store", zap.String("url", url))
		return nil
	}
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, key)
}

// removeLocal deletes a temporary upload; a missing file is fine
func removeLocal(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Get().Warn("failed to remove temp upload", zap.String("path", path), zap.Error(err))
	}
}
