package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prasaddsahil07/vdoTube/internal/domain"
	"github.com/prasaddsahil07/vdoTube/internal/dto"
	"github.com/prasaddsahil07/vdoTube/internal/repository"
	"github.com/prasaddsahil07/vdoTube/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// VideoService defines the interface for video business logic
type VideoService interface {
	// ListVideos lists published videos, plus the viewer's own unpublished ones when filtering by viewer
	ListVideos(ctx context.Context, query *dto.VideoListQuery, viewerID string) ([]*domain.Video, int64, error)
	// PublishVideo uploads a video and its thumbnail and stores the record
	PublishVideo(ctx context.Context, ownerID string, req *dto.PublishVideoRequest, duration float64, videoPath, thumbnailPath string) (*domain.Video, error)
	// GetVideo retrieves a video; unpublished videos are visible to their owner only
	GetVideo(ctx context.Context, id, viewerID string) (*domain.Video, error)
	// UpdateVideo changes title, description and optionally the thumbnail
	UpdateVideo(ctx context.Context, id, ownerID string, req *dto.UpdateVideoRequest, thumbnailPath string) (*domain.Video, error)
	// DeleteVideo deletes a video and discards its media
	DeleteVideo(ctx context.Context, id, ownerID string) error
	// TogglePublish flips the publish flag
	TogglePublish(ctx context.Context, id, ownerID string) (*domain.Video, error)
	// RecordView counts a view and moves the video to the front of the viewer's history
	RecordView(ctx context.Context, id, viewerID string) (*domain.Video, error)
}

// videoService implements VideoService
type videoService struct {
	videoRepo repository.VideoRepository
	userRepo  repository.UserRepository
	media     MediaService
	publisher EventPublisher
}

// NewVideoService creates a new VideoService
func NewVideoService(
	videoRepo repository.VideoRepository,
	userRepo repository.UserRepository,
	media MediaService,
	publisher EventPublisher,
) VideoService {
	if publisher == nil {
		publisher = NoOpEventPublisher{}
	}
	return &videoService{
		videoRepo: videoRepo,
		userRepo:  userRepo,
		media:     media,
		publisher: publisher,
	}
}

// ListVideos lists videos
func (s *videoService) ListVideos(ctx context.Context, query *dto.VideoListQuery, viewerID string) ([]*domain.Video, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.video.list")
	defer span.End()

	query.SetDefaults()
	filter := &repository.VideoFilter{
		Search:             query.Query,
		OwnerID:            query.UserID,
		SortBy:             query.SortBy,
		SortDesc:           query.SortType == "desc",
		IncludeUnpublished: query.UserID != "" && query.UserID == viewerID,
	}

	videos, total, err := s.videoRepo.List(ctx, filter, repository.ListOptions{Limit: query.Limit, Offset: query.Offset()})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}

	span.SetAttributes(attribute.Int64("total", total))
	span.SetStatus(codes.Ok, "")
	return videos, total, nil
}

// PublishVideo uploads and records a new video
func (s *videoService) PublishVideo(
	ctx context.Context,
	ownerID string,
	req *dto.PublishVideoRequest,
	duration float64,
	videoPath, thumbnailPath string,
) (*domain.Video, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.video.publish")
	defer span.End()
	defer removeLocal(videoPath)
	defer removeLocal(thumbnailPath)

	span.SetAttributes(attribute.String("owner_id", ownerID))

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if videoPath == "" || thumbnailPath == "" {
		return nil, fmt.Errorf("%w: video file and thumbnail are required", ErrInvalidInput)
	}
	if duration < 0 {
		return nil, fmt.Errorf("%w: duration cannot be negative", ErrInvalidInput)
	}

	videoURL, err := s.media.Upload(ctx, videoPath, FolderVideos)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to upload video: %w", err)
	}
	thumbnailURL, err := s.media.Upload(ctx, thumbnailPath, FolderThumbnails)
	if err != nil {
		s.media.Discard(ctx, videoURL, ownerID, "publish failed")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to upload thumbnail: %w", err)
	}

	now := time.Now()
	video := &domain.Video{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		VideoURL:    videoURL,
		Thumbnail:   thumbnailURL,
		Duration:    duration,
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.videoRepo.Create(ctx, video); err != nil {
		s.media.Discard(ctx, videoURL, ownerID, "publish failed")
		s.media.Discard(ctx, thumbnailURL, ownerID, "publish failed")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.publisher.PublishActivity(ctx, newActivity(domain.EventVideoPublished, ownerID, domain.ToggleKindVideo, video.ID))

	span.SetAttributes(attribute.String("video_id", video.ID))
	span.SetStatus(codes.Ok, "")
	return video, nil
}

// GetVideo retrieves a video by ID
func (s *videoService) GetVideo(ctx context.Context, id, viewerID string) (*domain.Video, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.video.get")
	defer span.End()

	span.SetAttributes(attribute.String("video_id", id))

	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if video == nil || (!video.IsPublished && video.OwnerID != viewerID) {
		span.SetStatus(codes.Error, "video not found")
		return nil, ErrVideoNotFound
	}

	span.SetStatus(codes.Ok, "")
	return video, nil
}

// UpdateVideo updates a video the caller owns
func (s *videoService) UpdateVideo(ctx context.Context, id, ownerID string, req *dto.UpdateVideoRequest, thumbnailPath string) (*domain.Video, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.video.update")
	defer span.End()
	defer removeLocal(thumbnailPath)

	span.SetAttributes(attribute.String("video_id", id))

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" && description == "" && thumbnailPath == "" {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	current, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if current == nil || current.OwnerID != ownerID {
		span.SetStatus(codes.Error, "video not found")
		return nil, ErrVideoNotFound
	}

	updated := *current
	if title != "" {
		updated.Title = title
	}
	if description != "" {
		updated.Description = description
	}
	if thumbnailPath != "" {
		url, err := s.media.Upload(ctx, thumbnailPath, FolderThumbnails)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to upload thumbnail: %w", err)
		}
		updated.Thumbnail = url
	}

	saved, err := s.videoRepo.Update(ctx, &updated)
	if err == nil && saved == nil {
		err = ErrVideoNotFound
	}
	if err != nil {
		if updated.Thumbnail != current.Thumbnail {
			s.media.Discard(ctx, updated.Thumbnail, ownerID, "update failed")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if saved.Thumbnail != current.Thumbnail {
		s.media.Discard(ctx, current.Thumbnail, ownerID, "thumbnail replaced")
	}

	saved.Owner = current.Owner
	span.SetStatus(codes.Ok, "")
	return saved, nil
}

// DeleteVideo deletes a video the caller owns
func (s *videoService) DeleteVideo(ctx context.Context, id, ownerID string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.video.delete")
	defer span.End()

	span.SetAttributes(attribute.String("video_id", id))

	deleted, err := s.videoRepo.Delete(ctx, id, ownerID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if deleted == nil {
		span.SetStatus(codes.Error, "video not found")
		return ErrVideoNotFound
	}

	s.media.Discard(ctx, deleted.VideoURL, ownerID, "video deleted")
	s.media.Discard(ctx, deleted.Thumbnail, ownerID, "video deleted")
	s.publisher.PublishActivity(ctx, newActivity(domain.EventVideoDeleted, ownerID, domain.ToggleKindVideo, id))

	span.SetStatus(codes.Ok, "")
	return nil
}

// TogglePublish flips visibility of a video the caller owns
func (s *videoService) TogglePublish(ctx context.Context, id, ownerID string) (*domain.Video, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.video.toggle_publish")
	defer span.End()

	span.SetAttributes(attribute.String("video_id", id))

	video, err := s.videoRepo.TogglePublish(ctx, id, ownerID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if video == nil {
		span.SetStatus(codes.Error, "video not found")
		return nil, ErrVideoNotFound
	}

	span.SetAttributes(attribute.Bool("is_published", video.IsPublished))
	span.SetStatus(codes.Ok, "")
	return video, nil
}

// RecordView counts a view and updates the viewer's history
func (s *videoService) RecordView(ctx context.Context, id, viewerID string) (*domain.Video, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.video.record_view")
	defer span.End()

	video, err := s.GetVideo(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}

	if err := s.videoRepo.IncrementViews(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVideoNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if err := s.userRepo.RecordWatch(ctx, viewerID, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	video.Views++

	s.publisher.PublishActivity(ctx, newActivity(domain.EventVideoViewed, viewerID, domain.ToggleKindVideo, id))

	span.SetStatus(codes.Ok, "")
	return video, nil
}
