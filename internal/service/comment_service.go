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
)

// CommentService defines the interface for comment business logic
type CommentService interface {
	// ListComments lists comments on a video visible to viewerID
	ListComments(ctx context.Context, videoID, viewerID string, page *dto.PageQuery) ([]*domain.Comment, int64, error)
	AddComment(ctx context.Context, videoID, ownerID, content string) (*domain.Comment, error)
	UpdateComment(ctx context.Context, id, ownerID, content string) (*domain.Comment, error)
	DeleteComment(ctx context.Context, id, ownerID string) error
}

// commentService implements CommentService
type commentService struct {
	commentRepo repository.CommentRepository
	videoRepo   repository.VideoRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repository.CommentRepository, videoRepo repository.VideoRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		videoRepo:   videoRepo,
	}
}

// visibleVideo loads a video the viewer may see
func (s *commentService) visibleVideo(ctx context.Context, videoID, viewerID string) (*domain.Video, error) {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil || (!video.IsPublished && video.OwnerID != viewerID) {
		return nil, ErrVideoNotFound
	}
	return video, nil
}

// ListComments lists comments on a video
func (s *commentService) ListComments(ctx context.Context, videoID, viewerID string, page *dto.PageQuery) ([]*domain.Comment, int64, error) {
	if _, err := s.visibleVideo(ctx, videoID, viewerID); err != nil {
		return nil, 0, err
	}

	page.SetDefaults()
	return s.commentRepo.ListByVideo(ctx, videoID, repository.ListOptions{Limit: page.Limit, Offset: page.Offset()})
}

// AddComment adds a comment to a video
func (s *commentService) AddComment(ctx context.Context, videoID, ownerID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if _, err := s.visibleVideo(ctx, videoID, ownerID); err != nil {
		return nil, err
	}

	now := time.Now()
	comment := &domain.Comment{
		ID:        uuid.New().String(),
		VideoID:   videoID,
		OwnerID:   ownerID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// deleted between the check and the insert
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	return comment, nil
}

// UpdateComment edits a comment the caller owns
func (s *commentService) UpdateComment(ctx context.Context, id, ownerID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}

	comment, err := s.commentRepo.Update(ctx, id, ownerID, content)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}

// DeleteComment deletes a comment the caller owns
func (s *commentService) DeleteComment(ctx context.Context, id, ownerID string) error {
	deleted, err := s.commentRepo.Delete(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCommentNotFound
	}
	return nil
}
