package service

import (
	"context"

	"github.com/prasaddsahil07/vdoTube/internal/domain"
	"github.com/prasaddsahil07/vdoTube/internal/dto"
	"github.com/prasaddsahil07/vdoTube/internal/repository"
)

// DashboardService defines the interface for channel dashboards
type DashboardService interface {
	// Stats returns aggregate counts for a channel
	Stats(ctx context.Context, channelID string) (*domain.ChannelStats, error)
	// ChannelVideos lists a channel's videos; the owner also sees unpublished ones
	ChannelVideos(ctx context.Context, channelID, viewerID string, page *dto.PageQuery) ([]*domain.Video, int64, error)
	// PublishedVideos lists every published video, newest first
	PublishedVideos(ctx context.Context, page *dto.PageQuery) ([]*domain.Video, int64, error)
}

type dashboardService struct {
	dashboardRepo repository.DashboardRepository
	videoRepo     repository.VideoRepository
	userRepo      repository.UserRepository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	dashboardRepo repository.DashboardRepository,
	videoRepo repository.VideoRepository,
	userRepo repository.UserRepository,
) DashboardService {
	return &dashboardService{
		dashboardRepo: dashboardRepo,
		videoRepo:     videoRepo,
		userRepo:      userRepo,
	}
}

func (s *dashboardService) requireChannel(ctx context.Context, channelID string) error {
	user, err := s.userRepo.GetByID(ctx, channelID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrChannelNotFound
	}
	return nil
}

func (s *dashboardService) Stats(ctx context.Context, channelID string) (*domain.ChannelStats, error) {
	if err := s.requireChannel(ctx, channelID); err != nil {
		return nil, err
	}
	return s.dashboardRepo.ChannelStats(ctx, channelID)
}

func (s *dashboardService) ChannelVideos(ctx context.Context, channelID, viewerID string, page *dto.PageQuery) ([]*domain.Video, int64, error) {
	if err := s.requireChannel(ctx, channelID); err != nil {
		return nil, 0, err
	}

	page.SetDefaults()
	filter := &repository.VideoFilter{
		OwnerID:            channelID,
		SortBy:             "createdAt",
		SortDesc:           true,
		IncludeUnpublished: channelID == viewerID,
	}
	return s.videoRepo.List(ctx, filter, repository.ListOptions{Limit: page.Limit, Offset: page.Offset()})
}

func (s *dashboardService) PublishedVideos(ctx context.Context, page *dto.PageQuery) ([]*domain.Video, int64, error) {
	page.SetDefaults()
	filter := &repository.VideoFilter{SortBy: "createdAt", SortDesc: true}
	return s.videoRepo.List(ctx, filter, repository.ListOptions{Limit: page.Limit, Offset: page.Offset()})
}
