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

// PlaylistService defines the interface for playlist business logic
type PlaylistService interface {
	CreatePlaylist(ctx context.Context, ownerID string, req *dto.CreatePlaylistRequest) (*domain.Playlist, error)
	// GetPlaylist retrieves a playlist with the videos viewerID may see
	GetPlaylist(ctx context.Context, id, viewerID string) (*domain.Playlist, error)
	UpdatePlaylist(ctx context.Context, id, ownerID string, req *dto.UpdatePlaylistRequest) (*domain.Playlist, error)
	DeletePlaylist(ctx context.Context, id, ownerID string) error
	// AddVideo adds a video once; a second add is a conflict
	AddVideo(ctx context.Context, playlistID, ownerID, videoID string) (*domain.Playlist, error)
	RemoveVideo(ctx context.Context, playlistID, ownerID, videoID string) (*domain.Playlist, error)
	ListUserPlaylists(ctx context.Context, userID string) ([]*domain.Playlist, error)
}

// playlistService implements PlaylistService
type playlistService struct {
	playlistRepo repository.PlaylistRepository
	userRepo     repository.UserRepository
}

// NewPlaylistService creates a new PlaylistService
func NewPlaylistService(playlistRepo repository.PlaylistRepository, userRepo repository.UserRepository) PlaylistService {
	return &playlistService{
		playlistRepo: playlistRepo,
		userRepo:     userRepo,
	}
}

// CreatePlaylist creates a new playlist
func (s *playlistService) CreatePlaylist(ctx context.Context, ownerID string, req *dto.CreatePlaylistRequest) (*domain.Playlist, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	now := time.Now()
	playlist := &domain.Playlist{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		VideoIDs:    []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.playlistRepo.Create(ctx, playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

// GetPlaylist retrieves a playlist by ID
func (s *playlistService) GetPlaylist(ctx context.Context, id, viewerID string) (*domain.Playlist, error) {
	playlist, err := s.playlistRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if playlist == nil {
		return nil, ErrPlaylistNotFound
	}

	videos, err := s.playlistRepo.ListVideos(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}
	playlist.Videos = videos
	return playlist, nil
}

// UpdatePlaylist updates a playlist the caller owns
func (s *playlistService) UpdatePlaylist(ctx context.Context, id, ownerID string, req *dto.UpdatePlaylistRequest) (*domain.Playlist, error) {
	if valid, msg := req.Validate(); !valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, msg)
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
	}

	playlist, err := s.playlistRepo.Update(ctx, id, ownerID, &repository.PlaylistUpdate{
		Name:        trimmed(req.Name),
		Description: trimmed(req.Description),
		Category:    trimmed(req.Category),
	})
	if err != nil {
		return nil, err
	}
	if playlist == nil {
		return nil, ErrPlaylistNotFound
	}
	return playlist, nil
}

// DeletePlaylist deletes a playlist the caller owns
func (s *playlistService) DeletePlaylist(ctx context.Context, id, ownerID string) error {
	deleted, err := s.playlistRepo.Delete(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrPlaylistNotFound
	}
	return nil
}

// AddVideo appends a video to a playlist the caller owns
func (s *playlistService) AddVideo(ctx context.Context, playlistID, ownerID, videoID string) (*domain.Playlist, error) {
	err := s.playlistRepo.AddVideo(ctx, playlistID, ownerID, videoID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrPlaylistNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return nil, ErrVideoAlreadyInPlaylist
	case err != nil:
		return nil, err
	}
	return s.reload(ctx, playlistID)
}

// RemoveVideo removes a video from a playlist the caller owns
func (s *playlistService) RemoveVideo(ctx context.Context, playlistID, ownerID, videoID string) (*domain.Playlist, error) {
	err := s.playlistRepo.RemoveVideo(ctx, playlistID, ownerID, videoID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPlaylistNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, playlistID)
}

// ListUserPlaylists lists a user's playlists
func (s *playlistService) ListUserPlaylists(ctx context.Context, userID string) ([]*domain.Playlist, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.playlistRepo.ListByOwner(ctx, userID)
}

func (s *playlistService) reload(ctx context.Context, id string) (*domain.Playlist, error) {
	playlist, err := s.playlistRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if playlist == nil {
		return nil, ErrPlaylistNotFound
	}
	return playlist, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
