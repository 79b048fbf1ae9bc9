package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prasaddsahil07/vdoTube/internal/domain"
	"github.com/prasaddsahil07/vdoTube/internal/dto"
	"github.com/prasaddsahil07/vdoTube/internal/repository"
	"github.com/prasaddsahil07/vdoTube/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// UserService defines the interface for profile and channel operations
type UserService interface {
	// GetUser retrieves a user by ID without secrets
	GetUser(ctx context.Context, id string) (*domain.User, error)
	// UpdateDetails changes full name and email
	UpdateDetails(ctx context.Context, userID string, req *dto.UpdateDetailsRequest) (*domain.User, error)
	// UpdateAvatar uploads a new avatar and discards the old one
	UpdateAvatar(ctx context.Context, userID, localPath string) (*domain.User, error)
	// UpdateCoverImage uploads a new cover image and discards the old one
	UpdateCoverImage(ctx context.Context, userID, localPath string) (*domain.User, error)
	// GetChannelProfile returns a channel page as seen by viewerID
	GetChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error)
	// GetWatchHistory lists watched videos, most recent first
	GetWatchHistory(ctx context.Context, userID string) ([]*domain.Video, error)
}

// userService implements UserService
type userService struct {
	userRepo   repository.UserRepository
	toggleRepo repository.ToggleRepository
	media      MediaService
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, toggleRepo repository.ToggleRepository, media MediaService) UserService {
	return &userService{
		userRepo:   userRepo,
		toggleRepo: toggleRepo,
		media:      media,
	}
}

// GetUser retrieves a user by ID
func (s *userService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.get_user")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", id))

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "user not found")
		return nil, ErrUserNotFound
	}

	span.SetStatus(codes.Ok, "")
	return user.Sanitized(), nil
}

// UpdateDetails updates the account details
func (s *userService) UpdateDetails(ctx context.Context, userID string, req *dto.UpdateDetailsRequest) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.update_details")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))
	req.Normalize()

	user, err := s.userRepo.UpdateDetails(ctx, userID, req.FullName, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			span.SetStatus(codes.Error, "email taken")
			return nil, ErrEmailTaken
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "user not found")
		return nil, ErrUserNotFound
	}

	span.SetStatus(codes.Ok, "")
	return user.Sanitized(), nil
}

// UpdateAvatar replaces the avatar
func (s *userService) UpdateAvatar(ctx context.Context, userID, localPath string) (*domain.User, error) {
	return s.replaceImage(ctx, "avatar", userID, localPath, FolderAvatars, s.userRepo.UpdateAvatar)
}

// UpdateCoverImage replaces the cover image
func (s *userService) UpdateCoverImage(ctx context.Context, userID, localPath string) (*domain.User, error) {
	return s.replaceImage(ctx, "cover_image", userID, localPath, FolderCovers, s.userRepo.UpdateCoverImage)
}

func (s *userService) replaceImage(
	ctx context.Context,
	name, userID, localPath, folder string,
	store func(ctx context.Context, id, url string) (string, error),
) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.update_"+name)
	defer span.End()
	defer removeLocal(localPath)

	span.SetAttributes(attribute.String("user_id", userID))

	if localPath == "" {
		return nil, fmt.Errorf("%w: %s file is missing", ErrInvalidInput, strings.ReplaceAll(name, "_", " "))
	}

	url, err := s.media.Upload(ctx, localPath, folder)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to upload %s: %w", name, err)
	}

	previous, err := store(ctx, userID, url)
	if err != nil {
		s.media.Discard(ctx, url, userID, name+" update failed")
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	s.media.Discard(ctx, previous, userID, name+" replaced")

	span.SetStatus(codes.Ok, "")
	return s.GetUser(ctx, userID)
}

// GetChannelProfile returns the channel page with subscription counts
func (s *userService) GetChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.get_channel_profile")
	defer span.End()

	username = strings.ToLower(strings.TrimSpace(username))
	span.SetAttributes(attribute.String("username", username))

	if username == "" {
		return nil, fmt.Errorf("%w: username is missing", ErrInvalidInput)
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "channel not found")
		return nil, ErrChannelNotFound
	}

	subscribers, err := s.toggleRepo.CountForTarget(ctx, domain.ToggleKindChannel, user.ID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	subscribedTo, err := s.toggleRepo.CountForActor(ctx, domain.ToggleKindChannel, user.ID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	isSubscribed := false
	if viewerID != "" && viewerID != user.ID {
		isSubscribed, err = s.toggleRepo.Exists(ctx, viewerID, domain.ToggleKindChannel, user.ID)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	span.SetStatus(codes.Ok, "")
	return &domain.ChannelProfile{
		User:                      user.Sanitized(),
		SubscribersCount:          subscribers,
		ChannelsSubscribedToCount: subscribedTo,
		IsSubscribed:              isSubscribed,
	}, nil
}

// GetWatchHistory lists the user's watch history
func (s *userService) GetWatchHistory(ctx context.Context, userID string) ([]*domain.Video, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.get_watch_history")
	defer span.End()

	videos, err := s.userRepo.GetWatchHistory(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return videos, nil
}
