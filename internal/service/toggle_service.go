package service

import (
	"context"
	"strconv"

	"github.com/prasaddsahil07/vdoTube/internal/domain"
	"github.com/prasaddsahil07/vdoTube/internal/repository"
	"github.com/prasaddsahil07/vdoTube/pkg/metrics"
	"github.com/prasaddsahil07/vdoTube/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// LikeService defines the interface for likes on videos, comments and tweets
type LikeService interface {
	// ToggleLike flips the caller's like on a target and reports the new state
	ToggleLike(ctx context.Context, userID string, kind domain.ToggleKind, targetID string) (*domain.ToggleResult, error)
	IsLiked(ctx context.Context, userID string, kind domain.ToggleKind, targetID string) (bool, error)
	LikedVideos(ctx context.Context, userID string) ([]*domain.Video, error)
	LikedTweets(ctx context.Context, userID string) ([]*domain.Tweet, error)
}

// SubscriptionService defines the interface for channel subscriptions
type SubscriptionService interface {
	// ToggleSubscription flips the subscription and returns the channel's new subscriber count
	ToggleSubscription(ctx context.Context, subscriberID, channelID string) (*domain.ToggleResult, int64, error)
	IsSubscribed(ctx context.Context, subscriberID, channelID string) (bool, error)
	Subscribers(ctx context.Context, channelID string) ([]*domain.UserSummary, error)
	SubscribedChannels(ctx context.Context, subscriberID string) ([]*domain.UserSummary, error)
}

// toggleService implements LikeService and SubscriptionService over one relation store
type toggleService struct {
	toggleRepo repository.ToggleRepository
	userRepo   repository.UserRepository
	publisher  EventPublisher
}

func newToggleService(toggleRepo repository.ToggleRepository, userRepo repository.UserRepository, publisher EventPublisher) *toggleService {
	if publisher == nil {
		publisher = NoOpEventPublisher{}
	}
	return &toggleService{
		toggleRepo: toggleRepo,
		userRepo:   userRepo,
		publisher:  publisher,
	}
}

// NewLikeService creates a new LikeService
func NewLikeService(toggleRepo repository.ToggleRepository, userRepo repository.UserRepository, publisher EventPublisher) LikeService {
	return newToggleService(toggleRepo, userRepo, publisher)
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(toggleRepo repository.ToggleRepository, userRepo repository.UserRepository, publisher EventPublisher) SubscriptionService {
	return newToggleService(toggleRepo, userRepo, publisher)
}

func notFoundFor(kind domain.ToggleKind) error {
	switch kind {
	case domain.ToggleKindVideo:
		return ErrVideoNotFound
	case domain.ToggleKindComment:
		return ErrCommentNotFound
	case domain.ToggleKindTweet:
		return ErrTweetNotFound
	default:
		return ErrChannelNotFound
	}
}

// toggle checks the target then flips the relation
func (s *toggleService) toggle(ctx context.Context, actorID string, kind domain.ToggleKind, targetID string) (*domain.ToggleResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.toggle."+string(kind))
	defer span.End()

	span.SetAttributes(
		attribute.String("actor_id", actorID),
		attribute.String("target_id", targetID),
	)

	exists, err := s.toggleRepo.TargetExists(ctx, actorID, kind, targetID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "target lookup failed")
		return nil, err
	}
	if !exists {
		span.SetStatus(codes.Error, "target not found")
		return nil, notFoundFor(kind)
	}

	active, err := s.toggleRepo.Toggle(ctx, actorID, kind, targetID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "toggle failed")
		return nil, err
	}

	metrics.Toggles.WithLabelValues(string(kind), strconv.FormatBool(active)).Inc()

	event := newActivity(domain.EventToggleChanged, actorID, kind, targetID)
	event.Active = &active
	s.publisher.PublishActivity(ctx, event)

	span.SetAttributes(attribute.Bool("active", active))
	span.SetStatus(codes.Ok, "")
	return &domain.ToggleResult{Kind: kind, TargetID: targetID, Active: active}, nil
}

// ToggleLike flips a like
func (s *toggleService) ToggleLike(ctx context.Context, userID string, kind domain.ToggleKind, targetID string) (*domain.ToggleResult, error) {
	if !kind.IsLike() {
		return nil, domain.ErrUnknownToggleKind
	}
	return s.toggle(ctx, userID, kind, targetID)
}

// IsLiked reports whether the user likes the target
func (s *toggleService) IsLiked(ctx context.Context, userID string, kind domain.ToggleKind, targetID string) (bool, error) {
	if !kind.IsLike() {
		return false, domain.ErrUnknownToggleKind
	}
	return s.toggleRepo.Exists(ctx, userID, kind, targetID)
}

// LikedVideos lists videos the user liked
func (s *toggleService) LikedVideos(ctx context.Context, userID string) ([]*domain.Video, error) {
	return s.toggleRepo.ListLikedVideos(ctx, userID)
}

// LikedTweets lists tweets the user liked
func (s *toggleService) LikedTweets(ctx context.Context, userID string) ([]*domain.Tweet, error) {
	return s.toggleRepo.ListLikedTweets(ctx, userID)
}

// ToggleSubscription flips a subscription
func (s *toggleService) ToggleSubscription(ctx context.Context, subscriberID, channelID string) (*domain.ToggleResult, int64, error) {
	if subscriberID == channelID {
		return nil, 0, ErrSelfSubscription
	}

	result, err := s.toggle(ctx, subscriberID, domain.ToggleKindChannel, channelID)
	if err != nil {
		return nil, 0, err
	}

	count, err := s.toggleRepo.CountForTarget(ctx, domain.ToggleKindChannel, channelID)
	if err != nil {
		return nil, 0, err
	}
	return result, count, nil
}

// IsSubscribed reports whether subscriberID follows channelID
func (s *toggleService) IsSubscribed(ctx context.Context, subscriberID, channelID string) (bool, error) {
	return s.toggleRepo.Exists(ctx, subscriberID, domain.ToggleKindChannel, channelID)
}

// Subscribers lists a channel's subscribers
func (s *toggleService) Subscribers(ctx context.Context, channelID string) ([]*domain.UserSummary, error) {
	if err := s.requireUser(ctx, channelID, ErrChannelNotFound); err != nil {
		return nil, err
	}
	return s.toggleRepo.ListSubscribers(ctx, channelID)
}

// SubscribedChannels lists the channels a user follows
func (s *toggleService) SubscribedChannels(ctx context.Context, subscriberID string) ([]*domain.UserSummary, error) {
	if err := s.requireUser(ctx, subscriberID, ErrUserNotFound); err != nil {
		return nil, err
	}
	return s.toggleRepo.ListSubscribedChannels(ctx, subscriberID)
}

func (s *toggleService) requireUser(ctx context.Context, id string, notFound error) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return notFound
	}
	return nil
}
