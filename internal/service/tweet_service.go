package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prasaddsahil07/vdoTube/internal/domain"
	"github.com/prasaddsahil07/vdoTube/internal/dto"
	"github.com/prasaddsahil07/vdoTube/internal/repository"
)

// TweetService defines the interface for tweet business logic
type TweetService interface {
	CreateTweet(ctx context.Context, ownerID, content string) (*domain.Tweet, error)
	// ListUserTweets lists a user's tweets, newest first
	ListUserTweets(ctx context.Context, userID string, page *dto.PageQuery) ([]*domain.Tweet, int64, error)
	// ListTweets lists every tweet, newest first
	ListTweets(ctx context.Context, page *dto.PageQuery) ([]*domain.Tweet, int64, error)
	UpdateTweet(ctx context.Context, id, ownerID, content string) (*domain.Tweet, error)
	DeleteTweet(ctx context.Context, id, ownerID string) error
}

// tweetService implements TweetService
type tweetService struct {
	tweetRepo repository.TweetRepository
	userRepo  repository.UserRepository
}

// NewTweetService creates a new TweetService
func NewTweetService(tweetRepo repository.TweetRepository, userRepo repository.UserRepository) TweetService {
	return &tweetService{
		tweetRepo: tweetRepo,
		userRepo:  userRepo,
	}
}

// CreateTweet creates a new tweet
func (s *tweetService) CreateTweet(ctx context.Context, ownerID, content string) (*domain.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}

	now := time.Now()
	tweet := &domain.Tweet{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.tweetRepo.Create(ctx, tweet); err != nil {
		return nil, err
	}
	return tweet, nil
}

// ListUserTweets lists a user's tweets
func (s *tweetService) ListUserTweets(ctx context.Context, userID string, page *dto.PageQuery) ([]*domain.Tweet, int64, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if user == nil {
		return nil, 0, ErrUserNotFound
	}

	page.SetDefaults()
	return s.tweetRepo.ListByOwner(ctx, userID, repository.ListOptions{Limit: page.Limit, Offset: page.Offset()})
}

// ListTweets lists all tweets
func (s *tweetService) ListTweets(ctx context.Context, page *dto.PageQuery) ([]*domain.Tweet, int64, error) {
	page.SetDefaults()
	return s.tweetRepo.List(ctx, repository.ListOptions{Limit: page.Limit, Offset: page.Offset()})
}

// UpdateTweet updates a tweet the caller owns
func (s *tweetService) UpdateTweet(ctx context.Context, id, ownerID, content string) (*domain.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}

	tweet, err := s.tweetRepo.Update(ctx, id, ownerID, content)
	if err != nil {
		return nil, err
	}
	if tweet == nil {
		return nil, ErrTweetNotFound
	}
	return tweet, nil
}

// DeleteTweet deletes a tweet the caller owns
func (s *tweetService) DeleteTweet(ctx context.Context, id, ownerID string) error {
	deleted, err := s.tweetRepo.Delete(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTweetNotFound
	}
	return nil
}
