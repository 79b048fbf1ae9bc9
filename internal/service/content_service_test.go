package service

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/prasaddsahil07/vdoTube/internal/domain"
	"github.com/prasaddsahil07/vdoTube/internal/dto"
	"github.com/prasaddsahil07/vdoTube/internal/repository"
)

// mockTweetRepository is a mock implementation of TweetRepository
type mockTweetRepository struct {
	tweets map[string]*domain.Tweet
}

func newMockTweetRepository() *mockTweetRepository {
	return &mockTweetRepository{tweets: make(map[string]*domain.Tweet)}
}

func (r *mockTweetRepository) Create(ctx context.Context, tweet *domain.Tweet) error {
	r.tweets[tweet.ID] = tweet
	return nil
}

func (r *mockTweetRepository) GetByID(ctx context.Context, id string) (*domain.Tweet, error) {
	return r.tweets[id], nil
}

func (r *mockTweetRepository) ListByOwner(ctx context.Context, ownerID string, opts repository.ListOptions) ([]*domain.Tweet, int64, error) {
	var out []*domain.Tweet
	for _, tw := range r.tweets {
		if tw.OwnerID == ownerID {
			out = append(out, tw)
		}
	}
	return out, int64(len(out)), nil
}

func (r *mockTweetRepository) List(ctx context.Context, opts repository.ListOptions) ([]*domain.Tweet, int64, error) {
	var out []*domain.Tweet
	for _, tw := range r.tweets {
		out = append(out, tw)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *mockTweetRepository) Update(ctx context.Context, id, ownerID, content string) (*domain.Tweet, error) {
	tw, ok := r.tweets[id]
	if !ok || tw.OwnerID != ownerID {
		return nil, nil
	}
	tw.Content = content
	return tw, nil
}

func (r *mockTweetRepository) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	tw, ok := r.tweets[id]
	if !ok || tw.OwnerID != ownerID {
		return false, nil
	}
	delete(r.tweets, id)
	return true, nil
}

// mockCommentRepository is a mock implementation of CommentRepository
type mockCommentRepository struct {
	comments map[string]*domain.Comment
	videos   *mockVideoRepository
}

func (r *mockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if r.videos.videos[comment.VideoID] == nil {
		return repository.ErrNotFound
	}
	r.comments[comment.ID] = comment
	return nil
}

func (r *mockCommentRepository) ListByVideo(ctx context.Context, videoID string, opts repository.ListOptions) ([]*domain.Comment, int64, error) {
	var out []*domain.Comment
	for _, c := range r.comments {
		if c.VideoID == videoID {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *mockCommentRepository) Update(ctx context.Context, id, ownerID, content string) (*domain.Comment, error) {
	c, ok := r.comments[id]
	if !ok || c.OwnerID != ownerID {
		return nil, nil
	}
	c.Content = content
	return c, nil
}

func (r *mockCommentRepository) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	c, ok := r.comments[id]
	if !ok || c.OwnerID != ownerID {
		return false, nil
	}
	delete(r.comments, id)
	return true, nil
}

func TestTweetService(t *testing.T) {
	ctx := context.Background()
	userRepo := newMockUserRepository()
	userRepo.users["u1"] = &domain.User{ID: "u1"}
	svc := NewTweetService(newMockTweetRepository(), userRepo)

	tweet, err := svc.CreateTweet(ctx, "u1", "  hello world ")
	if err != nil {
		t.Fatalf("CreateTweet failed: %v", err)
	}
	if tweet.Content != "hello world" {
		t.Errorf("Expected trimmed content, got %q", tweet.Content)
	}

	t.Run("empty content", func(t *testing.T) {
		if _, err := svc.CreateTweet(ctx, "u1", "   "); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("list by unknown user", func(t *testing.T) {
		if _, _, err := svc.ListUserTweets(ctx, "ghost", &dto.PageQuery{}); err != ErrUserNotFound {
			t.Errorf("Expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("list by user", func(t *testing.T) {
		tweets, total, err := svc.ListUserTweets(ctx, "u1", &dto.PageQuery{})
		if err != nil || total != 1 || len(tweets) != 1 {
			t.Errorf("Expected 1 tweet, got %d (%v)", total, err)
		}
	})

	t.Run("non-owner cannot edit or delete", func(t *testing.T) {
		if _, err := svc.UpdateTweet(ctx, tweet.ID, "u2", "mine now"); err != ErrTweetNotFound {
			t.Errorf("Expected ErrTweetNotFound, got %v", err)
		}
		if err := svc.DeleteTweet(ctx, tweet.ID, "u2"); err != ErrTweetNotFound {
			t.Errorf("Expected ErrTweetNotFound, got %v", err)
		}
	})

	t.Run("owner edits and deletes", func(t *testing.T) {
		updated, err := svc.UpdateTweet(ctx, tweet.ID, "u1", "edited")
		if err != nil || updated.Content != "edited" {
			t.Errorf("Expected edited tweet, got %v (%v)", updated, err)
		}
		if err := svc.DeleteTweet(ctx, tweet.ID, "u1"); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
		if err := svc.DeleteTweet(ctx, tweet.ID, "u1"); err != ErrTweetNotFound {
			t.Errorf("Expected ErrTweetNotFound on second delete, got %v", err)
		}
	})
}

func TestCommentService(t *testing.T) {
	ctx := context.Background()
	videoRepo := newMockVideoRepository()
	videoRepo.videos["v1"] = &domain.Video{ID: "v1", OwnerID: "owner", IsPublished: true}
	videoRepo.videos["draft"] = &domain.Video{ID: "draft", OwnerID: "owner", IsPublished: false}
	commentRepo := &mockCommentRepository{comments: make(map[string]*domain.Comment), videos: videoRepo}
	svc := NewCommentService(commentRepo, videoRepo)

	comment, err := svc.AddComment(ctx, "v1", "u1", "nice")
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}

	t.Run("unknown video", func(t *testing.T) {
		if _, err := svc.AddComment(ctx, "missing", "u1", "hi"); err != ErrVideoNotFound {
			t.Errorf("Expected ErrVideoNotFound, got %v", err)
		}
		if _, _, err := svc.ListComments(ctx, "missing", "u1", &dto.PageQuery{}); err != ErrVideoNotFound {
			t.Errorf("Expected ErrVideoNotFound, got %v", err)
		}
	})

	t.Run("unpublished video hidden from others", func(t *testing.T) {
		if _, err := svc.AddComment(ctx, "draft", "u1", "hi"); err != ErrVideoNotFound {
			t.Errorf("Expected ErrVideoNotFound, got %v", err)
		}
		if _, err := svc.AddComment(ctx, "draft", "owner", "note to self"); err != nil {
			t.Errorf("Expected owner to comment, got %v", err)
		}
	})

	t.Run("list", func(t *testing.T) {
		comments, total, err := svc.ListComments(ctx, "v1", "", &dto.PageQuery{})
		if err != nil || total != 1 || comments[0].ID != comment.ID {
			t.Errorf("Expected the one comment, got %v (%v)", comments, err)
		}
	})

	t.Run("non-owner cannot edit or delete", func(t *testing.T) {
		if _, err := svc.UpdateComment(ctx, comment.ID, "u2", "x"); err != ErrCommentNotFound {
			t.Errorf("Expected ErrCommentNotFound, got %v", err)
		}
		if err := svc.DeleteComment(ctx, comment.ID, "u2"); err != ErrCommentNotFound {
			t.Errorf("Expected ErrCommentNotFound, got %v", err)
		}
	})

	t.Run("owner deletes", func(t *testing.T) {
		if err := svc.DeleteComment(ctx, comment.ID, "u1"); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})
}

func TestPlaylistService(t *testing.T) {
	ctx := context.Background()
	videoRepo := newMockVideoRepository()
	videoRepo.videos["v1"] = &domain.Video{ID: "v1", IsPublished: true}
	videoRepo.videos["v2"] = &domain.Video{ID: "v2", IsPublished: true}
	userRepo := newMockUserRepository()
	userRepo.users["u1"] = &domain.User{ID: "u1"}
	svc := NewPlaylistService(newMockPlaylistRepository(videoRepo), userRepo)

	playlist, err := svc.CreatePlaylist(ctx, "u1", &dto.CreatePlaylistRequest{Name: "Favourites", Description: "best"})
	if err != nil {
		t.Fatalf("CreatePlaylist failed: %v", err)
	}

	t.Run("add keeps order and rejects duplicates", func(t *testing.T) {
		if _, err := svc.AddVideo(ctx, playlist.ID, "u1", "v2"); err != nil {
			t.Fatalf("AddVideo failed: %v", err)
		}
		got, err := svc.AddVideo(ctx, playlist.ID, "u1", "v1")
		if err != nil {
			t.Fatalf("AddVideo failed: %v", err)
		}
		if len(got.VideoIDs) != 2 || got.VideoIDs[0] != "v2" || got.VideoIDs[1] != "v1" {
			t.Errorf("Expected [v2 v1], got %v", got.VideoIDs)
		}
		if _, err := svc.AddVideo(ctx, playlist.ID, "u1", "v1"); err != ErrVideoAlreadyInPlaylist {
			t.Errorf("Expected ErrVideoAlreadyInPlaylist, got %v", err)
		}
	})

	t.Run("non-owner cannot modify", func(t *testing.T) {
		if _, err := svc.AddVideo(ctx, playlist.ID, "u2", "v1"); err != ErrPlaylistNotFound {
			t.Errorf("Expected ErrPlaylistNotFound, got %v", err)
		}
		if _, err := svc.RemoveVideo(ctx, playlist.ID, "u2", "v1"); err != ErrPlaylistNotFound {
			t.Errorf("Expected ErrPlaylistNotFound, got %v", err)
		}
		name := "stolen"
		if _, err := svc.UpdatePlaylist(ctx, playlist.ID, "u2", &dto.UpdatePlaylistRequest{Name: &name}); err != ErrPlaylistNotFound {
			t.Errorf("Expected ErrPlaylistNotFound, got %v", err)
		}
		if err := svc.DeletePlaylist(ctx, playlist.ID, "u2"); err != ErrPlaylistNotFound {
			t.Errorf("Expected ErrPlaylistNotFound, got %v", err)
		}
	})

	t.Run("get includes videos", func(t *testing.T) {
		got, err := svc.GetPlaylist(ctx, playlist.ID, "u1")
		if err != nil {
			t.Fatalf("GetPlaylist failed: %v", err)
		}
		if len(got.Videos) != 2 || got.Videos[0].ID != "v2" {
			t.Errorf("Expected videos in playlist order, got %v", got.Videos)
		}
	})

	t.Run("update", func(t *testing.T) {
		name := "  Renamed "
		got, err := svc.UpdatePlaylist(ctx, playlist.ID, "u1", &dto.UpdatePlaylistRequest{Name: &name})
		if err != nil {
			t.Fatalf("UpdatePlaylist failed: %v", err)
		}
		if got.Name != "Renamed" || got.Description != "best" {
			t.Errorf("Unexpected playlist: %+v", got)
		}
		if _, err := svc.UpdatePlaylist(ctx, playlist.ID, "u1", &dto.UpdatePlaylistRequest{}); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput for an empty update, got %v", err)
		}
	})

	t.Run("remove then delete", func(t *testing.T) {
		got, err := svc.RemoveVideo(ctx, playlist.ID, "u1", "v2")
		if err != nil || len(got.VideoIDs) != 1 {
			t.Errorf("Expected one video left, got %v (%v)", got, err)
		}
		if err := svc.DeletePlaylist(ctx, playlist.ID, "u1"); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
		if _, err := svc.GetPlaylist(ctx, playlist.ID, "u1"); err != ErrPlaylistNotFound {
			t.Errorf("Expected ErrPlaylistNotFound, got %v", err)
		}
	})

	t.Run("list for unknown user", func(t *testing.T) {
		if _, err := svc.ListUserPlaylists(ctx, "ghost"); err != ErrUserNotFound {
			t.Errorf("Expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestDashboardService(t *testing.T) {
	ctx := context.Background()
	videoRepo := newMockVideoRepository()
	videoRepo.videos["a"] = &domain.Video{ID: "a", OwnerID: "u1", IsPublished: true}
	videoRepo.videos["b"] = &domain.Video{ID: "b", OwnerID: "u1", IsPublished: false}
	userRepo := newMockUserRepository()
	userRepo.users["u1"] = &domain.User{ID: "u1"}
	svc := NewDashboardService(stubDashboardRepository{}, videoRepo, userRepo)

	if _, err := svc.Stats(ctx, "ghost"); err != ErrChannelNotFound {
		t.Errorf("Expected ErrChannelNotFound, got %v", err)
	}
	stats, err := svc.Stats(ctx, "u1")
	if err != nil || stats.TotalVideos != 2 {
		t.Errorf("Expected stats, got %+v (%v)", stats, err)
	}

	_, own, _ := svc.ChannelVideos(ctx, "u1", "u1", &dto.PageQuery{})
	_, public, _ := svc.ChannelVideos(ctx, "u1", "u2", &dto.PageQuery{})
	if own != 2 || public != 1 {
		t.Errorf("Expected owner to see 2 and others 1, got %d and %d", own, public)
	}

	_, published, err := svc.PublishedVideos(ctx, &dto.PageQuery{})
	if err != nil || published != 1 {
		t.Errorf("Expected 1 published video, got %d (%v)", published, err)
	}
}

type stubDashboardRepository struct{}

func (stubDashboardRepository) ChannelStats(ctx context.Context, channelID string) (*domain.ChannelStats, error) {
	return &domain.ChannelStats{TotalVideos: 2, TotalViews: 10}, nil
}

func TestPlaylistService_UnpublishedVideos(t *testing.T) {
	ctx := context.Background()
	videoRepo := newMockVideoRepository()
	videoRepo.videos["draft-u1"] = &domain.Video{ID: "draft-u1", OwnerID: "u1"}
	videoRepo.videos["draft-u2"] = &domain.Video{ID: "draft-u2", OwnerID: "u2"}
	userRepo := newMockUserRepository()
	userRepo.users["u1"] = &domain.User{ID: "u1"}
	svc := NewPlaylistService(newMockPlaylistRepository(videoRepo), userRepo)

	playlist, err := svc.CreatePlaylist(ctx, "u1", &dto.CreatePlaylistRequest{Name: "Drafts", Description: "wip"})
	if err != nil {
		t.Fatalf("CreatePlaylist failed: %v", err)
	}

	t.Run("another user's unpublished video cannot be added", func(t *testing.T) {
		if _, err := svc.AddVideo(ctx, playlist.ID, "u1", "draft-u2"); err != ErrPlaylistNotFound {
			t.Errorf("Expected ErrPlaylistNotFound, got %v", err)
		}
	})

	t.Run("own unpublished video is visible to the owner only", func(t *testing.T) {
		if _, err := svc.AddVideo(ctx, playlist.ID, "u1", "draft-u1"); err != nil {
			t.Fatalf("AddVideo failed: %v", err)
		}
		owner, err := svc.GetPlaylist(ctx, playlist.ID, "u1")
		if err != nil || len(owner.Videos) != 1 {
			t.Errorf("Expected the owner to see one video, got %v (%v)", owner, err)
		}
		other, err := svc.GetPlaylist(ctx, playlist.ID, "u2")
		if err != nil || len(other.Videos) != 0 {
			t.Errorf("Expected another viewer to see no videos, got %v (%v)", other, err)
		}
	})
}
