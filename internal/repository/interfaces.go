package repository

import (
	"context"
	"errors"

	"github.com/prasaddsahil07/vdoTube/internal/domain"
)

var (
	// ErrDuplicate is returned when a unique constraint rejects a write
	ErrDuplicate = errors.New("duplicate record")
	// ErrNotFound is returned by writes that matched no row they were allowed to touch
	ErrNotFound = errors.New("record not found")
)

// ListOptions is offset/limit pagination
type ListOptions struct {
	Limit  int
	Offset int
}

// UserRepository defines the interface for user data access.
// Getters return (nil, nil) when the user does not exist.
type UserRepository interface {
	// Create creates a new user; ErrDuplicate if username or email is taken
	Create(ctx context.Context, user *domain.User) error
	// GetByID retrieves a user by ID, secrets included
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByUsername retrieves a user by lowercased username
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// GetByLogin retrieves a user matching the username or the email
	GetByLogin(ctx context.Context, username, email string) (*domain.User, error)
	// ExistsByUsernameOrEmail checks whether either identity is taken
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	// UpdateDetails changes full name and email; ErrDuplicate if the email is taken
	UpdateDetails(ctx context.Context, id, fullName, email string) (*domain.User, error)
	// UpdateAvatar stores a new avatar URL and returns the previous one
	UpdateAvatar(ctx context.Context, id, url string) (string, error)
	// UpdateCoverImage stores a new cover image URL and returns the previous one
	UpdateCoverImage(ctx context.Context, id, url string) (string, error)
	// UpdatePassword replaces the password hash
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	// SetRefreshTokenHash overwrites the session digest; nil clears it
	SetRefreshTokenHash(ctx context.Context, id string, hash *string) error
	// SwapRefreshTokenHash replaces presented with next only if presented is the stored digest
	SwapRefreshTokenHash(ctx context.Context, id, presented, next string) (bool, error)
	// RecordWatch moves videoID to the front of the user's history
	RecordWatch(ctx context.Context, userID, videoID string) error
	// GetWatchHistory lists watched videos, most recent first
	GetWatchHistory(ctx context.Context, userID string) ([]*domain.Video, error)
}

// VideoFilter contains filter options for listing videos
type VideoFilter struct {
	Search   string
	OwnerID  string
	SortBy   string // createdAt, views, duration, title
	SortDesc bool
	// IncludeUnpublished lists unpublished videos too; set only when the caller owns OwnerID
	IncludeUnpublished bool
}

// VideoRepository defines the interface for video data access
type VideoRepository interface {
	// Create creates a new video
	Create(ctx context.Context, video *domain.Video) error
	// GetByID retrieves a video with its owner summary
	GetByID(ctx context.Context, id string) (*domain.Video, error)
	// List lists videos with filters and pagination, returning the total match count
	List(ctx context.Context, filter *VideoFilter, opts ListOptions) ([]*domain.Video, int64, error)
	// Update updates title, description and thumbnail of a video the owner holds
	Update(ctx context.Context, video *domain.Video) (*domain.Video, error)
	// Delete removes a video the owner holds and returns it; nil when nothing matched
	Delete(ctx context.Context, id, ownerID string) (*domain.Video, error)
	// TogglePublish flips is_published for a video the owner holds; nil when nothing matched
	TogglePublish(ctx context.Context, id, ownerID string) (*domain.Video, error)
	// IncrementViews adds one view
	IncrementViews(ctx context.Context, id string) error
}

// TweetRepository defines the interface for tweet data access
type TweetRepository interface {
	Create(ctx context.Context, tweet *domain.Tweet) error
	GetByID(ctx context.Context, id string) (*domain.Tweet, error)
	// ListByOwner lists a user's tweets, newest first
	ListByOwner(ctx context.Context, ownerID string, opts ListOptions) ([]*domain.Tweet, int64, error)
	// List lists all tweets, newest first
	List(ctx context.Context, opts ListOptions) ([]*domain.Tweet, int64, error)
	// Update changes content of a tweet the owner holds; nil when nothing matched
	Update(ctx context.Context, id, ownerID, content string) (*domain.Tweet, error)
	// Delete removes a tweet the owner holds
	Delete(ctx context.Context, id, ownerID string) (bool, error)
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	// ListByVideo lists a video's comments, newest first
	ListByVideo(ctx context.Context, videoID string, opts ListOptions) ([]*domain.Comment, int64, error)
	// Update changes content of a comment the owner holds; nil when nothing matched
	Update(ctx context.Context, id, ownerID, content string) (*domain.Comment, error)
	// Delete removes a comment the owner holds
	Delete(ctx context.Context, id, ownerID string) (bool, error)
}

// PlaylistUpdate holds the fields to change; nil leaves a field as is
type PlaylistUpdate struct {
	Name        *string
	Description *string
	Category    *string
}

// PlaylistRepository defines the interface for playlist data access
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *domain.Playlist) error
	// GetByID retrieves a playlist with its ordered video ids
	GetByID(ctx context.Context, id string) (*domain.Playlist, error)
	// ListByOwner lists a user's playlists with their video ids
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Playlist, error)
	// ListVideos returns the playlist's videos in playlist order; other users'
	// unpublished videos are left out for viewerID
	ListVideos(ctx context.Context, playlistID, viewerID string) ([]*domain.Video, error)
	// Update updates a playlist the owner holds; nil when nothing matched
	Update(ctx context.Context, id, ownerID string, update *PlaylistUpdate) (*domain.Playlist, error)
	// Delete removes a playlist the owner holds
	Delete(ctx context.Context, id, ownerID string) (bool, error)
	// AddVideo appends a video. ErrNotFound if the playlist is not the owner's or the
	// video does not exist or is someone else's unpublished video, ErrDuplicate if the
	// video is already in the playlist.
	AddVideo(ctx context.Context, playlistID, ownerID, videoID string) error
	// RemoveVideo removes a video; ErrNotFound if nothing matched
	RemoveVideo(ctx context.Context, playlistID, ownerID, videoID string) error
}

// ToggleRepository is the like and subscription relation store
type ToggleRepository interface {
	// Toggle flips the relation and reports whether it is now present
	Toggle(ctx context.Context, actorID string, kind domain.ToggleKind, targetID string) (bool, error)
	// Exists reports whether the relation is present
	Exists(ctx context.Context, actorID string, kind domain.ToggleKind, targetID string) (bool, error)
	// TargetExists reports whether the target row exists and viewerID may see it
	TargetExists(ctx context.Context, viewerID string, kind domain.ToggleKind, targetID string) (bool, error)
	// CountForTarget counts actors related to the target (likes on it, subscribers of it)
	CountForTarget(ctx context.Context, kind domain.ToggleKind, targetID string) (int64, error)
	// CountForActor counts targets the actor is related to
	CountForActor(ctx context.Context, kind domain.ToggleKind, actorID string) (int64, error)
	// ListLikedVideos lists videos the actor liked, newest like first
	ListLikedVideos(ctx context.Context, actorID string) ([]*domain.Video, error)
	// ListLikedTweets lists tweets the actor liked, newest like first
	ListLikedTweets(ctx context.Context, actorID string) ([]*domain.Tweet, error)
	// ListSubscribers lists users subscribed to a channel
	ListSubscribers(ctx context.Context, channelID string) ([]*domain.UserSummary, error)
	// ListSubscribedChannels lists channels a user subscribes to
	ListSubscribedChannels(ctx context.Context, subscriberID string) ([]*domain.UserSummary, error)
}

// DashboardRepository computes channel aggregates
type DashboardRepository interface {
	ChannelStats(ctx context.Context, channelID string) (*domain.ChannelStats, error)
}
