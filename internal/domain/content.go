package domain

import "time"

// Video is an uploaded video and its metadata
type Video struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	VideoURL    string
	Thumbnail   string
	Duration    float64 // seconds
	Views       int64
	IsPublished bool
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Owner *UserSummary
}

// Tweet is a short text post
type Tweet struct {
	ID        string
	OwnerID   string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time

	Owner *UserSummary
}

// Comment belongs to a video
type Comment struct {
	ID        string
	VideoID   string
	OwnerID   string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time

	Owner *UserSummary
}

// Playlist is an ordered set of videos owned by one user
type Playlist struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	Category    string
	VideoIDs    []string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Videos is filled only when the playlist is loaded by id
	Videos []*Video
}

// HasVideo reports whether the playlist already contains videoID
func (p *Playlist) HasVideo(videoID string) bool {
	for _, id := range p.VideoIDs {
		if id == videoID {
			return true
		}
	}
	return false
}

// ChannelStats aggregates a channel's dashboard numbers
type ChannelStats struct {
	TotalVideos      int64
	TotalViews       int64
	TotalLikes       int64
	TotalSubscribers int64
}
