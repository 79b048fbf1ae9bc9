package dto

import (
	"strings"
	"time"
)

// VideoListQuery filters GET /videos
type VideoListQuery struct {
	PageQuery
	Query    string `form:"query" binding:"max=200"`
	SortBy   string `form:"sortBy" binding:"omitempty,oneof=createdAt created_at views duration title"`
	SortType string `form:"sortType" binding:"omitempty,oneof=asc desc"`
	UserID   string `form:"userId" binding:"omitempty,uuid"`
}

// SetDefaults fills pagination and ordering defaults
func (q *VideoListQuery) SetDefaults() {
	q.PageQuery.SetDefaults()
	q.Query = strings.TrimSpace(q.Query)
	if q.SortBy == "" {
		q.SortBy = "createdAt"
	}
	if q.SortType == "" {
		q.SortType = "desc"
	}
}

// PublishVideoRequest is the multipart form of POST /videos; the video and thumbnail files ride along
type PublishVideoRequest struct {
	Title       string `form:"title" binding:"required,max=200"`
	Description string `form:"description" binding:"required,max=5000"`
}

// UpdateVideoRequest is the multipart form of PATCH /videos/:videoId; thumbnail is optional
type UpdateVideoRequest struct {
	Title       string `form:"title" binding:"omitempty,max=200"`
	Description string `form:"description" binding:"omitempty,max=5000"`
}

// VideoResponse represents a video
type VideoResponse struct {
	ID          string         `json:"id"`
	OwnerID     string         `json:"ownerId"`
	Owner       *OwnerResponse `json:"owner,omitempty"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	VideoFile   string         `json:"videoFile"`
	Thumbnail   string         `json:"thumbnail"`
	Duration    float64        `json:"duration"`
	Views       int64          `json:"views"`
	IsPublished bool           `json:"isPublished"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// PublishStatusResponse is returned after flipping a video's visibility
type PublishStatusResponse struct {
	ID          string `json:"id"`
	IsPublished bool   `json:"isPublished"`
}
