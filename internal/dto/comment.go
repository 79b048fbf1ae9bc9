package dto

import "time"

// CommentRequest is the body for adding or editing a comment
type CommentRequest struct {
	Content string `json:"content" binding:"required,max=1000"`
}

// CommentResponse represents a comment
type CommentResponse struct {
	ID        string         `json:"id"`
	VideoID   string         `json:"videoId"`
	OwnerID   string         `json:"ownerId"`
	Owner     *OwnerResponse `json:"owner,omitempty"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
