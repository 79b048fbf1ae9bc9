package dto

import "time"

// TweetRequest is the body of POST /tweets and PATCH /tweets/:tweetId
type TweetRequest struct {
	Content string `json:"content" binding:"required,max=280"`
}

// TweetResponse represents a tweet
type TweetResponse struct {
	ID        string         `json:"id"`
	OwnerID   string         `json:"ownerId"`
	Owner     *OwnerResponse `json:"owner,omitempty"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
