package dto

import "time"

// CreatePlaylistRequest is the body of POST /playlists
type CreatePlaylistRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=1000"`
	Category    string `json:"category" binding:"max=50"`
}

// UpdatePlaylistRequest is the body of PATCH /playlists/:playlistId. Nil fields are left unchanged.
type UpdatePlaylistRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Category    *string `json:"category" binding:"omitempty,max=50"`
}

// Validate validates the UpdatePlaylistRequest
func (r *UpdatePlaylistRequest) Validate() (bool, string) {
	if r.Name == nil && r.Description == nil && r.Category == nil {
		return false, "at least one of name, description or category is required"
	}
	return true, ""
}

// PlaylistResponse represents a playlist
type PlaylistResponse struct {
	ID          string           `json:"id"`
	OwnerID     string           `json:"ownerId"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	VideoIDs    []string         `json:"videoIds"`
	Videos      []*VideoResponse `json:"videos,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}
