package dto

import (
	"strings"
	"time"
)

// RegisterRequest is the multipart form sent to POST /users/register.
// The avatar and coverImage files travel in the same form.
type RegisterRequest struct {
	FullName string `form:"fullName" json:"fullName" binding:"required,max=100"`
	Email    string `form:"email" json:"email" binding:"required,email,max=255"`
	Username string `form:"username" json:"username" binding:"required,username"`
	Password string `form:"password" json:"password" binding:"required,max=72"`
}

// Normalize trims input and lowercases the identity fields
func (r *RegisterRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Username = strings.ToLower(strings.TrimSpace(r.Username))
}

// LoginRequest accepts either a username or an email
type LoginRequest struct {
	Username string `json:"username" binding:"omitempty,max=30"`
	Email    string `json:"email" binding:"omitempty,max=255"`
	Password string `json:"password" binding:"required"`
}

// Validate validates the LoginRequest
func (r *LoginRequest) Validate() (bool, string) {
	if strings.TrimSpace(r.Username) == "" && strings.TrimSpace(r.Email) == "" {
		return false, "username or email is required"
	}
	return true, ""
}

// Normalize lowercases the identifiers
func (r *LoginRequest) Normalize() {
	r.Username = strings.ToLower(strings.TrimSpace(r.Username))
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// RefreshTokenRequest carries the refresh token for clients that do not use cookies
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordRequest is the body of POST /users/changePassword
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,max=72"`
}

// UpdateDetailsRequest is the body of PATCH /users/updateDetails
type UpdateDetailsRequest struct {
	FullName string `json:"fullName" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
}

// Normalize trims input and lowercases the email
func (r *UpdateDetailsRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// UserResponse is a user without secrets
type UserResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// OwnerResponse is the short user projection embedded in content
type OwnerResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

// AuthResponse is returned by login
type AuthResponse struct {
	User         *UserResponse `json:"user"`
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	ExpiresIn    int64         `json:"expiresIn"`
}

// TokenResponse is returned by refresh
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// ChannelProfileResponse is a user's public channel page
type ChannelProfileResponse struct {
	ID                        string `json:"id"`
	Username                  string `json:"username"`
	Email                     string `json:"email"`
	FullName                  string `json:"fullName"`
	Avatar                    string `json:"avatar"`
	CoverImage                string `json:"coverImage,omitempty"`
	SubscribersCount          int64  `json:"subscribersCount"`
	ChannelsSubscribedToCount int64  `json:"channelsSubscribedToCount"`
	IsSubscribed              bool   `json:"isSubscribed"`
}
