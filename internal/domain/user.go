package domain

import "time"

// User is a registered principal. Username and email are stored lowercased.
type User struct {
	ID           string
	Username     string
	Email        string
	FullName     string
	Avatar       string
	CoverImage   string
	PasswordHash string
	// RefreshTokenHash is the SHA-256 digest of the only refresh token that may be exchanged.
	// Nil means there is no active session.
	RefreshTokenHash *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasSession reports whether a refresh token is currently on file
func (u *User) HasSession() bool {
	return u.RefreshTokenHash != nil && *u.RefreshTokenHash != ""
}

// Sanitized returns a copy without the password hash and session digest
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.PasswordHash = ""
	cp.RefreshTokenHash = nil
	return &cp
}

// UserSummary is the owner projection embedded in videos, tweets and comments
type UserSummary struct {
	ID       string
	Username string
	FullName string
	Avatar   string
}

// Claims are the verified contents of an access token
type Claims struct {
	UserID   string
	Email    string
	Username string
	FullName string
}

// TokenPair is the result of issuing a session
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// ChannelProfile is a user's public channel page
type ChannelProfile struct {
	User                      *User
	SubscribersCount          int64
	ChannelsSubscribedToCount int64
	IsSubscribed              bool
}
