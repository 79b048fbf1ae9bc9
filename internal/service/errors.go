package service

import "errors"

// Common errors. The handler package maps each of them to an HTTP status.
var (
	// ErrInvalidInput is wrapped with a human message: fmt.Errorf("%w: ...", ErrInvalidInput)
	ErrInvalidInput = errors.New("invalid input")

	ErrUserAlreadyExists  = errors.New("user with this username or email already exists")
	ErrEmailTaken         = errors.New("email is already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrIncorrectPassword  = errors.New("old password is incorrect")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrRefreshTokenReused = errors.New("refresh token expired or used")

	ErrVideoNotFound    = errors.New("video not found")
	ErrTweetNotFound    = errors.New("tweet not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrChannelNotFound  = errors.New("channel not found")

	ErrVideoAlreadyInPlaylist = errors.New("video already in playlist")
	ErrSelfSubscription       = errors.New("cannot subscribe to your own channel")
)
