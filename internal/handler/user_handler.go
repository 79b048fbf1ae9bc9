package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prasaddsahil07/vdoTube/internal/domain"
	"github.com/prasaddsahil07/vdoTube/internal/dto"
	"github.com/prasaddsahil07/vdoTube/internal/service"
	"github.com/prasaddsahil07/vdoTube/pkg/middleware"
	"github.com/prasaddsahil07/vdoTube/pkg/response"
)

// UserHandler handles account, session and channel HTTP requests
type UserHandler struct {
	authService service.AuthService
	userService service.UserService
	uploader    *Uploader
	cookies     CookieOptions
	refreshTTL  time.Duration
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(
	authService service.AuthService,
	userService service.UserService,
	uploader *Uploader,
	cookies CookieOptions,
	refreshTTL time.Duration,
) *UserHandler {
	return &UserHandler{
		authService: authService,
		userService: userService,
		uploader:    uploader,
		cookies:     cookies,
		refreshTTL:  refreshTTL,
	}
}

// Register handles user registration
// POST /api/v1/users/register
func (h *UserHandler) Register(c *gin.Context) {
	h.uploader.limit(c)

	var req dto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}

	avatarPath, err := h.uploader.save(c, fieldAvatar, "image")
	if err != nil {
		respondError(c, err)
		return
	}
	coverPath, err := h.uploader.save(c, fieldCoverImage, "image")
	if err != nil {
		discard(avatarPath)
		respondError(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req, avatarPath, coverPath)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.SuccessWithMessage("User registered successfully", toUserResponse(user)))
}

// Login handles user login
// POST /api/v1/users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.Error(response.ErrCodeValidation, msg))
		return
	}

	user, pair, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.cookies.setAuthCookies(c, pair, h.refreshTTL)
	c.JSON(http.StatusOK, response.SuccessWithMessage("User logged in successfully", &dto.AuthResponse{
		User:         toUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}))
}

// Logout ends the caller's session
// POST /api/v1/users/logout
func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.MustGetUserID(c)); err != nil {
		respondError(c, err)
		return
	}

	h.cookies.clearAuthCookies(c)
	c.JSON(http.StatusOK, response.SuccessWithMessage("User logged out", nil))
}

// RefreshToken exchanges a refresh token for a new pair. The cookie wins over the body.
// POST /api/v1/users/refreshToken
func (h *UserHandler) RefreshToken(c *gin.Context) {
	token, _ := c.Cookie(refreshTokenCookie)
	if token == "" {
		var req dto.RefreshTokenRequest
		// an empty body is fine, the token is then simply missing
		_ = c.ShouldBindJSON(&req)
		token = req.RefreshToken
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("unauthorized request"))
		return
	}

	pair, err := h.authService.RefreshSession(c.Request.Context(), token)
	if err != nil {
		// a transient failure leaves the session usable for a retry
		if errors.Is(err, service.ErrInvalidToken) || errors.Is(err, service.ErrRefreshTokenReused) {
			h.cookies.clearAuthCookies(c)
		}
		respondError(c, err)
		return
	}

	h.cookies.setAuthCookies(c, pair, h.refreshTTL)
	c.JSON(http.StatusOK, response.SuccessWithMessage("Access token refreshed", &dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}))
}

// ChangePassword replaces the caller's password
// POST /api/v1/users/changePassword
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), currentUser(c), &req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage("Password changed successfully", nil))
}

// GetCurrentUser returns the caller
// GET /api/v1/users/getUser
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(toUserResponse(currentUser(c))))
}

// GetUserByID returns any user
// GET /api/v1/users/getUserById/:userId
func (h *UserHandler) GetUserByID(c *gin.Context) {
	id, ok := pathID(c, "userId")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(toUserResponse(user)))
}

// UpdateDetails changes full name and email
// PATCH /api/v1/users/updateDetails
func (h *UserHandler) UpdateDetails(c *gin.Context) {
	var req dto.UpdateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userService.UpdateDetails(c.Request.Context(), middleware.MustGetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage("Account details updated", toUserResponse(user)))
}

// UpdateAvatar replaces the caller's avatar
// PATCH /api/v1/users/updateAvatar
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	h.updateImage(c, fieldAvatar, h.userService.UpdateAvatar, "Avatar updated")
}

// UpdateCoverImage replaces the caller's cover image
// PATCH /api/v1/users/updateCoverImage
func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	h.updateImage(c, fieldCoverImage, h.userService.UpdateCoverImage, "Cover image updated")
}

func (h *UserHandler) updateImage(
	c *gin.Context,
	field string,
	update func(ctx context.Context, userID, localPath string) (*domain.User, error),
	message string,
) {
	h.uploader.limit(c)

	path, err := h.uploader.save(c, field, "image")
	if err != nil {
		respondError(c, err)
		return
	}
	if path == "" {
		c.JSON(http.StatusBadRequest, response.Error(response.ErrCodeValidation, field+" file is missing"))
		return
	}

	user, err := update(c.Request.Context(), middleware.MustGetUserID(c), path)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage(message, toUserResponse(user)))
}

// WatchHistory lists the caller's watched videos
// GET /api/v1/users/history
func (h *UserHandler) WatchHistory(c *gin.Context) {
	videos, err := h.userService.GetWatchHistory(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(toVideoResponses(videos)))
}

// ChannelProfile returns a channel page by username
// GET /api/v1/users/c/:username
func (h *UserHandler) ChannelProfile(c *gin.Context) {
	profile, err := h.userService.GetChannelProfile(c.Request.Context(), c.Param("username"), middleware.MustGetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(&dto.ChannelProfileResponse{
		ID:                        profile.User.ID,
		Username:                  profile.User.Username,
		Email:                     profile.User.Email,
		FullName:                  profile.User.FullName,
		Avatar:                    profile.User.Avatar,
		CoverImage:                profile.User.CoverImage,
		SubscribersCount:          profile.SubscribersCount,
		ChannelsSubscribedToCount: profile.ChannelsSubscribedToCount,
		IsSubscribed:              profile.IsSubscribed,
	}))
}
