package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prasaddsahil07/vdoTube/internal/domain"
	"github.com/prasaddsahil07/vdoTube/internal/dto"
	"github.com/prasaddsahil07/vdoTube/internal/service"
	"github.com/prasaddsahil07/vdoTube/pkg/middleware"
	"github.com/prasaddsahil07/vdoTube/pkg/response"
)

// LikeHandler handles like HTTP requests
type LikeHandler struct {
	likeService service.LikeService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likeService service.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

// likeTarget reads the kind and target id, e.g. /likes/toggle/v/:id
func likeTarget(c *gin.Context) (domain.ToggleKind, string, bool) {
	kind, err := domain.ParseLikeKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.NotFound("unknown like target"))
		return "", "", false
	}
	id, ok := pathID(c, "id")
	return kind, id, ok
}

// Toggle handles liking or unliking a video, comment or tweet
// POST /api/v1/likes/toggle/:kind/:id
func (h *LikeHandler) Toggle(c *gin.Context) {
	kind, id, ok := likeTarget(c)
	if !ok {
		return
	}

	result, err := h.likeService.ToggleLike(c.Request.Context(), middleware.MustGetUserID(c), kind, id)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Unliked successfully"
	if result.Active {
		message = "Liked successfully"
	}
	c.JSON(http.StatusOK, response.SuccessWithMessage(message, &dto.LikeToggleResponse{
		TargetID: result.TargetID,
		Kind:     string(result.Kind),
		Liked:    result.Active,
	}))
}

// IsLiked reports whether the caller likes the target
// GET /api/v1/likes/isLiked/:kind/:id
func (h *LikeHandler) IsLiked(c *gin.Context) {
	kind, id, ok := likeTarget(c)
	if !ok {
		return
	}

	liked, err := h.likeService.IsLiked(c.Request.Context(), middleware.MustGetUserID(c), kind, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(&dto.IsLikedResponse{IsLiked: liked}))
}

// LikedVideos lists videos the caller liked
// GET /api/v1/likes/videos
func (h *LikeHandler) LikedVideos(c *gin.Context) {
	videos, err := h.likeService.LikedVideos(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(toVideoResponses(videos)))
}

// LikedTweets lists tweets the caller liked
// GET /api/v1/likes/tweets
func (h *LikeHandler) LikedTweets(c *gin.Context) {
	tweets, err := h.likeService.LikedTweets(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(toTweetResponses(tweets)))
}

// SubscriptionHandler handles subscription HTTP requests
type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(subscriptionService service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// Toggle handles subscribing or unsubscribing
// POST /api/v1/subscriptions/c/:channelId
func (h *SubscriptionHandler) Toggle(c *gin.Context) {
	channelID, ok := pathID(c, "channelId")
	if !ok {
		return
	}

	result, count, err := h.subscriptionService.ToggleSubscription(c.Request.Context(), middleware.MustGetUserID(c), channelID)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Unsubscribed successfully"
	if result.Active {
		message = "Subscribed successfully"
	}
	c.JSON(http.StatusOK, response.SuccessWithMessage(message, &dto.SubscriptionToggleResponse{
		ChannelID:        channelID,
		Subscribed:       result.Active,
		SubscribersCount: count,
	}))
}

// Subscribers lists a channel's subscribers
// GET /api/v1/subscriptions/c/:channelId
func (h *SubscriptionHandler) Subscribers(c *gin.Context) {
	channelID, ok := pathID(c, "channelId")
	if !ok {
		return
	}

	subscribers, err := h.subscriptionService.Subscribers(c.Request.Context(), channelID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(&dto.SubscribersResponse{
		Subscribers:      toOwnerResponses(subscribers),
		SubscribersCount: int64(len(subscribers)),
	}))
}

// SubscribedChannels lists the channels a user follows
// GET /api/v1/subscriptions/u/:subscriberId
func (h *SubscriptionHandler) SubscribedChannels(c *gin.Context) {
	subscriberID, ok := pathID(c, "subscriberId")
	if !ok {
		return
	}

	channels, err := h.subscriptionService.SubscribedChannels(c.Request.Context(), subscriberID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(&dto.SubscribedChannelsResponse{
		Channels:      toOwnerResponses(channels),
		ChannelsCount: int64(len(channels)),
	}))
}

// IsSubscribed reports whether the caller follows the channel
// GET /api/v1/subscriptions/isSubscribed/:channelId
func (h *SubscriptionHandler) IsSubscribed(c *gin.Context) {
	channelID, ok := pathID(c, "channelId")
	if !ok {
		return
	}

	subscribed, err := h.subscriptionService.IsSubscribed(c.Request.Context(), middleware.MustGetUserID(c), channelID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(&dto.IsSubscribedResponse{IsSubscribed: subscribed}))
}
