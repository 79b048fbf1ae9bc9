package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prasaddsahil07/vdoTube/internal/dto"
	"github.com/prasaddsahil07/vdoTube/internal/service"
	"github.com/prasaddsahil07/vdoTube/pkg/middleware"
	"github.com/prasaddsahil07/vdoTube/pkg/response"
)

// TweetHandler handles tweet HTTP requests
type TweetHandler struct {
	tweetService service.TweetService
}

// NewTweetHandler creates a new TweetHandler
func NewTweetHandler(tweetService service.TweetService) *TweetHandler {
	return &TweetHandler{tweetService: tweetService}
}

// Create handles posting a tweet
// POST /api/v1/tweets
func (h *TweetHandler) Create(c *gin.Context) {
	var req dto.TweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	tweet, err := h.tweetService.CreateTweet(c.Request.Context(), middleware.MustGetUserID(c), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.SuccessWithMessage("Tweet created", toTweetResponse(tweet)))
}

// ListByUser handles listing a user's tweets
// GET /api/v1/tweets/user/:userId
func (h *TweetHandler) ListByUser(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	var page dto.PageQuery
	if err := c.ShouldBindQuery(&page); err != nil {
		bindError(c, err)
		return
	}

	tweets, total, err := h.tweetService.ListUserTweets(c.Request.Context(), userID, &page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(toTweetResponses(tweets), page.Page, page.Limit, total))
}

// ListAll handles listing every tweet
// GET /api/v1/tweets/getAllTweets
func (h *TweetHandler) ListAll(c *gin.Context) {
	var page dto.PageQuery
	if err := c.ShouldBindQuery(&page); err != nil {
		bindError(c, err)
		return
	}

	tweets, total, err := h.tweetService.ListTweets(c.Request.Context(), &page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(toTweetResponses(tweets), page.Page, page.Limit, total))
}

// Update handles editing a tweet
// PATCH /api/v1/tweets/:tweetId
func (h *TweetHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "tweetId")
	if !ok {
		return
	}
	var req dto.TweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	tweet, err := h.tweetService.UpdateTweet(c.Request.Context(), id, middleware.MustGetUserID(c), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage("Tweet updated", toTweetResponse(tweet)))
}

// Delete handles deleting a tweet
// DELETE /api/v1/tweets/:tweetId
func (h *TweetHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "tweetId")
	if !ok {
		return
	}

	if err := h.tweetService.DeleteTweet(c.Request.Context(), id, middleware.MustGetUserID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage("Tweet deleted", nil))
}
