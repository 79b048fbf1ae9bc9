package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prasaddsahil07/vdoTube/internal/dto"
	"github.com/prasaddsahil07/vdoTube/internal/service"
	"github.com/prasaddsahil07/vdoTube/pkg/middleware"
	"github.com/prasaddsahil07/vdoTube/pkg/response"
)

// CommentHandler handles comment HTTP requests
type CommentHandler struct {
	commentService service.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// List handles listing a video's comments
// GET /api/v1/comments/:videoId
func (h *CommentHandler) List(c *gin.Context) {
	videoID, ok := pathID(c, "videoId")
	if !ok {
		return
	}
	var page dto.PageQuery
	if err := c.ShouldBindQuery(&page); err != nil {
		bindError(c, err)
		return
	}

	comments, total, err := h.commentService.ListComments(c.Request.Context(), videoID, middleware.MustGetUserID(c), &page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(toCommentResponses(comments), page.Page, page.Limit, total))
}

// Add handles commenting on a video
// POST /api/v1/comments/:videoId
func (h *CommentHandler) Add(c *gin.Context) {
	videoID, ok := pathID(c, "videoId")
	if !ok {
		return
	}
	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	comment, err := h.commentService.AddComment(c.Request.Context(), videoID, middleware.MustGetUserID(c), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.SuccessWithMessage("Comment added", toCommentResponse(comment)))
}

// Update handles editing a comment
// PATCH /api/v1/comments/c/:commentId
func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "commentId")
	if !ok {
		return
	}
	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	comment, err := h.commentService.UpdateComment(c.Request.Context(), id, middleware.MustGetUserID(c), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage("Comment updated", toCommentResponse(comment)))
}

// Delete handles deleting a comment
// DELETE /api/v1/comments/c/:commentId
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "commentId")
	if !ok {
		return
	}

	if err := h.commentService.DeleteComment(c.Request.Context(), id, middleware.MustGetUserID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage("Comment deleted", nil))
}
