package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prasaddsahil07/vdoTube/internal/dto"
	"github.com/prasaddsahil07/vdoTube/internal/service"
	"github.com/prasaddsahil07/vdoTube/pkg/middleware"
	"github.com/prasaddsahil07/vdoTube/pkg/response"
)

// VideoHandler handles video HTTP requests
type VideoHandler struct {
	videoService service.VideoService
	uploader     *Uploader
}

// NewVideoHandler creates a new VideoHandler
func NewVideoHandler(videoService service.VideoService, uploader *Uploader) *VideoHandler {
	return &VideoHandler{
		videoService: videoService,
		uploader:     uploader,
	}
}

// List handles listing videos
// GET /api/v1/videos
func (h *VideoHandler) List(c *gin.Context) {
	var query dto.VideoListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}

	videos, total, err := h.videoService.ListVideos(c.Request.Context(), &query, middleware.MustGetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(toVideoResponses(videos), query.Page, query.Limit, total))
}

// Publish handles uploading a new video
// POST /api/v1/videos
func (h *VideoHandler) Publish(c *gin.Context) {
	h.uploader.limit(c)

	var req dto.PublishVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}

	duration, err := parseDuration(c.PostForm("duration"))
	if err != nil {
		respondError(c, err)
		return
	}

	videoPath, err := h.uploader.save(c, fieldVideo, "video")
	if err != nil {
		respondError(c, err)
		return
	}
	thumbnailPath, err := h.uploader.save(c, fieldThumbnail, "image")
	if err != nil {
		discard(videoPath)
		respondError(c, err)
		return
	}

	video, err := h.videoService.PublishVideo(c.Request.Context(), middleware.MustGetUserID(c), &req, duration, videoPath, thumbnailPath)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.SuccessWithMessage("Video published", toVideoResponse(video)))
}

// Get handles getting a video by ID
// GET /api/v1/videos/:videoId
func (h *VideoHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "videoId")
	if !ok {
		return
	}

	video, err := h.videoService.GetVideo(c.Request.Context(), id, middleware.MustGetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(toVideoResponse(video)))
}

// Update handles editing a video
// PATCH /api/v1/videos/:videoId
func (h *VideoHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "videoId")
	if !ok {
		return
	}
	h.uploader.limit(c)

	var req dto.UpdateVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}

	thumbnailPath, err := h.uploader.save(c, fieldThumbnail, "image")
	if err != nil {
		respondError(c, err)
		return
	}

	video, err := h.videoService.UpdateVideo(c.Request.Context(), id, middleware.MustGetUserID(c), &req, thumbnailPath)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage("Video updated", toVideoResponse(video)))
}

// Delete handles deleting a video
// DELETE /api/v1/videos/:videoId
func (h *VideoHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "videoId")
	if !ok {
		return
	}

	if err := h.videoService.DeleteVideo(c.Request.Context(), id, middleware.MustGetUserID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage("Video deleted", nil))
}

// TogglePublish flips a video's visibility
// PATCH /api/v1/videos/toggle/publish/:videoId
func (h *VideoHandler) TogglePublish(c *gin.Context) {
	id, ok := pathID(c, "videoId")
	if !ok {
		return
	}

	video, err := h.videoService.TogglePublish(c.Request.Context(), id, middleware.MustGetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage("Publish status toggled", &dto.PublishStatusResponse{
		ID:          video.ID,
		IsPublished: video.IsPublished,
	}))
}

// RecordView counts a view and adds the video to the caller's history
// PATCH /api/v1/videos/watchHistory/:videoId
func (h *VideoHandler) RecordView(c *gin.Context) {
	id, ok := pathID(c, "videoId")
	if !ok {
		return
	}

	video, err := h.videoService.RecordView(c.Request.Context(), id, middleware.MustGetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(toVideoResponse(video)))
}

// parseDuration reads the optional duration form field in seconds
func parseDuration(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	d, err := strconv.ParseFloat(raw, 64)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: duration must be a non-negative number of seconds", service.ErrInvalidInput)
	}
	return d, nil
}
