package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prasaddsahil07/vdoTube/internal/dto"
	"github.com/prasaddsahil07/vdoTube/internal/service"
	"github.com/prasaddsahil07/vdoTube/pkg/middleware"
	"github.com/prasaddsahil07/vdoTube/pkg/response"
)

// PlaylistHandler handles playlist HTTP requests
type PlaylistHandler struct {
	playlistService service.PlaylistService
}

// NewPlaylistHandler creates a new PlaylistHandler
func NewPlaylistHandler(playlistService service.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlistService: playlistService}
}

// Create handles creating a playlist
// POST /api/v1/playlists
func (h *PlaylistHandler) Create(c *gin.Context) {
	var req dto.CreatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	playlist, err := h.playlistService.CreatePlaylist(c.Request.Context(), middleware.MustGetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.SuccessWithMessage("Playlist created", toPlaylistResponse(playlist)))
}

// Get handles getting a playlist with its videos
// GET /api/v1/playlists/:playlistId
func (h *PlaylistHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "playlistId")
	if !ok {
		return
	}

	playlist, err := h.playlistService.GetPlaylist(c.Request.Context(), id, middleware.MustGetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(toPlaylistResponse(playlist)))
}

// Update handles editing a playlist
// PATCH /api/v1/playlists/:playlistId
func (h *PlaylistHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "playlistId")
	if !ok {
		return
	}
	var req dto.UpdatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	playlist, err := h.playlistService.UpdatePlaylist(c.Request.Context(), id, middleware.MustGetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage("Playlist updated", toPlaylistResponse(playlist)))
}

// Delete handles deleting a playlist
// DELETE /api/v1/playlists/:playlistId
func (h *PlaylistHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "playlistId")
	if !ok {
		return
	}

	if err := h.playlistService.DeletePlaylist(c.Request.Context(), id, middleware.MustGetUserID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage("Playlist deleted", nil))
}

// AddVideo handles adding a video to a playlist
// PATCH /api/v1/playlists/add/:videoId/:playlistId
func (h *PlaylistHandler) AddVideo(c *gin.Context) {
	videoID, ok := pathID(c, "videoId")
	if !ok {
		return
	}
	playlistID, ok := pathID(c, "playlistId")
	if !ok {
		return
	}

	playlist, err := h.playlistService.AddVideo(c.Request.Context(), playlistID, middleware.MustGetUserID(c), videoID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage("Video added to playlist", toPlaylistResponse(playlist)))
}

// RemoveVideo handles removing a video from a playlist
// PATCH /api/v1/playlists/remove/:videoId/:playlistId
func (h *PlaylistHandler) RemoveVideo(c *gin.Context) {
	videoID, ok := pathID(c, "videoId")
	if !ok {
		return
	}
	playlistID, ok := pathID(c, "playlistId")
	if !ok {
		return
	}

	playlist, err := h.playlistService.RemoveVideo(c.Request.Context(), playlistID, middleware.MustGetUserID(c), videoID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage("Video removed from playlist", toPlaylistResponse(playlist)))
}

// ListByUser handles listing a user's playlists
// GET /api/v1/playlists/user/:userId
func (h *PlaylistHandler) ListByUser(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	playlists, err := h.playlistService.ListUserPlaylists(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(toPlaylistResponses(playlists)))
}
