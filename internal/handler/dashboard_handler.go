package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prasaddsahil07/vdoTube/internal/dto"
	"github.com/prasaddsahil07/vdoTube/internal/service"
	"github.com/prasaddsahil07/vdoTube/pkg/middleware"
	"github.com/prasaddsahil07/vdoTube/pkg/response"
)

// DashboardHandler handles channel dashboard HTTP requests
type DashboardHandler struct {
	dashboardService service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats returns channel totals
// GET /api/v1/dashboard/stats/:channelId
func (h *DashboardHandler) Stats(c *gin.Context) {
	channelID, ok := pathID(c, "channelId")
	if !ok {
		return
	}

	stats, err := h.dashboardService.Stats(c.Request.Context(), channelID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(&dto.ChannelStatsResponse{
		TotalVideos:      stats.TotalVideos,
		TotalViews:       stats.TotalViews,
		TotalLikes:       stats.TotalLikes,
		TotalSubscribers: stats.TotalSubscribers,
	}))
}

// ChannelVideos lists a channel's videos
// GET /api/v1/dashboard/videos/:channelId
func (h *DashboardHandler) ChannelVideos(c *gin.Context) {
	channelID, ok := pathID(c, "channelId")
	if !ok {
		return
	}
	var page dto.PageQuery
	if err := c.ShouldBindQuery(&page); err != nil {
		bindError(c, err)
		return
	}

	videos, total, err := h.dashboardService.ChannelVideos(c.Request.Context(), channelID, middleware.MustGetUserID(c), &page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(toVideoResponses(videos), page.Page, page.Limit, total))
}

// PublishedVideos lists every published video
// GET /api/v1/dashboard/videos/getAllPublishedVideos/published
func (h *DashboardHandler) PublishedVideos(c *gin.Context) {
	var page dto.PageQuery
	if err := c.ShouldBindQuery(&page); err != nil {
		bindError(c, err)
		return
	}

	videos, total, err := h.dashboardService.PublishedVideos(c.Request.Context(), &page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(toVideoResponses(videos), page.Page, page.Limit, total))
}
