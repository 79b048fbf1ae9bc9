package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prasaddsahil07/vdoTube/internal/domain"
	"github.com/prasaddsahil07/vdoTube/internal/dto"
	"github.com/prasaddsahil07/vdoTube/internal/service"
	"github.com/prasaddsahil07/vdoTube/pkg/logger"
	"github.com/prasaddsahil07/vdoTube/pkg/middleware"
	"github.com/prasaddsahil07/vdoTube/pkg/response"
	"go.uber.org/zap"
)

// respondError maps a service error to its HTTP status and envelope.
// Unknown errors are logged with the request id and hidden from the client.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrIncorrectPassword),
		errors.Is(err, service.ErrSelfSubscription),
		errors.Is(err, domain.ErrUnknownToggleKind):
		c.JSON(http.StatusBadRequest, response.Error(response.ErrCodeValidation, err.Error()))

	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, response.Error("INVALID_CREDENTIALS", "Invalid user credentials"))
	case errors.Is(err, service.ErrRefreshTokenReused):
		c.JSON(http.StatusUnauthorized, response.Error("INVALID_TOKEN", err.Error()))
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, response.Error("INVALID_TOKEN", service.ErrInvalidToken.Error()))

	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrChannelNotFound),
		errors.Is(err, service.ErrVideoNotFound),
		errors.Is(err, service.ErrTweetNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrPlaylistNotFound):
		c.JSON(http.StatusNotFound, response.NotFound(err.Error()))

	case errors.Is(err, service.ErrUserAlreadyExists),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrVideoAlreadyInPlaylist):
		c.JSON(http.StatusConflict, response.Conflict(err.Error()))

	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, response.Error(response.ErrCodeTimeout, "request timed out, retry the request"))

	default:
		logger.Get().Error("request failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, response.InternalError("Something went wrong"))
	}
}

// bindError answers a request whose body or query failed validation
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.Error(response.ErrCodeValidation, dto.ValidationMessage(err)))
}
