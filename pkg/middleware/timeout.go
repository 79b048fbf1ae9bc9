package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prasaddsahil07/vdoTube/pkg/response"
)

// Timeout bounds the request context. Handlers observe the deadline through
// their store calls; if the deadline passed and nothing was written yet, the
// request is answered with 503 so the client knows to retry.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				response.Error(response.ErrCodeTimeout, "request timed out, retry the request"))
		}
	}
}
