package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prasaddsahil07/vdoTube/internal/domain"
	"github.com/prasaddsahil07/vdoTube/internal/service"
	pkgmiddleware "github.com/prasaddsahil07/vdoTube/pkg/middleware"
	"github.com/prasaddsahil07/vdoTube/pkg/response"
)

// AccessTokenCookie is the cookie the login handler writes the access token to
const AccessTokenCookie = "accessToken"

const bearerPrefix = "Bearer "

// Authenticator resolves an access token into its principal
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string, withSecrets bool) (*domain.User, error)
}

// Auth rejects requests without a valid access token and attaches the principal
func Auth(auth Authenticator) gin.HandlerFunc {
	return gate(auth, false)
}

// AuthWithSecrets is Auth for routes that need the password hash, e.g. change password
func AuthWithSecrets(auth Authenticator) gin.HandlerFunc {
	return gate(auth, true)
}

func gate(auth Authenticator, withSecrets bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Unauthorized("unauthorized request"))
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token, withSecrets)
		if err != nil {
			if !errors.Is(err, service.ErrInvalidToken) {
				_ = c.Error(err)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("INVALID_TOKEN", service.ErrInvalidToken.Error()))
			return
		}

		c.Set(pkgmiddleware.ContextKeyUserID, user.ID)
		c.Set(pkgmiddleware.ContextKeyUser, user)
		c.Set(pkgmiddleware.ContextKeyUsername, user.Username)
		c.Next()
	}
}

// extractToken prefers the cookie over the Authorization header
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if len(header) > len(bearerPrefix) && strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(header[len(bearerPrefix):])
	}
	return ""
}
