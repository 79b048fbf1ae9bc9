package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prasaddsahil07/vdoTube/internal/domain"
	"github.com/prasaddsahil07/vdoTube/pkg/middleware"
	"github.com/prasaddsahil07/vdoTube/pkg/response"
)

// pathID reads a UUID path parameter, answering 400 when it is malformed
func pathID(c *gin.Context, name string) (string, bool) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(response.ErrCodeValidation, "invalid "+name))
		return "", false
	}
	return id.String(), true
}

// currentUser returns the principal attached by the auth gate
func currentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(middleware.ContextKeyUser)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}
