package middleware

import "github.com/gin-gonic/gin"

// Context keys shared between the auth gate and downstream handlers
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUser     = "user"
	ContextKeyUsername = "username"
)

// GetUserID returns the authenticated principal id set by the auth gate
func GetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(ContextKeyUserID)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// MustGetUserID is GetUserID for routes that are always behind the auth gate
func MustGetUserID(c *gin.Context) string {
	id, _ := GetUserID(c)
	return id
}
