package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prasaddsahil07/vdoTube/internal/domain"
	"github.com/prasaddsahil07/vdoTube/internal/middleware"
)

const (
	accessTokenCookie  = middleware.AccessTokenCookie
	refreshTokenCookie = "refreshToken"
)

// CookieOptions are the attributes of the auth cookies
type CookieOptions struct {
	Secure   bool
	Domain   string
	SameSite http.SameSite
}

func (o CookieOptions) set(c *gin.Context, name, value string, maxAge time.Duration) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   o.Domain,
		MaxAge:   int(maxAge.Seconds()),
		Secure:   o.Secure,
		HttpOnly: true,
		SameSite: o.SameSite,
	})
}

// setAuthCookies writes both tokens as HttpOnly cookies
func (o CookieOptions) setAuthCookies(c *gin.Context, pair *domain.TokenPair, refreshTTL time.Duration) {
	o.set(c, accessTokenCookie, pair.AccessToken, time.Duration(pair.ExpiresIn)*time.Second)
	o.set(c, refreshTokenCookie, pair.RefreshToken, refreshTTL)
}

// clearAuthCookies expires both cookies
func (o CookieOptions) clearAuthCookies(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{Name: accessTokenCookie, Path: "/", Domain: o.Domain, MaxAge: -1,
		Secure: o.Secure, HttpOnly: true, SameSite: o.SameSite})
	http.SetCookie(c.Writer, &http.Cookie{Name: refreshTokenCookie, Path: "/", Domain: o.Domain, MaxAge: -1,
		Secure: o.Secure, HttpOnly: true, SameSite: o.SameSite})
}
