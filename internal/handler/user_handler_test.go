package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prasaddsahil07/vdoTube/internal/domain"
	"github.com/prasaddsahil07/vdoTube/internal/dto"
	"github.com/prasaddsahil07/vdoTube/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestUserHandler(t *testing.T, auth service.AuthService) (*UserHandler, string) {
	t.Helper()
	dir := t.TempDir()
	uploader, err := NewUploader(dir, 1<<20)
	require.NoError(t, err)
	return NewUserHandler(auth, nil, uploader, CookieOptions{Secure: true, SameSite: http.SameSiteNoneMode}, 24*time.Hour), dir
}

func cookiesByName(w *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range w.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func TestUserHandler_Register(t *testing.T) {
	auth := new(mockAuthService)
	h, dir := newTestUserHandler(t, auth)
	r := setupRouter("")
	r.POST("/register", h.Register)

	auth.On("Register", mock.Anything, mock.MatchedBy(func(req *dto.RegisterRequest) bool {
		return req.Username == "alice" && req.Email == "alice@x.com" && req.Password == "pw123"
	}), mock.MatchedBy(func(p string) bool {
		return strings.HasPrefix(p, dir) && strings.HasSuffix(p, ".png")
	}), "").Return(&domain.User{ID: "u1", Username: "alice", Email: "alice@x.com", PasswordHash: "hash"}, nil)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	_ = mw.WriteField("fullName", "Alice")
	_ = mw.WriteField("email", "alice@x.com")
	_ = mw.WriteField("username", "alice")
	_ = mw.WriteField("password", "pw123")
	fw, err := mw.CreateFormFile(fieldAvatar, "me.png")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("\x89PNG\r\n"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/register", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "hash")
	assert.NotContains(t, w.Body.String(), "password")
	auth.AssertExpectations(t)
}

func TestUserHandler_Register_MissingPassword(t *testing.T) {
	auth := new(mockAuthService)
	h, _ := newTestUserHandler(t, auth)
	r := setupRouter("")
	r.POST("/register", h.Register)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	_ = mw.WriteField("fullName", "Alice")
	_ = mw.WriteField("email", "alice@x.com")
	_ = mw.WriteField("username", "alice")
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/register", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "password is required")
	assert.NotContains(t, w.Body.String(), "Field validation")
	auth.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUserHandler_Register_RejectsNonImageAvatar(t *testing.T) {
	auth := new(mockAuthService)
	h, dir := newTestUserHandler(t, auth)
	r := setupRouter("")
	r.POST("/register", h.Register)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	_ = mw.WriteField("fullName", "Alice")
	_ = mw.WriteField("email", "alice@example.com")
	_ = mw.WriteField("username", "alice")
	_ = mw.WriteField("password", "password123")
	fw, _ := mw.CreateFormFile(fieldAvatar, "notes.txt")
	_, _ = fw.Write([]byte("hello"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/register", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
	auth.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUserHandler_Login(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		setup       func(auth *mockAuthService)
		wantStatus  int
		wantCookies bool
	}{
		{
			name: "success sets both cookies",
			body: `{"username":"alice","password":"password123"}`,
			setup: func(auth *mockAuthService) {
				auth.On("Login", mock.Anything, mock.Anything).Return(
					&domain.User{ID: "u1", Username: "alice"},
					&domain.TokenPair{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 900},
					nil)
			},
			wantStatus:  http.StatusOK,
			wantCookies: true,
		},
		{
			name: "wrong password",
			body: `{"email":"alice@example.com","password":"nope"}`,
			setup: func(auth *mockAuthService) {
				auth.On("Login", mock.Anything, mock.Anything).Return(nil, nil, service.ErrInvalidCredentials)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "no identifier",
			body:       `{"password":"password123"}`,
			setup:      func(auth *mockAuthService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			body:       `{`,
			setup:      func(auth *mockAuthService) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := new(mockAuthService)
			tt.setup(auth)
			h, _ := newTestUserHandler(t, auth)
			r := setupRouter("")
			r.POST("/login", h.Login)

			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			cookies := cookiesByName(w)
			if !tt.wantCookies {
				assert.Empty(t, cookies)
				return
			}
			require.Contains(t, cookies, accessTokenCookie)
			require.Contains(t, cookies, refreshTokenCookie)
			assert.True(t, cookies[accessTokenCookie].HttpOnly)
			assert.True(t, cookies[refreshTokenCookie].Secure)
			assert.Equal(t, "refresh", cookies[refreshTokenCookie].Value)
		})
	}
}

func TestUserHandler_RefreshToken(t *testing.T) {
	t.Run("cookie wins over body", func(t *testing.T) {
		auth := new(mockAuthService)
		auth.On("RefreshSession", mock.Anything, "from-cookie").
			Return(&domain.TokenPair{AccessToken: "a2", RefreshToken: "r2", ExpiresIn: 900}, nil)
		h, _ := newTestUserHandler(t, auth)
		r := setupRouter("")
		r.POST("/refresh", h.RefreshToken)

		req := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader(`{"refreshToken":"from-body"}`))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(&http.Cookie{Name: refreshTokenCookie, Value: "from-cookie"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "r2", cookiesByName(w)[refreshTokenCookie].Value)
		auth.AssertExpectations(t)
	})

	t.Run("body fallback", func(t *testing.T) {
		auth := new(mockAuthService)
		auth.On("RefreshSession", mock.Anything, "from-body").
			Return(&domain.TokenPair{AccessToken: "a2", RefreshToken: "r2", ExpiresIn: 900}, nil)
		h, _ := newTestUserHandler(t, auth)
		r := setupRouter("")
		r.POST("/refresh", h.RefreshToken)

		req := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader(`{"refreshToken":"from-body"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data dto.TokenResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "a2", resp.Data.AccessToken)
	})

	t.Run("missing token", func(t *testing.T) {
		auth := new(mockAuthService)
		h, _ := newTestUserHandler(t, auth)
		r := setupRouter("")
		r.POST("/refresh", h.RefreshToken)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/refresh", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		auth.AssertNotCalled(t, "RefreshSession", mock.Anything, mock.Anything)
	})

	t.Run("reused token clears cookies", func(t *testing.T) {
		auth := new(mockAuthService)
		auth.On("RefreshSession", mock.Anything, "stale").Return(nil, service.ErrRefreshTokenReused)
		h, _ := newTestUserHandler(t, auth)
		r := setupRouter("")
		r.POST("/refresh", h.RefreshToken)

		req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		req.AddCookie(&http.Cookie{Name: refreshTokenCookie, Value: "stale"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "refresh token expired or used")
		cookies := cookiesByName(w)
		require.Contains(t, cookies, refreshTokenCookie)
		assert.Equal(t, -1, cookies[refreshTokenCookie].MaxAge)
	})

	t.Run("store failure keeps cookies", func(t *testing.T) {
		auth := new(mockAuthService)
		auth.On("RefreshSession", mock.Anything, "valid").Return(nil, errors.New("db down"))
		h, _ := newTestUserHandler(t, auth)
		r := setupRouter("")
		r.POST("/refresh", h.RefreshToken)

		req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		req.AddCookie(&http.Cookie{Name: refreshTokenCookie, Value: "valid"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Empty(t, cookiesByName(w))
	})
}

func TestUserHandler_Logout(t *testing.T) {
	auth := new(mockAuthService)
	auth.On("Logout", mock.Anything, "u1").Return(nil)
	h, _ := newTestUserHandler(t, auth)
	r := setupRouter("u1")
	r.POST("/logout", h.Logout)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/logout", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	cookies := cookiesByName(w)
	assert.Equal(t, -1, cookies[accessTokenCookie].MaxAge)
	assert.Equal(t, -1, cookies[refreshTokenCookie].MaxAge)
	auth.AssertExpectations(t)
}

func TestUploader_StagesUnderDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	u, err := NewUploader(dir, 0)
	require.NoError(t, err)

	info, err := os.Stat(u.dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
