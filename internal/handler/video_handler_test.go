package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/prasaddsahil07/vdoTube/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	videoA = "0b7c6d1e-6c1a-4f35-9b52-3a4f7c9e2d10"
	videoB = "9d2f1a44-0f0e-4c8b-8f6b-2c7d1e5a3b21"
)

func newTestVideoHandler(t *testing.T) (*VideoHandler, *stubVideoService) {
	t.Helper()
	uploader, err := NewUploader(t.TempDir(), 1<<20)
	require.NoError(t, err)
	videos := &stubVideoService{videos: map[string]*domain.Video{
		videoA: {ID: videoA, OwnerID: "u1", Title: "public", IsPublished: true},
		videoB: {ID: videoB, OwnerID: "u1", Title: "draft", IsPublished: false},
	}}
	return NewVideoHandler(videos, uploader), videos
}

func TestVideoHandler_List(t *testing.T) {
	h, videos := newTestVideoHandler(t)
	r := setupRouter("u1")
	r.GET("/videos", h.List)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantLimit  int
	}{
		{"defaults", "", http.StatusOK, 10},
		{"explicit limit", "?page=2&limit=5&sortBy=views&sortType=asc", http.StatusOK, 5},
		{"limit clamped", "?limit=500", http.StatusOK, 100},
		{"bad sort", "?sortBy=password", http.StatusBadRequest, 0},
		{"bad user id", "?userId=nope", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/videos"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}
			var resp struct {
				Meta struct {
					Limit int   `json:"limit"`
					Total int64 `json:"total"`
				} `json:"meta"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantLimit, resp.Meta.Limit)
			assert.Equal(t, tt.wantLimit, videos.lastQuery.Limit)
			assert.EqualValues(t, 2, resp.Meta.Total)
		})
	}
}

func TestVideoHandler_Get(t *testing.T) {
	h, _ := newTestVideoHandler(t)

	tests := []struct {
		name       string
		viewer     string
		id         string
		wantStatus int
	}{
		{"published", "u2", videoA, http.StatusOK},
		{"draft visible to owner", "u1", videoB, http.StatusOK},
		{"draft hidden from others", "u2", videoB, http.StatusNotFound},
		{"malformed id", "u1", "not-a-uuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter(tt.viewer)
			r.GET("/videos/:videoId", h.Get)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/videos/"+tt.id, nil))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestVideoHandler_TogglePublish(t *testing.T) {
	h, _ := newTestVideoHandler(t)

	r := setupRouter("u1")
	r.PATCH("/videos/toggle/publish/:videoId", h.TogglePublish)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/videos/toggle/publish/"+videoB, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isPublished":true`)

	other := setupRouter("u2")
	other.PATCH("/videos/toggle/publish/:videoId", h.TogglePublish)
	w = httptest.NewRecorder()
	other.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/videos/toggle/publish/"+videoB, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVideoHandler_Publish(t *testing.T) {
	h, videos := newTestVideoHandler(t)
	r := setupRouter("u1")
	r.POST("/videos", h.Publish)

	build := func(duration string) (*bytes.Buffer, string) {
		body := &bytes.Buffer{}
		mw := multipart.NewWriter(body)
		_ = mw.WriteField("title", "Intro")
		_ = mw.WriteField("description", "first upload")
		_ = mw.WriteField("duration", duration)
		writeFilePart(mw, fieldVideo, "clip.mp4", "video/mp4", "video-bytes")
		writeFilePart(mw, fieldThumbnail, "thumb.jpg", "image/jpeg", "image-bytes")
		_ = mw.Close()
		return body, mw.FormDataContentType()
	}

	body, contentType := build("12.5")
	req := httptest.NewRequest(http.MethodPost, "/videos", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"duration":12.5`)
	require.Len(t, videos.published, 2)
	assert.NotEmpty(t, videos.published[0])
	assert.NotEmpty(t, videos.published[1])

	body, contentType = build("-3")
	req = httptest.NewRequest(http.MethodPost, "/videos", body)
	req.Header.Set("Content-Type", contentType)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func writeFilePart(mw *multipart.Writer, field, filename, contentType, content string) {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, filename))
	h.Set("Content-Type", contentType)
	part, _ := mw.CreatePart(h)
	_, _ = part.Write([]byte(content))
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"", 0, false},
		{" 61.2 ", 61.2, false},
		{"abc", 0, true},
		{"-1", 0, true},
	}
	for _, tt := range tests {
		got, err := parseDuration(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseDuration(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("parseDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
