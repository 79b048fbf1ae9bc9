package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prasaddsahil07/vdoTube/internal/domain"
	"github.com/prasaddsahil07/vdoTube/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestRespondError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", fmt.Errorf("%w: title is required", service.ErrInvalidInput), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"self subscription", service.ErrSelfSubscription, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown kind", domain.ErrUnknownToggleKind, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"reused refresh", service.ErrRefreshTokenReused, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"not found", fmt.Errorf("load: %w", service.ErrPlaylistNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", service.ErrVideoAlreadyInPlaylist, http.StatusConflict, "CONFLICT"},
		{"timeout", fmt.Errorf("query: %w", context.DeadlineExceeded), http.StatusServiceUnavailable, "REQUEST_TIMEOUT"},
		{"internal", errors.New("pq: relation does not exist"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter("")
			r.GET("/", func(c *gin.Context) { respondError(c, tt.err) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), `"code":"`+tt.wantCode+`"`)
			if tt.wantStatus == http.StatusInternalServerError {
				assert.NotContains(t, w.Body.String(), "relation")
			}
		})
	}
}
