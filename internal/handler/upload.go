package handler

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prasaddsahil07/vdoTube/internal/service"
)

// Multipart field names
const (
	fieldAvatar     = "avatar"
	fieldCoverImage = "coverImage"
	fieldVideo      = "video"
	fieldThumbnail  = "thumbnail"
)

// Uploader saves multipart files to a local staging directory. The media
// service removes each file once it has been handed to the store.
type Uploader struct {
	dir     string
	maxSize int64
}

// NewUploader creates an Uploader staging files under dir
func NewUploader(dir string, maxSize int64) (*Uploader, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &Uploader{dir: dir, maxSize: maxSize}, nil
}

// limit caps the request body before the multipart form is parsed
func (u *Uploader) limit(c *gin.Context) {
	if u.maxSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, u.maxSize)
	}
}

// save stores the named file field; an absent field yields "".
// kind is the required media type prefix (image, video).
func (u *Uploader) save(c *gin.Context, field, kind string) (string, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", service.ErrInvalidInput, field, err)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mime.TypeByExtension(ext)
	}
	if contentType == "" {
		contentType = sniff(fh)
	}
	if !strings.HasPrefix(contentType, kind+"/") {
		return "", fmt.Errorf("%w: %s must be an %s file", service.ErrInvalidInput, field, kind)
	}

	path := filepath.Join(u.dir, uuid.NewString()+ext)
	if err := c.SaveUploadedFile(fh, path); err != nil {
		return "", fmt.Errorf("failed to stage %s: %w", field, err)
	}
	return path, nil
}

// sniff detects the media type from the first bytes of the part
func sniff(fh *multipart.FileHeader) string {
	f, err := fh.Open()
	if err != nil {
		return ""
	}
	defer f.Close()

	head := make([]byte, 512)
	n, _ := io.ReadFull(f, head)
	return http.DetectContentType(head[:n])
}

// discard removes staged files that never reached the media service
func discard(paths ...string) {
	for _, p := range paths {
		if p != "" {
			_ = os.Remove(p)
		}
	}
}
