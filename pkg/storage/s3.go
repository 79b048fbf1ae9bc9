package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/prasaddsahil07/vdoTube/pkg/logger"
	"github.com/prasaddsahil07/vdoTube/pkg/metrics"
	"github.com/prasaddsahil07/vdoTube/pkg/retry"
)

var (
	// ErrForeignURL is returned when a URL does not point into this store
	ErrForeignURL = errors.New("storage: url does not belong to this bucket")
	// ErrEmptyFile is returned for zero-byte uploads
	ErrEmptyFile = errors.New("storage: empty file")
)

// Config holds object store settings. Endpoint is empty for AWS, set for MinIO.
type Config struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
	UsePathStyle  bool
}

// ObjectAPI is the part of *s3.Client the store uses
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Object describes a stored media object
type Object struct {
	Key         string
	URL         string
	ContentType string
	Size        int64
}

// S3Store uploads and deletes media objects. Every call goes through a
// circuit breaker, and transient failures are retried with backoff.
type S3Store struct {
	api      ObjectAPI
	cfg      Config
	baseURL  string
	breaker  *gobreaker.CircuitBreaker[any]
	retryCfg *retry.Config
}

const breakerName = "object-store"

// NewS3Store builds an S3 client from static credentials
func NewS3Store(ctx context.Context, cfg Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return NewS3StoreWithAPI(client, cfg, nil), nil
}

// NewS3StoreWithAPI wires a store around any ObjectAPI; retryCfg nil uses retry.DefaultConfig
func NewS3StoreWithAPI(api ObjectAPI, cfg Config, retryCfg *retry.Config) *S3Store {
	if retryCfg == nil {
		retryCfg = retry.DefaultConfig()
	}
	retryCfg.ShouldRetry = isTransient

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	return &S3Store{
		api:      api,
		cfg:      cfg,
		baseURL:  publicBaseURL(cfg),
		retryCfg: retryCfg,
		breaker: gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
			Name:        breakerName,
			MaxRequests: 2,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			// Client-side errors say nothing about store health
			IsSuccessful: func(err error) bool {
				return err == nil || !isTransient(err)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Get().Warn("circuit breaker state change",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
				metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			},
		}),
	}
}

// Upload stores the file at localPath under folder and returns its public URL.
// The local file is left in place; the caller owns it.
func (s *S3Store) Upload(ctx context.Context, localPath, folder string) (*Object, error) {
	start := time.Now()
	defer func() { metrics.StorageDuration.WithLabelValues("upload").Observe(time.Since(start).Seconds()) }()

	info, err := os.Stat(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat upload: %w", err)
	}
	if info.Size() == 0 {
		return nil, ErrEmptyFile
	}

	contentType, err := detectContentType(localPath)
	if err != nil {
		return nil, err
	}

	key := path.Join(strings.Trim(folder, "/"), uuid.NewString()+strings.ToLower(filepath.Ext(localPath)))

	result := retry.Do(ctx, s.retryCfg, func(ctx context.Context) error {
		f, err := os.Open(localPath)
		if err != nil {
			return retry.Permanent(err)
		}
		defer f.Close()

		_, err = s.breaker.Execute(func() (any, error) {
			return s.api.PutObject(ctx, &s3.PutObjectInput{
				Bucket:        aws.String(s.cfg.Bucket),
				Key:           aws.String(key),
				Body:          f,
				ContentLength: aws.Int64(info.Size()),
				ContentType:   aws.String(contentType),
			})
		})
		return breakerAware(err)
	})

	err = result.Error()
	metrics.StorageOperations.WithLabelValues("upload", metrics.Result(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return &Object{
		Key:         key,
		URL:         s.URL(key),
		ContentType: contentType,
		Size:        info.Size(),
	}, nil
}

// Delete removes an object by key. Deleting a missing key succeeds.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	start := time.Now()
	defer func() { metrics.StorageDuration.WithLabelValues("delete").Observe(time.Since(start).Seconds()) }()

	result := retry.Do(ctx, s.retryCfg, func(ctx context.Context) error {
		_, err := s.breaker.Execute(func() (any, error) {
			return s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(s.cfg.Bucket),
				Key:    aws.String(key),
			})
		})
		return breakerAware(err)
	})

	err := result.Error()
	metrics.StorageOperations.WithLabelValues("delete", metrics.Result(err)).Inc()
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// URL returns the public URL of key
func (s *S3Store) URL(key string) string {
	return s.baseURL + "/" + key
}

// KeyFromURL reverses URL. Foreign URLs (e.g. seeded avatars hosted elsewhere) are rejected.
func (s *S3Store) KeyFromURL(rawURL string) (string, error) {
	prefix := s.baseURL + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", ErrForeignURL
	}
	key, err := url.PathUnescape(strings.TrimPrefix(rawURL, prefix))
	if err != nil || key == "" {
		return "", ErrForeignURL
	}
	return key, nil
}

func publicBaseURL(cfg Config) string {
	if cfg.PublicBaseURL != "" {
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	}
	if cfg.Endpoint != "" {
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}

// mediaTypes covers extensions the platform accepts that the system mime table may lack
var mediaTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

func detectContentType(localPath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(localPath))
	if ct, ok := mediaTypes[ext]; ok {
		return ct, nil
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct, nil
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, _ := f.Read(head)
	return http.DetectContentType(head[:n]), nil
}

// breakerAware stops retrying while the breaker rejects calls
func breakerAware(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return retry.Permanent(err)
	}
	return err
}

// isTransient reports whether err is worth retrying: throttling, 5xx and
// transport errors are; client errors such as AccessDenied are not.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "SlowDown", "RequestTimeout", "InternalError", "ServiceUnavailable", "RequestTimeTooSkewed":
			return true
		}
		return apiErr.ErrorFault() == smithy.FaultServer
	}
	return true
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
