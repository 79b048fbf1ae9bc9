package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeRedis is an in-memory RedisClient
type fakeRedis struct {
	mu   sync.Mutex
	data map[string]string
	err  error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string]string)}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewBoolResult(false, f.err)
	}
	if _, ok := f.data[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.data[key] = value.(string)
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func withUser(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyUserID, id)
		c.Next()
	}
}

func TestRequestID_GeneratesNew(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	headerID := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, headerID)
	assert.Equal(t, headerID, w.Body.String())
}

func TestRequestID_UsesExisting(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(RequestIDHeader, "existing-request-id-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "existing-request-id-123", w.Body.String())
}

func TestGetUserID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetUserID(c)
	assert.False(t, ok)

	c.Set(ContextKeyUserID, "")
	_, ok = GetUserID(c)
	assert.False(t, ok, "empty id is not a principal")

	c.Set(ContextKeyUserID, "u-1")
	id, ok := GetUserID(c)
	assert.True(t, ok)
	assert.Equal(t, "u-1", id)
	assert.Equal(t, "u-1", MustGetUserID(c))
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS(DefaultCORSConfig([]string{"http://app.local"})))
	r.GET("/test", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	t.Run("allowed origin is echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "http://app.local")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "http://app.local", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("unknown origin gets no headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "http://evil.local")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/test", nil)
		req.Header.Set("Origin", "http://app.local")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestTimeout_WritesServiceUnavailable(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(20 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "REQUEST_TIMEOUT")
}

func TestTimeout_KeepsHandlerResponse(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(time.Second))
	r.GET("/fast", func(c *gin.Context) {
		_, hasDeadline := c.Request.Context().Deadline()
		assert.True(t, hasDeadline)
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fast", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLocalRateLimiter_Allow(t *testing.T) {
	cfg := DefaultRateLimitConfig()
	cfg.RequestsPerSecond = 1
	cfg.BurstSize = 2
	cfg.CleanupInterval = 0

	rl := NewLocalRateLimiter(cfg)
	defer rl.Stop()

	now := time.Unix(1_700_000_000, 0)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("ip"))
	assert.True(t, rl.Allow("ip"))
	assert.False(t, rl.Allow("ip"), "burst exhausted")
	assert.True(t, rl.Allow("other-ip"), "buckets are per key")

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("ip"), "one token refilled")
	assert.False(t, rl.Allow("ip"))
}

func TestRateLimiter_Middleware(t *testing.T) {
	cfg := DefaultRateLimitConfig()
	cfg.RequestsPerSecond = 1
	cfg.BurstSize = 1

	r := gin.New()
	r.Use(RateLimiter(cfg))
	r.POST("/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "TOO_MANY_REQUESTS")
}

type fakeScripts struct {
	result interface{}
	err    error
	keys   []string
}

func (f *fakeScripts) EvalWithFallback(ctx context.Context, name, script string, keys []string, args ...interface{}) *redis.Cmd {
	f.keys = keys
	return redis.NewCmdResult(f.result, f.err)
}

func TestRedisRateLimiter(t *testing.T) {
	cfg := DefaultRateLimitConfig()

	t.Run("allowed", func(t *testing.T) {
		scripts := &fakeScripts{result: []interface{}{int64(1), "4"}}
		cfg.Redis = scripts
		ok, err := NewRedisRateLimiter(cfg).Allow(context.Background(), "1.2.3.4:/login")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []string{"ratelimit:1.2.3.4:/login"}, scripts.keys)
	})

	t.Run("rejected", func(t *testing.T) {
		cfg.Redis = &fakeScripts{result: []interface{}{int64(0), "0"}}
		ok, err := NewRedisRateLimiter(cfg).Allow(context.Background(), "k")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("middleware fails open on redis error", func(t *testing.T) {
		cfg.Redis = &fakeScripts{err: errors.New("connection refused")}
		r := gin.New()
		r.Use(RateLimiter(cfg))
		r.POST("/login", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func setupIdempotentRouter(store *fakeRedis, calls *int, status int) *gin.Engine {
	r := gin.New()
	r.Use(withUser("u-1"), Idempotency(DefaultIdempotencyConfig(store)))
	r.POST("/likes/toggle/v/:id", func(c *gin.Context) {
		*calls++
		c.JSON(status, gin.H{"call": *calls})
	})
	return r
}

func TestIdempotency_ReplaysCompletedResponse(t *testing.T) {
	store := newFakeRedis()
	calls := 0
	r := setupIdempotentRouter(store, &calls, http.StatusOK)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/likes/toggle/v/v1", strings.NewReader(`{}`))
		req.Header.Set(IdempotencyKeyHeader, "key-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	first := send()
	second := send()

	assert.Equal(t, 1, calls, "handler must run once")
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
}

func TestIdempotency_NoHeaderPassesThrough(t *testing.T) {
	store := newFakeRedis()
	calls := 0
	r := setupIdempotentRouter(store, &calls, http.StatusOK)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/likes/toggle/v/v1", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, 2, calls)
	assert.Empty(t, store.data)
}

func TestIdempotency_KeyReusedWithDifferentRequest(t *testing.T) {
	store := newFakeRedis()
	calls := 0
	r := setupIdempotentRouter(store, &calls, http.StatusOK)

	for _, target := range []string{"v1", "v2"} {
		req := httptest.NewRequest(http.MethodPost, "/likes/toggle/v/"+target, nil)
		req.Header.Set(IdempotencyKeyHeader, "same-key")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if target == "v2" {
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		}
	}
	assert.Equal(t, 1, calls)
}

func TestIdempotency_InProgress(t *testing.T) {
	store := newFakeRedis()
	store.data[IdempotencyKeyPrefix+"u-1:busy"] = `{"status":"processing","request_hash":"` +
		hashRequest(http.MethodPost, "/likes/toggle/v/v1", nil) + `"}`
	calls := 0
	r := setupIdempotentRouter(store, &calls, http.StatusOK)

	req := httptest.NewRequest(http.MethodPost, "/likes/toggle/v/v1", nil)
	req.Header.Set(IdempotencyKeyHeader, "busy")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 0, calls)
}

func TestIdempotency_ServerErrorIsNotRecorded(t *testing.T) {
	store := newFakeRedis()
	calls := 0
	r := setupIdempotentRouter(store, &calls, http.StatusInternalServerError)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/likes/toggle/v/v1", nil)
		req.Header.Set(IdempotencyKeyHeader, "retry-me")
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, 2, calls)
	assert.Empty(t, store.data)
}

func TestIdempotency_FailsOpenOnRedisError(t *testing.T) {
	store := newFakeRedis()
	store.err = errors.New("connection refused")
	calls := 0
	r := setupIdempotentRouter(store, &calls, http.StatusOK)

	req := httptest.NewRequest(http.MethodPost, "/likes/toggle/v/v1", nil)
	req.Header.Set(IdempotencyKeyHeader, "k")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, calls)
}
