package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prasaddsahil07/vdoTube/pkg/response"
	"github.com/prasaddsahil07/vdoTube/pkg/telemetry"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ScriptEvaluator runs a cached Lua script; satisfied by *pkg/redis.Client
type ScriptEvaluator interface {
	EvalWithFallback(ctx context.Context, name, script string, keys []string, args ...interface{}) *redis.Cmd
}

// RateLimitConfig holds token bucket settings
type RateLimitConfig struct {
	// Refill rate per key
	RequestsPerSecond int
	// Bucket capacity
	BurstSize int
	// Redis switches to the distributed limiter when non-nil
	Redis     ScriptEvaluator
	KeyPrefix string
	// Local limiter housekeeping
	CleanupInterval time.Duration
	EntryTTL        time.Duration
}

// DefaultRateLimitConfig suits the credential endpoints
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 5,
		BurstSize:         10,
		KeyPrefix:         "ratelimit:",
		CleanupInterval:   time.Minute,
		EntryTTL:          time.Minute,
	}
}

type rateLimitEntry struct {
	tokens     float64
	lastUpdate time.Time
	mu         sync.Mutex
}

// LocalRateLimiter implements in-memory token bucket rate limiting
type LocalRateLimiter struct {
	config  RateLimitConfig
	entries sync.Map
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// NewLocalRateLimiter creates a local limiter and starts its cleanup loop
func NewLocalRateLimiter(config RateLimitConfig) *LocalRateLimiter {
	rl := &LocalRateLimiter{
		config: config,
		now:    time.Now,
		stop:   make(chan struct{}),
	}
	if config.CleanupInterval > 0 {
		go rl.cleanup()
	}
	return rl
}

// Allow takes one token from the bucket for key
func (rl *LocalRateLimiter) Allow(key string) bool {
	now := rl.now()

	entry, _ := rl.entries.LoadOrStore(key, &rateLimitEntry{
		tokens:     float64(rl.config.BurstSize),
		lastUpdate: now,
	})
	e := entry.(*rateLimitEntry)

	e.mu.Lock()
	defer e.mu.Unlock()

	elapsed := now.Sub(e.lastUpdate).Seconds()
	e.tokens = min(float64(rl.config.BurstSize), e.tokens+elapsed*float64(rl.config.RequestsPerSecond))
	e.lastUpdate = now

	if e.tokens >= 1 {
		e.tokens--
		return true
	}
	return false
}

func (rl *LocalRateLimiter) cleanup() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := rl.now().Add(-rl.config.EntryTTL)
			rl.entries.Range(func(key, value interface{}) bool {
				e := value.(*rateLimitEntry)
				e.mu.Lock()
				if e.lastUpdate.Before(cutoff) {
					rl.entries.Delete(key)
				}
				e.mu.Unlock()
				return true
			})
		case <-rl.stop:
			return
		}
	}
}

// Stop stops the cleanup goroutine
func (rl *LocalRateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

const tokenBucketScriptName = "token_bucket"

// Atomic token bucket: returns {allowed, remaining}
const tokenBucketScript = `
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

local data = redis.call("HMGET", key, "tokens", "last_update")
local tokens = tonumber(data[1]) or burst
local last_update = tonumber(data[2]) or now

tokens = math.min(burst, tokens + (now - last_update) * rate)

local allowed = 0
if tokens >= 1 then
    tokens = tokens - 1
    allowed = 1
end

redis.call("HSET", key, "tokens", tokens, "last_update", now)
redis.call("EXPIRE", key, 60)
return {allowed, tostring(tokens)}
`

// RedisRateLimiter shares buckets across instances
type RedisRateLimiter struct {
	config RateLimitConfig
}

// NewRedisRateLimiter creates a new Redis rate limiter
func NewRedisRateLimiter(config RateLimitConfig) *RedisRateLimiter {
	return &RedisRateLimiter{config: config}
}

// Allow takes one token from the shared bucket for key
func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := float64(time.Now().UnixNano()) / 1e9

	values, err := rl.config.Redis.EvalWithFallback(ctx, tokenBucketScriptName, tokenBucketScript,
		[]string{rl.config.KeyPrefix + key},
		rl.config.RequestsPerSecond,
		rl.config.BurstSize,
		now,
	).Slice()
	if err != nil {
		return false, err
	}
	if len(values) < 2 {
		return false, fmt.Errorf("unexpected result length: %d", len(values))
	}

	allowed, ok := values[0].(int64)
	if !ok {
		return false, fmt.Errorf("unexpected allowed flag type %T", values[0])
	}
	return allowed == 1, nil
}

// RateLimiter limits requests per client IP and route
func RateLimiter(config RateLimitConfig) gin.HandlerFunc {
	var local *LocalRateLimiter
	var distributed *RedisRateLimiter

	if config.Redis != nil {
		distributed = NewRedisRateLimiter(config)
	} else {
		local = NewLocalRateLimiter(config)
	}

	return func(c *gin.Context) {
		ctx, span := telemetry.StartSpan(c.Request.Context(), "middleware.rate_limiter")
		defer span.End()

		key := c.ClientIP() + ":" + c.FullPath()
		span.SetAttributes(attribute.String("ratelimit.key", key))

		var allowed bool
		if distributed != nil {
			var err error
			allowed, err = distributed.Allow(ctx, key)
			if err != nil {
				// fail open
				span.RecordError(err)
				allowed = true
			}
		} else {
			allowed = local.Allow(key)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerSecond))

		if !allowed {
			span.SetStatus(codes.Error, "rate limit exceeded")
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				response.Error(response.ErrCodeTooManyRequests, "too many requests, retry after 1 second"))
			return
		}

		c.Next()
	}
}
