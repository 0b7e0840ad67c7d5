package middlewares

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"baakh/internal/api/models"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a per-key fixed-window limiter: at most rate requests per
// window, plus at most burst requests in any one second when burst > 0.
// Idle visitors are swept lazily from Allow, so it owns no goroutine.
type RateLimiter struct {
	visitors  map[string]*Visitor
	mutex     sync.Mutex
	rate      int
	burst     int
	window    time.Duration
	cleanup   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type Visitor struct {
	lastSeen    time.Time
	count       int
	window      time.Time
	secondCount int
	second      time.Time
}

// NewRateLimiter creates a limiter allowing rate requests per minute.
func NewRateLimiter(rate, burst int) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*Visitor),
		rate:     rate,
		burst:    burst,
		window:   time.Minute,
		cleanup:  10 * time.Minute,
		now:      time.Now,
	}
}

// RateLimit middleware rejects clients over the limit with 429
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter := limiter.Allow(c.ClientIP())
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.BaseResponse{
				Success: false,
				Error: &models.ErrorInfo{
					Code:    models.ErrCodeRateLimitExceeded,
					Message: "Rate limit exceeded. Please try again later.",
				},
				Timestamp: time.Now().Unix(),
				RequestID: c.GetString("request_id"),
			})
			return
		}

		c.Next()
	}
}

// Allow records a request for key and reports whether it may proceed, and if
// not, how long until the blocking window resets.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	rl.sweep(now)

	visitor, exists := rl.visitors[key]
	if !exists {
		rl.visitors[key] = &Visitor{lastSeen: now, count: 1, window: now, secondCount: 1, second: now}
		return true, 0
	}

	visitor.lastSeen = now

	// Reset counters once their windows have passed
	if now.Sub(visitor.window) >= rl.window {
		visitor.count = 0
		visitor.window = now
	}
	if now.Sub(visitor.second) >= time.Second {
		visitor.secondCount = 0
		visitor.second = now
	}

	if visitor.count >= rl.rate {
		return false, rl.window - now.Sub(visitor.window)
	}
	if rl.burst > 0 && visitor.secondCount >= rl.burst {
		return false, time.Second - now.Sub(visitor.second)
	}

	visitor.count++
	visitor.secondCount++
	return true, 0
}

// Len returns the number of tracked visitors.
func (rl *RateLimiter) Len() int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	return len(rl.visitors)
}

func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.cleanup {
		return
	}
	rl.lastSweep = now
	for key, visitor := range rl.visitors {
		if now.Sub(visitor.lastSeen) > rl.cleanup {
			delete(rl.visitors, key)
		}
	}
}
