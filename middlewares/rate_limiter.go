package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/dinein-backend/utils"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	limit    rate.Limit
	burst    int
	mu       sync.Mutex
	visitors map[string]*visitor
	message  string
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(every time.Duration, burst int) *RateLimiter {
	return &RateLimiter{
		limit:    rate.Every(every),
		burst:    burst,
		visitors: make(map[string]*visitor),
		message:  "Too many requests, please slow down",
	}
}

// NewStrictRateLimiter lebih ketat untuk endpoint login dan OTP:
// 5 request per menit per IP.
func NewStrictRateLimiter() *RateLimiter {
	rl := NewRateLimiter(12*time.Second, 5)
	rl.message = "Too many attempts, please wait a moment"
	return rl
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now

	// buang visitor lama supaya map tidak tumbuh terus
	if len(rl.visitors) > 10000 {
		for k, other := range rl.visitors {
			if now.Sub(other.lastSeen) > 10*time.Minute {
				delete(rl.visitors, k)
			}
		}
	}
	return v.limiter.Allow()
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			utils.AbortFail(c, http.StatusTooManyRequests, rl.message)
			return
		}
		c.Next()
	}
}
