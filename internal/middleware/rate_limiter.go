package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	appErrors "clinicdesk/internal/errors"

	"github.com/gin-gonic/gin"
)

var ErrRateLimited = appErrors.NewAppError("RATE_LIMIT_EXCEEDED", "Muitas requisições. Tente novamente em alguns minutos.", http.StatusTooManyRequests)

// RateLimiter aplica uma janela deslizante por chave (IP ou usuário).
type RateLimiter struct {
	requests map[string][]time.Time
	mu       sync.Mutex
	limit    int
	window   time.Duration
	now      func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// Run descarta janelas vencidas até o contexto ser cancelado.
func (rl *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.window)
	for key, stamps := range rl.requests {
		valid := trim(stamps, cutoff)
		if len(valid) == 0 {
			delete(rl.requests, key)
		} else {
			rl.requests[key] = valid
		}
	}
}

// Allow registra a requisição e informa quanto esperar quando o limite estourou.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	valid := trim(rl.requests[key], now.Add(-rl.window))

	if len(valid) >= rl.limit {
		rl.requests[key] = valid
		return false, valid[0].Add(rl.window).Sub(now)
	}

	rl.requests[key] = append(valid, now)
	return true, 0
}

func trim(stamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(stamps) && !stamps[i].After(cutoff) {
		i++
	}
	return stamps[i:]
}

func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return limit(limiter, func(c *gin.Context) string { return c.ClientIP() })
}

// RateLimitByUser usa o usuário autenticado como chave e cai para o IP.
func RateLimitByUser(limiter *RateLimiter) gin.HandlerFunc {
	return limit(limiter, func(c *gin.Context) string {
		if id := c.GetString(ContextUserID); id != "" {
			return "user:" + id
		}
		return c.ClientIP()
	})
}

func limit(limiter *RateLimiter, keyFn func(c *gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retryAfter := limiter.Allow(keyFn(c))
		if !ok {
			seconds := int(retryAfter.Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(seconds))
			abortWithError(c, ErrRateLimited.WithDetails(map[string]interface{}{
				"retry_after_seconds": seconds,
			}))
			return
		}
		c.Next()
	}
}
