package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/onerilhan/go-portfolio-api/internal/utils"
)

// RateLimitConfig rate limiting ayarları
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
	SkipPaths         []string
	IdleTimeout       time.Duration // bu süre görülmeyen IP'nin limiter'ı silinir
}

// DefaultRateLimitConfig varsayılan rate limit ayarları
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		RequestsPerMinute: 120,
		Burst:             20,
		SkipPaths:         []string{"/health"},
		IdleTimeout:       30 * time.Minute,
	}
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter IP başına token bucket
type RateLimiter struct {
	config   *RateLimitConfig
	limiters map[string]*ipLimiter
	mu       sync.Mutex
}

// NewRateLimiter yeni rate limiter oluşturur; ctx bitince temizlik goroutine'i durur
func NewRateLimiter(ctx context.Context, config *RateLimitConfig) *RateLimiter {
	if config == nil {
		config = DefaultRateLimitConfig()
	}
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = DefaultRateLimitConfig().RequestsPerMinute
	}
	if config.Burst <= 0 {
		config.Burst = 1
	}
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = 30 * time.Minute
	}

	rl := &RateLimiter{
		config:   config,
		limiters: make(map[string]*ipLimiter),
	}
	go rl.cleanup(ctx)
	return rl
}

// Handler rate limiting middleware'i döner
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if contains(rl.config.SkipPaths, r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		clientIP := utils.GetClientIP(r)
		limiter := rl.limiterFor(clientIP)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.config.RequestsPerMinute))

		if !limiter.Allow() {
			retryAfter := int(math.Ceil(60.0 / float64(rl.config.RequestsPerMinute)))
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

			log.Warn().Str("client_ip", clientIP).Str("path", r.URL.Path).Msg("Rate limit aşıldı")
			writeErrorBody(w, r, http.StatusTooManyRequests,
				getErrorMessage(http.StatusTooManyRequests, errorConfig), errorConfig, "")
			return
		}

		remaining := int(limiter.Tokens())
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.limiters[ip]
	if !ok {
		every := time.Minute / time.Duration(rl.config.RequestsPerMinute)
		entry = &ipLimiter{limiter: rate.NewLimiter(rate.Every(every), rl.config.Burst)}
		rl.limiters[ip] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

func (rl *RateLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.evictIdle(time.Now())
		}
	}
}

// evictIdle IdleTimeout'tan uzun süredir görülmeyen limiter'ları siler
func (rl *RateLimiter) evictIdle(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for ip, entry := range rl.limiters {
		if now.Sub(entry.lastSeen) > rl.config.IdleTimeout {
			delete(rl.limiters, ip)
			removed++
		}
	}
	log.Debug().Int("active_limiters", len(rl.limiters)).Int("removed", removed).Msg("Rate limiter temizliği")
	return removed
}
