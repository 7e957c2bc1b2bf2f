// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/carterperez-dev/coworkflow/internal/config"
	"github.com/carterperez-dev/coworkflow/internal/core"
)

const CodeRateLimited = "RATE_LIMITED"

type RateLimitConfig struct {
	Limit   redis_rate.Limit
	Prefix  string
	KeyFunc func(*http.Request) string
}

// RateLimiter counts in redis and falls back to an in-process token
// bucket when redis is unavailable or not configured.
type RateLimiter struct {
	limiter  *redis_rate.Limiter
	fallback *localLimiter
	config   RateLimitConfig
}

func NewRateLimiter(
	ctx context.Context,
	rdb *redis.Client,
	cfg RateLimitConfig,
) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "ratelimit"
	}

	rl := &RateLimiter{
		fallback: newLocalLimiter(ctx),
		config:   cfg,
	}
	if rdb != nil {
		rl.limiter = redis_rate.NewLimiter(rdb)
	}
	return rl
}

// GlobalLimit applies to every API request.
func GlobalLimit(cfg config.RateLimitConfig) redis_rate.Limit {
	return redis_rate.Limit{
		Rate:   cfg.Requests,
		Burst:  cfg.Burst,
		Period: cfg.Window,
	}
}

// CredentialLimit applies to endpoints that accept a password, PIN or QR
// code, where guessing is the threat.
func CredentialLimit(cfg config.RateLimitConfig) redis_rate.Limit {
	return redis_rate.Limit{
		Rate:   cfg.AuthRequests,
		Burst:  cfg.AuthBurst,
		Period: cfg.Window,
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := rl.config.Prefix + ":" + rl.config.KeyFunc(r)

		res := rl.allow(r.Context(), key)
		setRateLimitHeaders(w, res, rl.config.Limit)

		if res.Allowed == 0 {
			writeRateLimitExceeded(w, res)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(ctx context.Context, key string) *redis_rate.Result {
	if rl.limiter != nil {
		res, err := rl.limiter.Allow(ctx, key, rl.config.Limit)
		if err == nil {
			return res
		}
		slog.Warn("redis rate limiter unavailable, using local fallback",
			"error", err,
			"key", key,
		)
	}
	return rl.fallback.allow(key, rl.config.Limit)
}

// KeyByIP trusts the last X-Forwarded-For hop, which is the one appended
// by our own proxy.
func KeyByIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return "ip:" + strings.TrimSpace(ips[len(ips)-1])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return "ip:" + xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	return "ip:" + ip
}

func setRateLimitHeaders(
	w http.ResponseWriter,
	res *redis_rate.Result,
	limit redis_rate.Limit,
) {
	h := w.Header()

	h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(
		time.Now().Add(res.ResetAfter).Unix(), 10))
	h.Set("RateLimit-Policy", fmt.Sprintf(
		`%d;w=%d`, limit.Rate, int(limit.Period.Seconds())))
}

func writeRateLimitExceeded(w http.ResponseWriter, res *redis_rate.Result) {
	retryAfter := int(res.RetryAfter.Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	core.JSON(w, http.StatusTooManyRequests, core.Response{
		Success: false,
		Error: &core.AppError{
			Code: CodeRateLimited,
			Message: fmt.Sprintf(
				"rate limit exceeded, retry after %d seconds",
				retryAfter,
			),
		},
	})
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess atomic.Int64
}

type localLimiter struct {
	limiters sync.Map
}

const (
	cleanupInterval = 5 * time.Minute
	entryTTL        = 10 * time.Minute
)

func newLocalLimiter(ctx context.Context) *localLimiter {
	l := &localLimiter{}
	go l.cleanup(ctx)
	return l
}

func (l *localLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-entryTTL).Unix()
			l.limiters.Range(func(key, value any) bool {
				entry, ok := value.(*limiterEntry)
				if ok && entry.lastAccess.Load() < cutoff {
					l.limiters.Delete(key)
				}
				return true
			})
		}
	}
}

func (l *localLimiter) allow(key string, limit redis_rate.Limit) *redis_rate.Result {
	ratePerSec := float64(limit.Rate) / limit.Period.Seconds()

	entryI, loaded := l.limiters.Load(key)
	if !loaded {
		entryI, _ = l.limiters.LoadOrStore(key, &limiterEntry{
			limiter: rate.NewLimiter(rate.Limit(ratePerSec), limit.Burst),
		})
	}

	entry := entryI.(*limiterEntry) //nolint:forcetypeassert // only type stored
	entry.lastAccess.Store(time.Now().Unix())

	allowed := entry.limiter.Allow()
	remaining := max(int(entry.limiter.Tokens()), 0)
	interval := time.Duration(float64(time.Second) / ratePerSec)

	res := &redis_rate.Result{
		Limit:      limit,
		Remaining:  remaining,
		RetryAfter: -1,
		ResetAfter: interval,
	}
	if allowed {
		res.Allowed = 1
	} else {
		res.RetryAfter = interval
	}
	return res
}
