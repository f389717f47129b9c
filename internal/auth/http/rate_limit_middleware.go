package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/accounts/internal/errors"
	"github.com/allisson/accounts/internal/httputil"
)

// RateLimitConfig describes one rate limit category. Each category keeps its own
// counters, so a client exhausting the auth budget still has its API budget.
type RateLimitConfig struct {
	// Name identifies the category in logs ("auth", "api", "admin").
	Name string
	// Window is the fixed counting window. Counters reset at window boundaries,
	// not gradually.
	Window time.Duration
	// Max is the number of requests allowed per client per window.
	Max int
	// SkipSuccessful refunds the request when it completes with a status below
	// 400. Used on auth endpoints so only failed attempts consume the budget.
	SkipSuccessful bool
}

// fixedWindowStore holds per-client fixed-window counters with automatic cleanup.
type fixedWindowStore struct {
	windows sync.Map // map[string]*windowEntry
	window  time.Duration
}

// windowEntry is one client's counter for the current window.
type windowEntry struct {
	mu          sync.Mutex
	count       int
	windowStart time.Time
}

// take counts one request for the client and reports the count after the
// increment together with the start of the window it was counted in.
func (s *fixedWindowStore) take(key string, now time.Time) (int, time.Time) {
	val, _ := s.windows.LoadOrStore(key, &windowEntry{})
	entry := val.(*windowEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if now.Sub(entry.windowStart) >= s.window {
		entry.count = 0
		entry.windowStart = now
	}
	entry.count++
	return entry.count, entry.windowStart
}

// refund returns one request to the client's budget, but only while the window
// it was counted in is still the current one.
func (s *fixedWindowStore) refund(key string, windowStart time.Time) {
	val, ok := s.windows.Load(key)
	if !ok {
		return
	}
	entry := val.(*windowEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.windowStart.Equal(windowStart) && entry.count > 0 {
		entry.count--
	}
}

// cleanupStale removes counters whose window expired long ago.
// Runs periodically to prevent unbounded memory growth.
func (s *fixedWindowStore) cleanupStale(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			threshold := time.Now().Add(-2 * s.window)
			s.windows.Range(func(key, value any) bool {
				entry := value.(*windowEntry)
				entry.mu.Lock()
				stale := entry.windowStart.Before(threshold)
				entry.mu.Unlock()

				if stale {
					s.windows.Delete(key)
				}
				return true
			})
		}
	}
}

// RateLimitMiddleware enforces a per-client-IP fixed-window rate limit.
//
// Every response, allowed or rejected, carries the quota headers:
//   - X-RateLimit-Limit: requests allowed per window
//   - X-RateLimit-Remaining: requests left in the current window
//   - X-RateLimit-Reset: unix timestamp when the window resets
//
// A rejected request gets 429 through the error translator with a Retry-After
// header holding the seconds until the window resets.
func RateLimitMiddleware(
	cfg RateLimitConfig,
	translator *httputil.Translator,
	logger *slog.Logger,
) gin.HandlerFunc {
	store := &fixedWindowStore{window: cfg.Window}

	// Stale counters are collected every 5 minutes.
	go store.cleanupStale(context.Background(), 5*time.Minute)

	return func(c *gin.Context) {
		now := time.Now()
		key := c.ClientIP()

		count, windowStart := store.take(key, now)
		reset := windowStart.Add(cfg.Window)

		remaining := cfg.Max - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if count > cfg.Max {
			retryAfter := int(time.Until(reset).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}

			logger.Debug("rate limit exceeded",
				slog.String("category", cfg.Name),
				slog.String("client_ip", key),
				slog.Int("retry_after", retryAfter))

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			translator.HandleError(c, apperrors.ErrRateLimited)
			return
		}

		c.Next()

		// Successful requests are refunded in skip-successful categories so only
		// failures (e.g. bad login attempts) consume the budget.
		if cfg.SkipSuccessful && c.Writer.Status() < http.StatusBadRequest {
			store.refund(key, windowStart)
		}
	}
}
