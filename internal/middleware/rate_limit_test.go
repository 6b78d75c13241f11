//go:build !integration

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeClock is a manually advanced time source.
type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time          { return f.now }
func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newTestRateLimiter(rate int, window time.Duration) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	rl := NewShardedRateLimiter(rate, window, 4)
	rl.now = clock.Now
	return rl, clock
}

func TestNewShardedRateLimiter(t *testing.T) {
	tests := []struct {
		name       string
		numShards  int
		wantShards int
	}{
		{name: "default shards when zero", numShards: 0, wantShards: defaultNumShards},
		{name: "default shards when negative", numShards: -1, wantShards: defaultNumShards},
		{name: "custom shard count", numShards: 8, wantShards: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewShardedRateLimiter(10, time.Minute, tt.numShards)
			defer rl.Stop()

			assert.Len(t, rl.shards, tt.wantShards)
			assert.Equal(t, 10, rl.rate)
			assert.Equal(t, time.Minute, rl.window)
		})
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name        string
		rate        int
		requests    int
		wantAllowed int
		wantBlocked int
	}{
		{name: "all requests allowed under limit", rate: 5, requests: 3, wantAllowed: 3},
		{name: "exact rate limit", rate: 5, requests: 5, wantAllowed: 5},
		{name: "exceeds rate limit", rate: 5, requests: 8, wantAllowed: 5, wantBlocked: 3},
		{name: "single request allowed", rate: 1, requests: 3, wantAllowed: 1, wantBlocked: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl, _ := newTestRateLimiter(tt.rate, time.Minute)
			defer rl.Stop()

			allowed, blocked := 0, 0
			for i := 0; i < tt.requests; i++ {
				if ok, _, _ := rl.allow("user:1"); ok {
					allowed++
				} else {
					blocked++
				}
			}

			assert.Equal(t, tt.wantAllowed, allowed)
			assert.Equal(t, tt.wantBlocked, blocked)
		})
	}
}

func TestRateLimiter_RemainingAndReset(t *testing.T) {
	rl, clock := newTestRateLimiter(3, time.Minute)
	defer rl.Stop()

	start := clock.Now()
	for _, want := range []int{2, 1, 0, 0} {
		_, remaining, resetAt := rl.allow("user:1")
		assert.Equal(t, want, remaining)
		assert.Equal(t, start.Add(time.Minute), resetAt)
	}

	clock.Advance(time.Minute)
	allowed, remaining, _ := rl.allow("user:1")
	assert.True(t, allowed)
	assert.Equal(t, 2, remaining)
}

func TestRateLimiter_IdentifiersAreIndependent(t *testing.T) {
	rl, _ := newTestRateLimiter(2, time.Minute)
	defer rl.Stop()

	for _, id := range []string{"user:1", "user:2", "ip:10.0.0.1"} {
		for i := 0; i < 2; i++ {
			allowed, _, _ := rl.allow(id)
			assert.True(t, allowed, "request %d for %s", i+1, id)
		}
		allowed, _, _ := rl.allow(id)
		assert.False(t, allowed, "third request for %s", id)
	}
}

func TestRateLimiter_RateLimitMiddleware(t *testing.T) {
	rl, clock := newTestRateLimiter(2, time.Minute)
	defer rl.Stop()

	router := gin.New()
	router.Use(rl.RateLimit())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	first := send()
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, send().Code)

	clock.Advance(20 * time.Second)
	blocked := send()
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "0", blocked.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "40", blocked.Header().Get("Retry-After"))
	assert.Contains(t, blocked.Body.String(), "rate_limit_exceeded")
}

func TestRateLimiter_UserRateLimitMiddleware(t *testing.T) {
	rl, _ := newTestRateLimiter(1, time.Minute)
	defer rl.Stop()

	router := gin.New()
	router.Use(UserFromHeader(), rl.UserRateLimit())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func(userID string) int {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		if userID != "" {
			req.Header.Set(UserIDHeader, userID)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("user-1"))
	assert.Equal(t, http.StatusTooManyRequests, send("user-1"))
	// Users behind the same IP keep their own quota.
	assert.Equal(t, http.StatusOK, send("user-2"))
	assert.Equal(t, http.StatusOK, send(""))
	assert.Equal(t, http.StatusTooManyRequests, send(""))
}

func TestRateLimiter_StatsAndCleanup(t *testing.T) {
	rl, clock := newTestRateLimiter(10, time.Minute)
	defer rl.Stop()

	for _, id := range []string{"user:1", "user:2", "user:3", "user:4", "user:5"} {
		rl.allow(id)
	}

	total, perShard := rl.Stats()
	assert.Equal(t, 5, total)
	assert.Len(t, perShard, 4)

	sum := 0
	for _, count := range perShard {
		sum += count
	}
	assert.Equal(t, total, sum)

	clock.Advance(3 * time.Minute)
	rl.allow("user:6")
	rl.cleanupExpired()

	total, _ = rl.Stats()
	assert.Equal(t, 1, total)
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	assert.NotPanics(t, func() {
		rl.Stop()
		rl.Stop()
	})
}
