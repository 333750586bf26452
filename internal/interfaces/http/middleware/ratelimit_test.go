package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucketLimiter_BurstThenRefill(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := NewTokenBucketLimiter(1, 2, 0)
	l.now = func() time.Time { return now }

	ok, info := l.Allow("a")
	assert.True(t, ok)
	assert.Equal(t, 2, info.Limit)
	assert.Equal(t, 1, info.Remaining)

	ok, _ = l.Allow("a")
	assert.True(t, ok)
	ok, info = l.Allow("a")
	assert.False(t, ok)
	assert.Equal(t, 0, info.Remaining)

	// Keys are independent.
	ok, _ = l.Allow("b")
	assert.True(t, ok)

	now = now.Add(time.Second)
	ok, _ = l.Allow("a")
	assert.True(t, ok)
}

func TestTokenBucketLimiter_Cleanup(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := NewTokenBucketLimiter(1, 1, 0)
	l.cleanupInterval = time.Minute
	l.now = func() time.Time { return now }

	l.Allow("a")
	l.Allow("b")
	require.Equal(t, 2, l.BucketCount())

	now = now.Add(30 * time.Second)
	l.Allow("b")
	now = now.Add(45 * time.Second)
	l.cleanup()

	assert.Equal(t, 1, l.BucketCount())
}

func TestTokenBucketLimiter_StopIdempotent(t *testing.T) {
	l := NewTokenBucketLimiter(1, 1, time.Hour)
	l.Stop()
	assert.NotPanics(t, l.Stop)
}

func TestRateLimit_RejectsWith429(t *testing.T) {
	l := NewTokenBucketLimiter(0.001, 1, 0)
	h := RateLimit(l, RateLimitConfig{})(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
	req.RemoteAddr = "203.0.113.9:5555"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	// Same host, different port.
	req2 := httptest.NewRequest(http.MethodPost, "/analyze", nil)
	req2.RemoteAddr = "203.0.113.9:6666"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req2)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"Too many requests, please retry later","code":"RATE_LIMITED"}`, rec.Body.String())
}

func TestRateLimit_MethodFilter(t *testing.T) {
	l := NewTokenBucketLimiter(0.001, 1, 0)
	h := RateLimit(l, RateLimitConfig{Methods: []string{http.MethodPost}})(okHandler())

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
	assert.Equal(t, 0, l.BucketCount())
}

func TestClientHostKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "[2001:db8::1]:443"
	assert.Equal(t, "2001:db8::1", ClientHostKey(req))

	req.RemoteAddr = "no-port"
	assert.Equal(t, "no-port", ClientHostKey(req))
}
