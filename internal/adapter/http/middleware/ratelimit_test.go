package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func (rl *RateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return len(rl.limiters)
}

func TestRateLimiter_LimitsPerOwner(t *testing.T) {
	rejected := 0
	rl := NewRateLimiter(0.001, 2, time.Hour).OnReject(func() { rejected++ })

	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	request := func(owner string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithOwner(req.Context(), owner))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		return rr.Code
	}

	assert.Equal(t, http.StatusOK, request("user-1"))
	assert.Equal(t, http.StatusOK, request("user-1"))
	assert.Equal(t, http.StatusTooManyRequests, request("user-1"))
	assert.Equal(t, http.StatusOK, request("user-2"))
	assert.Equal(t, 1, rejected)
}

func TestRateLimiter_CleanupDropsIdleBuckets(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(10, 10, time.Minute)
	rl.now = func() time.Time { return now }

	rl.getLimiter("a")
	now = now.Add(2 * time.Minute)
	rl.getLimiter("b")

	rl.Cleanup()

	assert.Equal(t, 1, rl.size())
}
