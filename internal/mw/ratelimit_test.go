package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestKeyedRateLimiter_IndependentKeys(t *testing.T) {
	limiter := NewKeyedRateLimiter(rate.Limit(0.001), 1)

	assert.True(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("a"), "burst of one exhausted")

	// Another key has its own bucket.
	assert.True(t, limiter.Allow("b"))
}

func TestKeyedRateLimiter_ReusesBucket(t *testing.T) {
	limiter := NewKeyedRateLimiter(rate.Limit(0.001), 3)

	first := limiter.GetLimiter("a")
	second := limiter.GetLimiter("a")
	assert.Same(t, first, second)
}

func TestRateLimitByIP(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimitByIP(2), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitByUser_KeysOnIdentity(t *testing.T) {
	r := gin.New()
	// Fake auth: the user id arrives in a header.
	r.GET("/",
		func(c *gin.Context) {
			if id := c.GetHeader("X-Test-User"); id != "" {
				c.Set(ctxUserID, int64(id[0]))
			}
			c.Next()
		},
		RateLimitByUser(1),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	do := func(user string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if user != "" {
			req.Header.Set("X-Test-User", user)
		}
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("a"))
	assert.Equal(t, http.StatusTooManyRequests, do("a"))

	// A different identity from the same address is not throttled.
	assert.Equal(t, http.StatusOK, do("b"))
}
