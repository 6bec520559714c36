package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"todoify/backend/internal/config"
	"todoify/backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

func setupRateLimitedRouter(t *testing.T, cfg config.RateLimitConfig) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rl := middleware.NewRateLimiter(cfg)
	t.Cleanup(rl.Stop)

	router := gin.New()
	router.Use(rl.Middleware())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	router := setupRateLimitedRouter(t, config.RateLimitConfig{
		RequestsPerMin:  60,
		BurstSize:       5,
		CleanupInterval: time.Minute,
	})

	for i := 0; i < 5; i++ {
		req, _ := http.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Request %d: expected status %d, got %d", i, http.StatusOK, w.Code)
		}
	}
}

func TestRateLimiter_RejectsBeyondBurst(t *testing.T) {
	router := setupRateLimitedRouter(t, config.RateLimitConfig{
		RequestsPerMin:  1,
		BurstSize:       1,
		CleanupInterval: time.Minute,
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("First request: expected status %d, got %d", http.StatusOK, w.Code)
	}

	req, _ = http.NewRequest("GET", "/test", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Second request: expected status %d, got %d", http.StatusTooManyRequests, w.Code)
	}
}
