package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"todoify/backend/internal/handlers"
	"todoify/backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	start := time.Now().Add(-2 * time.Second)
	handler := handlers.NewHealthHandler(start)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.GET("/api/health", handler.Health)

	req, _ := http.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp struct {
		Status         string  `json:"status"`
		UptimeMs       float64 `json:"uptime_ms"`
		ProcessStart   string  `json:"process_start"`
		CurrentTime    string  `json:"current_time"`
		RequestID      string  `json:"request_id"`
		RuntimeVersion string  `json:"runtime_version"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if resp.Status != "ok" {
		t.Errorf("Expected status 'ok', got '%s'", resp.Status)
	}
	if resp.UptimeMs < 2000 {
		t.Errorf("Expected uptime of at least 2000ms, got %v", resp.UptimeMs)
	}
	if resp.RequestID == "" {
		t.Error("Expected a request ID in the health payload")
	}
	if resp.RuntimeVersion != runtime.Version() {
		t.Errorf("Expected runtime version %s, got %s", runtime.Version(), resp.RuntimeVersion)
	}

	if _, err := time.Parse(time.RFC3339Nano, resp.ProcessStart); err != nil {
		t.Errorf("process_start is not RFC3339: %v", err)
	}
	if _, err := time.Parse(time.RFC3339Nano, resp.CurrentTime); err != nil {
		t.Errorf("current_time is not RFC3339: %v", err)
	}
}
