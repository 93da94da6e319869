package utils

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestLoggerMiddlewareWritesAccessLog(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	logger := NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-1")
		c.Next()
	})
	router.Use(ContextLogger(logger), LoggerMiddleware(logger))
	router.GET("/missing", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	line := strings.TrimSpace(buf.String())
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("expected one JSON log line, got %q: %v", line, err)
	}

	tests := []struct {
		key  string
		want any
	}{
		{"level", "WARN"},
		{"request_id", "req-1"},
		{"method", "GET"},
		{"path", "/missing"},
		{"status", float64(404)},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if entry[tt.key] != tt.want {
				t.Errorf("%s = %v, want %v", tt.key, entry[tt.key], tt.want)
			}
		})
	}
}

func TestLoggerFromFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	fallback := NewSlogLogger(slog.Default())
	if LoggerFrom(c, fallback) != fallback {
		t.Error("expected fallback logger when none is stored")
	}
}
