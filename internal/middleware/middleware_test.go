package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})

	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{"generated when missing", "", false},
		{"caller id kept", "abc-123", true},
		{"overlong id replaced", strings.Repeat("x", 65), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			router.ServeHTTP(w, req)

			got := w.Header().Get(RequestIDHeader)
			assert.Equal(t, got, w.Body.String())
			if tt.keep {
				assert.Equal(t, tt.header, got)
			} else {
				assert.Len(t, got, 36)
			}
		})
	}
}

func TestLoggerMasksPassword(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	router := gin.New()
	router.Use(RequestID(), Logger(zap.New(core)))
	router.POST("/auth/login", func(c *gin.Context) { c.Status(http.StatusUnauthorized) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login?email=a%40b.c&password=secret", nil))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Client error", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, int64(http.StatusUnauthorized), fields["status"])
	assert.NotContains(t, fields["query"], "secret")
	assert.Contains(t, fields["query"], "email=a%40b.c")
}

func TestRecoveryMiddleware(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	router := gin.New()
	router.Use(RecoveryMiddleware(zap.New(core)))
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, logs.Len())
}

func TestHealth(t *testing.T) {
	health := NewHealth("1.2.3")
	router := gin.New()
	router.GET("/health", health.Handler())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var status HealthStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.2.3", status.Version)

	health.SetStatus("degraded")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
