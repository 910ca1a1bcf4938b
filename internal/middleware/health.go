package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status      string    `json:"status"`
	LastChecked time.Time `json:"last_checked"`
	Uptime      string    `json:"uptime"`
	Version     string    `json:"version"`
}

// Health serves the health endpoint. Responses are cached for a few seconds.
type Health struct {
	mu            sync.Mutex
	status        string
	version       string
	started       time.Time
	cached        *HealthStatus
	cachedAt      time.Time
	cacheDuration time.Duration
}

func NewHealth(version string) *Health {
	return &Health{
		status:        "ok",
		version:       version,
		started:       time.Now(),
		cacheDuration: 5 * time.Second,
	}
}

// SetStatus changes the reported status and drops the cached response.
func (h *Health) SetStatus(status string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = status
	h.cached = nil
}

func (h *Health) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		h.mu.Lock()
		defer h.mu.Unlock()

		if h.cached == nil || time.Since(h.cachedAt) >= h.cacheDuration {
			h.cached = &HealthStatus{
				Status:      h.status,
				LastChecked: time.Now(),
				Uptime:      time.Since(h.started).Round(time.Second).String(),
				Version:     h.version,
			}
			h.cachedAt = time.Now()
		}

		code := http.StatusOK
		if h.cached.Status != "ok" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, h.cached)
	}
}
