package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
	requestIDMaxLen = 64
)

// RequestID keeps the caller's X-Request-ID, or mints one, and echoes it back.
// Overlong ids are replaced so they cannot flood the logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.NewString()
		}

		c.Set(RequestIDKey, rid)
		c.Header(RequestIDHeader, rid)

		c.Next()
	}
}
