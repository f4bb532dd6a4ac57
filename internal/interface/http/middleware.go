package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"flightassist-service/internal/domain/entity"
	"flightassist-service/pkg/logger"
)

const (
	callerIDKey     = "callerID"
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"
)

// Auth maps a bearer token to a user id. Requests without a token run as the guest user,
// unknown tokens are rejected.
func Auth(tokens map[string]int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Set(callerIDKey, entity.GuestUserID)
			c.Next()
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			writeError(c, http.StatusUnauthorized, "unauthorized", "expected bearer token")
			c.Abort()
			return
		}
		id, ok := tokens[strings.TrimSpace(token)]
		if !ok {
			writeError(c, http.StatusUnauthorized, "unauthorized", "invalid token")
			c.Abort()
			return
		}
		c.Set(callerIDKey, id)
		c.Next()
	}
}

// CallerID returns the user id set by Auth, or the guest id
func CallerID(c *gin.Context) int64 {
	if v, ok := c.Get(callerIDKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return entity.GuestUserID
}

// RequestLogger logs every request once it completes
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(requestIDKey, reqID)
		c.Header(requestIDHeader, reqID)

		c.Next()

		status := c.Writer.Status()
		kv := []interface{}{
			"requestId", reqID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start).String(),
			"clientIp", c.ClientIP(),
		}
		if status >= http.StatusInternalServerError {
			log.Error("HTTP request", kv...)
			return
		}
		log.Info("HTTP request", kv...)
	}
}
