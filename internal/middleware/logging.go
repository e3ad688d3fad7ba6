package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-tracker/internal/constants"
	"github.com/yukikurage/task-tracker/internal/logger"
)

// RequestID propagates X-Request-ID, generating one when absent
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(constants.ContextKeyRequestID, requestID)
		c.Header(constants.HeaderRequestID, requestID)
		c.Next()
	}
}

// GetRequestID returns the request id set by RequestID
func GetRequestID(c *gin.Context) string {
	return c.GetString(constants.ContextKeyRequestID)
}

// RequestLogger logs every request in structured form and exposes a
// request-scoped entry to handlers through GetLogger.
func RequestLogger(log *logrus.Logger) gin.HandlerFunc {
	base := logger.Base(log)

	return func(c *gin.Context) {
		start := time.Now()
		entry := logger.WithRequestID(base, GetRequestID(c))
		c.Set(constants.ContextKeyLogger, entry)

		entry.Debugf("request started: %s %s", c.Request.Method, c.Request.URL.Path)

		c.Next()

		status := c.Writer.Status()
		fields := logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
			"remote_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if userID, ok := GetUserID(c); ok {
			fields["user_id"] = userID
		}

		done := entry.WithFields(fields)
		switch {
		case status >= 500:
			done.Error("request completed")
		case status >= 400:
			done.Warn("request completed")
		default:
			done.Info("request completed")
		}
	}
}

// GetLogger returns the request-scoped entry, or a standard-logger entry
// outside of RequestLogger.
func GetLogger(c *gin.Context) *logrus.Entry {
	if value, exists := c.Get(constants.ContextKeyLogger); exists {
		if entry, ok := value.(*logrus.Entry); ok {
			return entry
		}
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
