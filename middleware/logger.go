package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LoggerMiddleware logs each request with a request id and latency.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		startTime := time.Now()
		c.Next()
		duration := time.Since(startTime)

		fields := logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": float64(duration.Nanoseconds()) / 1e6,
			"client_ip":  c.ClientIP(),
		}

		statusCode := c.Writer.Status()
		switch {
		case statusCode >= 500:
			logrus.WithFields(fields).Error("Request failed")
		case statusCode >= 400:
			logrus.WithFields(fields).Warn("Request error")
		default:
			logrus.WithFields(fields).Info("Request completed")
		}
	}
}
