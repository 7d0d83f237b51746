package middleware

import (
	"net/http"
	"time"

	"storefront/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func RequestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		statusCode := c.Writer.Status()
		entry := logger.WithFields(logrus.Fields{
			"status_code":    statusCode,
			"method":         c.Request.Method,
			"path":           c.Request.URL.Path,
			"remote_ip":      c.ClientIP(),
			"latency_ms":     time.Since(startTime).Milliseconds(),
			"correlation_id": c.GetString(ContextCorrelationID),
		})
		if userID, ok := c.Get(ContextUserID); ok {
			entry = entry.WithField("user_id", userID)
		}

		switch {
		case len(c.Errors) > 0:
			entry.Error(c.Errors.ByType(gin.ErrorTypePrivate).String())
		case statusCode >= 500:
			entry.Error("Request completed with server error")
		case statusCode >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed")
		}
	}
}

// Recovery turns a panic into the usual JSON error body.
func Recovery(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.WithFields(logrus.Fields{
					"panic":          rec,
					"path":           c.Request.URL.Path,
					"correlation_id": c.GetString(ContextCorrelationID),
				}).Error("Recovered from panic")
				c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
					Success: false,
					Message: "Internal server error",
				})
			}
		}()
		c.Next()
	}
}
