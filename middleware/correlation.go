package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderCorrelationID  = "X-Correlation-Id"
	ContextCorrelationID = "correlation_id"
)

// CorrelationID reuses the caller's id or mints one, and echoes it back.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := c.GetHeader(HeaderCorrelationID)
		if cid == "" {
			cid = uuid.NewString()
		}

		c.Header(HeaderCorrelationID, cid)
		c.Set(ContextCorrelationID, cid)
		c.Next()
	}
}
