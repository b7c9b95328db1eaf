package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront-catalog/internal/logger"
)

const (
	RequestIDHeader = "X-Request-Id"
	requestIDKey    = "request_id"
)

func RequestID(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}

		c.Header(RequestIDHeader, reqID)
		c.Set(requestIDKey, reqID)

		if log != nil {
			c.Request = c.Request.WithContext(log.WithRequestID(c.Request.Context(), reqID))
		}
		c.Next()
	}
}

// GetRequestID devuelve el id asignado por RequestID, o "" si no corrió.
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
