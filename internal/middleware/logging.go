package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"storefront-catalog/internal/logger"
)

func Logging(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if log == nil {
			c.Next()
			return
		}

		ctx := log.WithFields(c.Request.Context(), map[string]any{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		})
		c.Request = c.Request.WithContext(ctx)
		start := time.Now()

		log.Debug(ctx, "request.start")
		c.Next()

		ctx = log.WithFields(ctx, map[string]any{
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		if len(c.Errors) > 0 {
			ctx = log.WithField(ctx, "errors", c.Errors.String())
		}
		log.Info(ctx, "request.complete")
	}
}
