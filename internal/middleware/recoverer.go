package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-catalog/internal/logger"
)

func Recoverer(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				err := fmt.Errorf("panic: %v", rec)
				if log != nil {
					ctx := log.WithFields(c.Request.Context(), map[string]any{"panic": rec})
					log.Error(ctx, "panic.recovered", err)
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"message": err.Error(),
				})
			}
		}()
		c.Next()
	}
}
