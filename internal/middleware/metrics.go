package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"storefront-catalog/internal/metrics"
)

// Metrics etiqueta por la ruta registrada (c.FullPath), no por la URL concreta.
// Debe registrarse antes de Recoverer para contar los pánicos como 500.
func Metrics(m *metrics.HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.Observe(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
