package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront-catalog/internal/logger"
	"storefront-catalog/internal/models"
)

const healthTimeout = 2 * time.Second

// Home describe el servicio, sus rutas y los filtros disponibles.
func Home(c *gin.Context) {
	respondData(c, http.StatusOK, gin.H{
		"message": "Product Catalog API",
		"endpoints": gin.H{
			"createProduct":      "POST /api/products",
			"listProducts":       "GET /api/products",
			"statistics":         "GET /api/products/stats",
			"productsByCategory": "GET /api/products/category/:category",
			"getProduct":         "GET /api/products/:id",
			"getVariant":         "GET /api/products/:id/variant/:sku",
			"addVariant":         "POST /api/products/:id/variants",
			"updateVariantStock": "PUT /api/products/:id/variants/:sku/stock",
			"addReview":          "POST /api/products/:id/reviews",
		},
		"filters": []string{
			"category", "brand", "status", "featured", "minPrice", "maxPrice",
			"search", "color", "size", "inStock", "page", "limit", "sort",
		},
		"categories": models.Categories(),
		"statuses":   models.Statuses(),
		"sizes":      models.Sizes(),
	})
}

type HealthHandler struct {
	ping   func(ctx context.Context) error
	logger *logger.Logger
}

func NewHealthHandler(ping func(ctx context.Context) error, log *logger.Logger) *HealthHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &HealthHandler{ping: ping, logger: log}
}

// Health responde 503 cuando la base de datos no contesta
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.ping(ctx); err != nil {
		h.logger.Warn(h.logger.WithField(c.Request.Context(), "error", err.Error()), "health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success":  false,
			"status":   "unavailable",
			"database": "disconnected",
		})
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"status":   "ok",
		"database": "connected",
	})
}
