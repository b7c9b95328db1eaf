package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront-catalog/internal/handlers"
	"storefront-catalog/internal/logger"
	"storefront-catalog/internal/metrics"
	"storefront-catalog/internal/middleware"
)

// Dependencies agrupa lo que necesita el router; Gatherer puede ser nil para omitir /metrics.
type Dependencies struct {
	Logger   *logger.Logger
	Metrics  *metrics.HTTPMetrics
	Gatherer prometheus.Gatherer
	Products *handlers.ProductHandler
	Health   *handlers.HealthHandler
}

func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	router.Use(
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.Metrics(deps.Metrics),
		middleware.Recoverer(deps.Logger),
	)

	router.GET("/", handlers.Home)
	router.GET("/health", deps.Health.Health)
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	h := deps.Products
	products := router.Group("/api/products")
	{
		products.POST("", h.CreateProduct)
		products.GET("", h.ListProducts)
		products.GET("/stats", h.GetStatistics)
		products.GET("/category/:category", h.ListByCategory)
		products.GET("/:id", h.GetProduct)
		products.GET("/:id/variant/:sku", h.GetVariant)
		products.POST("/:id/variants", h.AddVariant)
		products.PUT("/:id/variants/:sku/stock", h.UpdateVariantStock)
		products.POST("/:id/reviews", h.AddReview)
	}

	router.NoRoute(handlers.NotFoundRoute)
}
