package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-catalog/internal/catalog"
	pkgerrors "storefront-catalog/internal/errors"
	"storefront-catalog/internal/logger"
	"storefront-catalog/internal/models"
)

type ProductHandler struct {
	service *catalog.Service
	logger  *logger.Logger
}

func NewProductHandler(service *catalog.Service, log *logger.Logger) *ProductHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductHandler{service: service, logger: log}
}

func invalidBody(err error) error {
	return pkgerrors.Validation("Invalid request body: " + err.Error())
}

// CreateProduct crea un nuevo producto
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var input models.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.logger, invalidBody(err))
		return
	}

	product, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondData(c, http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"data":    product,
	})
}

// GetProduct obtiene un producto por ID
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"data": product})
}

// ListProducts lista productos con filtros y paginación
func (h *ProductHandler) ListProducts(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), filter, parsePage(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondData(c, http.StatusOK, pageBody(result))
}

// ListByCategory lista solo productos activos de una categoría
func (h *ProductHandler) ListByCategory(c *gin.Context) {
	category := c.Param("category")
	result, err := h.service.ListByCategory(c.Request.Context(), category, parsePage(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	body := pageBody(result)
	body["category"] = category
	respondData(c, http.StatusOK, body)
}

// GetStatistics devuelve métricas agregadas del catálogo
func (h *ProductHandler) GetStatistics(c *gin.Context) {
	stats, err := h.service.Statistics(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"data": stats})
}

// GetVariant devuelve una variante con su precio final
func (h *ProductHandler) GetVariant(c *gin.Context) {
	detail, err := h.service.GetVariant(c.Request.Context(), c.Param("id"), c.Param("sku"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"data": gin.H{
			"productId":   detail.ProductID,
			"productName": detail.ProductName,
			"variant":     detail.Variant,
			"finalPrice":  detail.FinalPrice,
		},
	})
}

// AddVariant agrega una variante a un producto existente
func (h *ProductHandler) AddVariant(c *gin.Context) {
	var input models.VariantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.logger, invalidBody(err))
		return
	}

	product, err := h.service.AddVariant(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondData(c, http.StatusCreated, gin.H{
		"message": "Variant added successfully",
		"data":    product,
	})
}

// UpdateVariantStock fija el stock de una variante
func (h *ProductHandler) UpdateVariantStock(c *gin.Context) {
	var input models.StockUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.logger, pkgerrors.Validation("stock must be a non-negative integer"))
		return
	}

	product, err := h.service.UpdateVariantStock(c.Request.Context(), c.Param("id"), c.Param("sku"), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"message": "Stock updated successfully",
		"data":    product,
	})
}

// AddReview agrega una reseña y devuelve la calificación promedio actualizada
func (h *ProductHandler) AddReview(c *gin.Context) {
	var input models.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.logger, invalidBody(err))
		return
	}

	result, err := h.service.AddReview(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondData(c, http.StatusCreated, gin.H{
		"message": "Review added successfully",
		"data": gin.H{
			"review":        result.Review,
			"averageRating": result.AverageRating,
			"reviewCount":   result.Product.ReviewCount,
			"product":       result.Product,
		},
	})
}

func pageBody(result *catalog.ProductPage) gin.H {
	return gin.H{
		"count":      len(result.Products),
		"total":      result.Total,
		"page":       result.Page,
		"limit":      result.Limit,
		"totalPages": result.TotalPages,
		"data":       result.Products,
	}
}
