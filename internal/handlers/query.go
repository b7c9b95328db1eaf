package handlers

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	pkgerrors "storefront-catalog/internal/errors"
	"storefront-catalog/internal/models"
)

// parsePage lee page, limit y sort; valores no numéricos caen en los valores por defecto
func parsePage(c *gin.Context) models.Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(models.DefaultPage)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(models.DefaultPageSize)))

	p := models.Page{Page: page, Limit: limit}
	p.SortField, p.SortDesc = parseSort(c.Query("sort"))
	return p.Normalize()
}

// parseSort acepta "campo:asc|desc" o "-campo"
func parseSort(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if strings.HasPrefix(raw, "-") {
		return raw[1:], true
	}
	field, order, _ := strings.Cut(raw, ":")
	return field, strings.EqualFold(order, "desc")
}

// parseFilter traduce los parámetros de consulta del listado; todos los
// valores inválidos se reportan juntos.
func parseFilter(c *gin.Context) (models.ProductFilter, error) {
	var (
		f        models.ProductFilter
		messages []string
	)

	if v := strings.TrimSpace(c.Query("category")); v != "" {
		f.Category = models.Category(v)
		if !f.Category.IsValid() {
			messages = append(messages, fmt.Sprintf("Invalid category: %s", v))
		}
	}
	if v := strings.TrimSpace(c.Query("status")); v != "" {
		f.Status = models.Status(v)
		if !f.Status.IsValid() {
			messages = append(messages, fmt.Sprintf("Invalid status: %s", v))
		}
	}
	if v := strings.TrimSpace(c.Query("size")); v != "" {
		f.Size = models.Size(v)
		if !f.Size.IsValid() {
			messages = append(messages, fmt.Sprintf("Invalid size: %s", v))
		}
	}

	f.Brand = c.Query("brand")
	f.Search = c.Query("search")
	f.Color = c.Query("color")

	var err error
	if f.Featured, err = queryBool(c, "featured"); err != nil {
		messages = append(messages, err.Error())
	}
	if f.InStock, err = queryBool(c, "inStock"); err != nil {
		messages = append(messages, err.Error())
	}
	if f.MinPrice, err = queryPrice(c, "minPrice"); err != nil {
		messages = append(messages, err.Error())
	}
	if f.MaxPrice, err = queryPrice(c, "maxPrice"); err != nil {
		messages = append(messages, err.Error())
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		messages = append(messages, "minPrice cannot be greater than maxPrice")
	}

	if len(messages) > 0 {
		return models.ProductFilter{}, pkgerrors.Validation(messages...)
	}
	return f, nil
}

func queryBool(c *gin.Context, key string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be true or false", key)
	}
	return &v, nil
}

func queryPrice(c *gin.Context, key string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%s must be a non-negative number", key)
	}
	return &v, nil
}
