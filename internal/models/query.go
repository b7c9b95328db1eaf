package models

import (
	"math"

	pkgerrors "storefront-catalog/internal/errors"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ProductFilter agrupa los predicados opcionales del listado; se combinan con AND.
type ProductFilter struct {
	Category Category
	Brand    string
	Status   Status
	Featured *bool
	MinPrice *float64
	MaxPrice *float64
	Search   string
	Color    string
	Size     Size
	InStock  *bool
}

// SortableFields son los campos aceptados en ?sort=campo:asc|desc.
var SortableFields = map[string]struct{}{
	"name":      {},
	"basePrice": {},
	"createdAt": {},
	"updatedAt": {},
	"brand":     {},
}

type Page struct {
	Page      int
	Limit     int
	SortField string
	SortDesc  bool
}

// Normalize aplica límites y valores por defecto de paginación y orden.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 || p.Limit > MaxPageSize {
		p.Limit = DefaultPageSize
	}
	if _, ok := SortableFields[p.SortField]; !ok {
		p.SortField = "createdAt"
		p.SortDesc = true
	}
	return p
}

// Validate rechaza páginas cuyo desplazamiento no cabe en int64; se llama tras Normalize.
func (p Page) Validate() error {
	if p.Limit > 0 && int64(p.Page-1) > math.MaxInt64/int64(p.Limit) {
		return pkgerrors.Validation("page is too large")
	}
	return nil
}

func (p Page) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

type Statistics struct {
	TotalProducts           int64           `json:"totalProducts"`
	ActiveProducts          int64           `json:"activeProducts"`
	InactiveProducts        int64           `json:"inactiveProducts"`
	AveragePrice            float64         `json:"averagePrice"`
	TotalStockAcrossCatalog int64           `json:"totalStockAcrossCatalog"`
	CategoryDistribution    []CategoryCount `json:"categoryDistribution"`
	BrandDistribution       []BrandCount    `json:"brandDistribution"`
}

type CategoryCount struct {
	Category string `json:"category" bson:"_id"`
	Count    int64  `json:"count" bson:"count"`
}

type BrandCount struct {
	Brand string `json:"brand" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}
