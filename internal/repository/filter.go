package repository

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"storefront-catalog/internal/models"
)

// BuildFilter traduce los predicados del listado a un filtro de MongoDB.
// Los predicados de variante (color, talla, stock) se evalúan por separado:
// cada uno exige que exista alguna variante que lo cumpla.
func BuildFilter(f models.ProductFilter) bson.M {
	filter := bson.M{}

	if f.Category != "" {
		filter["category"] = f.Category
	}
	if brand := strings.TrimSpace(f.Brand); brand != "" {
		filter["brand"] = exactInsensitive(brand)
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Featured != nil {
		filter["featured"] = *f.Featured
	}

	// Filtros de precio
	priceFilter := bson.M{}
	if f.MinPrice != nil {
		priceFilter["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		priceFilter["$lte"] = *f.MaxPrice
	}
	if len(priceFilter) > 0 {
		filter["basePrice"] = priceFilter
	}

	// Búsqueda de texto: $text busca cualquiera de los términos (semántica OR)
	if q := strings.TrimSpace(f.Search); q != "" {
		filter["$text"] = bson.M{"$search": q}
	}

	if color := strings.TrimSpace(f.Color); color != "" {
		filter["variants.color"] = exactInsensitive(color)
	}
	if f.Size != "" {
		filter["variants.size"] = f.Size
	}
	if f.InStock != nil {
		inStock := bson.M{"$elemMatch": bson.M{"stock": bson.M{"$gt": 0}}}
		if *f.InStock {
			filter["variants"] = inStock
		} else {
			filter["variants"] = bson.M{"$not": inStock}
		}
	}

	return filter
}

func exactInsensitive(value string) bson.M {
	return bson.M{"$regex": "^" + regexp.QuoteMeta(value) + "$", "$options": "i"}
}

func buildSort(p models.Page) bson.D {
	order := 1
	if p.SortDesc {
		order = -1
	}
	sort := bson.D{{Key: p.SortField, Value: order}}
	if p.SortField != "_id" {
		sort = append(sort, bson.E{Key: "_id", Value: order})
	}
	return sort
}
