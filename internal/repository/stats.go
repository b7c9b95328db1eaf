package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	pkgerrors "storefront-catalog/internal/errors"
	"storefront-catalog/internal/models"
)

type statsTotals struct {
	TotalProducts    int64   `bson:"totalProducts"`
	ActiveProducts   int64   `bson:"activeProducts"`
	InactiveProducts int64   `bson:"inactiveProducts"`
	AveragePrice     float64 `bson:"averagePrice"`
	TotalStock       int64   `bson:"totalStock"`
}

type statsFacets struct {
	Totals     []statsTotals          `bson:"totals"`
	Categories []models.CategoryCount `bson:"categories"`
	Brands     []models.BrandCount    `bson:"brands"`
}

func countWhereStatus(status models.Status) bson.M {
	return bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$status", status}}, 1, 0}}}
}

// statisticsPipeline calcula todo en una sola pasada con $facet.
func statisticsPipeline() mongo.Pipeline {
	distribution := func(field string) bson.A {
		return bson.A{
			bson.M{"$group": bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}},
			bson.M{"$sort": bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}},
		}
	}

	return mongo.Pipeline{
		{{Key: "$facet", Value: bson.M{
			"totals": bson.A{
				bson.M{"$group": bson.M{
					"_id":              nil,
					"totalProducts":    bson.M{"$sum": 1},
					"activeProducts":   countWhereStatus(models.StatusActive),
					"inactiveProducts": countWhereStatus(models.StatusInactive),
					"averagePrice":     bson.M{"$avg": "$basePrice"},
					"totalStock":       bson.M{"$sum": bson.M{"$sum": "$variants.stock"}},
				}},
			},
			"categories": distribution("category"),
			"brands":     distribution("brand"),
		}}},
	}
}

// Statistics agrega métricas de todo el catálogo
func (r *ProductRepository) Statistics(ctx context.Context) (*models.Statistics, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := r.collection.Aggregate(ctx, statisticsPipeline())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: aggregate statistics")
	}
	defer cursor.Close(ctx)

	var facets []statsFacets
	if err := cursor.All(ctx, &facets); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: decode statistics")
	}

	stats := &models.Statistics{
		CategoryDistribution: []models.CategoryCount{},
		BrandDistribution:    []models.BrandCount{},
	}
	if len(facets) == 0 {
		return stats, nil
	}

	f := facets[0]
	if len(f.Totals) > 0 {
		t := f.Totals[0]
		stats.TotalProducts = t.TotalProducts
		stats.ActiveProducts = t.ActiveProducts
		stats.InactiveProducts = t.InactiveProducts
		stats.AveragePrice = models.RoundPrice(t.AveragePrice)
		stats.TotalStockAcrossCatalog = t.TotalStock
	}
	if f.Categories != nil {
		stats.CategoryDistribution = f.Categories
	}
	if f.Brands != nil {
		stats.BrandDistribution = f.Brands
	}
	return stats, nil
}
