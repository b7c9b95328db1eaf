package models

import (
	"github.com/shopspring/decimal"

	pkgerrors "storefront-catalog/internal/errors"
)

// Derived agrupa los campos calculados de un producto. Se recalculan en cada
// lectura y nunca se persisten.
type Derived struct {
	AverageRating   float64 `json:"averageRating"`
	ReviewCount     int     `json:"reviewCount"`
	TotalStock      int     `json:"totalStock"`
	DiscountedPrice float64 `json:"discountedPrice"`
	IsAvailable     bool    `json:"isAvailable"`
}

func ComputeDerived(p Product) Derived {
	total := TotalStock(p.Variants)
	return Derived{
		AverageRating:   AverageRating(p.Reviews),
		ReviewCount:     len(p.Reviews),
		TotalStock:      total,
		DiscountedPrice: DiscountedPrice(p.BasePrice, p.Discount.Percentage),
		IsAvailable:     IsAvailable(p.Status, total),
	}
}

// AverageRating es la media de las calificaciones redondeada a un decimal; 0 sin reseñas.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum int64
	for _, r := range reviews {
		sum += int64(r.Rating)
	}
	avg := decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(reviews))))
	return avg.Round(1).InexactFloat64()
}

func TotalStock(variants []Variant) int {
	total := 0
	for _, v := range variants {
		total += v.Stock
	}
	return total
}

// DiscountedPrice siempre devuelve un número redondeado a dos decimales.
func DiscountedPrice(basePrice, percentage float64) float64 {
	if percentage <= 0 {
		return basePrice
	}
	base := decimal.NewFromFloat(basePrice)
	off := base.Mul(decimal.NewFromFloat(percentage)).Div(decimal.NewFromInt(100))
	return base.Sub(off).Round(2).InexactFloat64()
}

func IsAvailable(status Status, totalStock int) bool {
	return status == StatusActive && totalStock > 0
}

// ApplyStockInvariant marca el producto como agotado cuando está activo y no
// queda stock en ninguna variante. Es idempotente.
func ApplyStockInvariant(p Product) Product {
	if p.Status == StatusActive && TotalStock(p.Variants) == 0 {
		p.Status = StatusOutOfStock
	}
	return p
}

// FindVariantBySKU busca sin distinguir mayúsculas: el SKU de entrada se normaliza antes de comparar.
func FindVariantBySKU(p Product, sku string) (*Variant, error) {
	target := NormalizeSKU(sku)
	for i := range p.Variants {
		if p.Variants[i].SKU == target {
			v := p.Variants[i]
			return &v, nil
		}
	}
	return nil, pkgerrors.NotFound("Variant not found")
}

// VariantFinalPrice es basePrice + additionalPrice de la variante.
func VariantFinalPrice(basePrice float64, v Variant) float64 {
	return decimal.NewFromFloat(basePrice).
		Add(decimal.NewFromFloat(v.AdditionalPrice)).
		Round(2).
		InexactFloat64()
}

func RoundPrice(value float64) float64 {
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

// ProductView es la forma en que un producto sale por la API: documento más campos derivados.
type ProductView struct {
	Product
	Derived
}

func NewProductView(p Product) ProductView {
	return ProductView{Product: p, Derived: ComputeDerived(p)}
}

func NewProductViews(products []Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, NewProductView(p))
	}
	return views
}
