package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product representa un producto en el catálogo. Variantes, reseñas y
// especificaciones viven embebidas en el mismo documento.
type Product struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name             string             `json:"name" bson:"name"`
	Description      string             `json:"description" bson:"description"`
	BasePrice        float64            `json:"basePrice" bson:"basePrice"`
	Currency         Currency           `json:"currency" bson:"currency"`
	Category         Category           `json:"category" bson:"category"`
	Subcategory      string             `json:"subcategory,omitempty" bson:"subcategory,omitempty"`
	Brand            string             `json:"brand" bson:"brand"`
	Variants         []Variant          `json:"variants" bson:"variants"`
	Specifications   *Specification     `json:"specifications,omitempty" bson:"specifications,omitempty"`
	Reviews          []Review           `json:"reviews" bson:"reviews"`
	Tags             []string           `json:"tags" bson:"tags"`
	MainImage        string             `json:"mainImage" bson:"mainImage"`
	AdditionalImages []string           `json:"additionalImages" bson:"additionalImages"`
	Status           Status             `json:"status" bson:"status"`
	Featured         bool               `json:"featured" bson:"featured"`
	Discount         Discount           `json:"discount" bson:"discount"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Variant es una configuración comprable (color/talla) con su propio stock y SKU.
type Variant struct {
	ID              primitive.ObjectID `json:"id" bson:"_id"`
	Color           string             `json:"color" bson:"color"`
	Size            Size               `json:"size" bson:"size"`
	Stock           int                `json:"stock" bson:"stock"`
	SKU             string             `json:"sku" bson:"sku"`
	AdditionalPrice float64            `json:"additionalPrice" bson:"additionalPrice"`
	Images          []string           `json:"images" bson:"images"`
	Weight          Weight             `json:"weight" bson:"weight"`
}

type Weight struct {
	Value float64    `json:"value" bson:"value"`
	Unit  WeightUnit `json:"unit" bson:"unit"`
}

type Review struct {
	ID       primitive.ObjectID `json:"id" bson:"_id"`
	Username string             `json:"username" bson:"username"`
	Rating   int                `json:"rating" bson:"rating"`
	Comment  string             `json:"comment,omitempty" bson:"comment,omitempty"`
	Date     time.Time          `json:"date" bson:"date"`
}

// Specification no tiene identidad propia; se guarda como valor dentro del producto.
type Specification struct {
	Material        string     `json:"material,omitempty" bson:"material,omitempty"`
	Warranty        string     `json:"warranty,omitempty" bson:"warranty,omitempty"`
	Manufacturer    string     `json:"manufacturer,omitempty" bson:"manufacturer,omitempty"`
	CountryOfOrigin string     `json:"countryOfOrigin,omitempty" bson:"countryOfOrigin,omitempty"`
	Dimensions      Dimensions `json:"dimensions" bson:"dimensions"`
}

type Dimensions struct {
	Length float64       `json:"length" bson:"length"`
	Width  float64       `json:"width" bson:"width"`
	Height float64       `json:"height" bson:"height"`
	Unit   DimensionUnit `json:"unit" bson:"unit"`
}

type Discount struct {
	Percentage float64    `json:"percentage" bson:"percentage"`
	ValidUntil *time.Time `json:"validUntil,omitempty" bson:"validUntil,omitempty"`
}

// ProductInput es el cuerpo aceptado al crear un producto.
type ProductInput struct {
	Name             string              `json:"name" validate:"required,min=3,max=200"`
	Description      string              `json:"description" validate:"max=2000"`
	BasePrice        *float64            `json:"basePrice" validate:"required,gte=0"`
	Currency         Currency            `json:"currency" validate:"currency"`
	Category         Category            `json:"category" validate:"required,category"`
	Subcategory      string              `json:"subcategory"`
	Brand            string              `json:"brand" validate:"required"`
	Variants         []VariantInput      `json:"variants" validate:"min=1,dive"`
	Specifications   *SpecificationInput `json:"specifications"`
	Reviews          []ReviewInput       `json:"reviews" validate:"dive"`
	Tags             []string            `json:"tags"`
	MainImage        string              `json:"mainImage" validate:"required"`
	AdditionalImages []string            `json:"additionalImages"`
	Status           Status              `json:"status" validate:"status"`
	Featured         bool                `json:"featured"`
	Discount         DiscountInput       `json:"discount"`
}

type VariantInput struct {
	Color           string      `json:"color" validate:"required"`
	Size            Size        `json:"size" validate:"required,size"`
	Stock           int         `json:"stock" validate:"gte=0"`
	SKU             string      `json:"sku" validate:"required"`
	AdditionalPrice float64     `json:"additionalPrice" validate:"gte=0"`
	Images          []string    `json:"images"`
	Weight          WeightInput `json:"weight"`
}

type WeightInput struct {
	Value float64    `json:"value" validate:"gte=0"`
	Unit  WeightUnit `json:"unit" validate:"weight_unit"`
}

type ReviewInput struct {
	Username string     `json:"username" validate:"required"`
	Rating   int        `json:"rating" validate:"min=1,max=5"`
	Comment  string     `json:"comment" validate:"max=500"`
	Date     *time.Time `json:"date"`
}

type SpecificationInput struct {
	Material        string          `json:"material"`
	Warranty        string          `json:"warranty"`
	Manufacturer    string          `json:"manufacturer"`
	CountryOfOrigin string          `json:"countryOfOrigin"`
	Dimensions      DimensionsInput `json:"dimensions"`
}

type DimensionsInput struct {
	Length float64       `json:"length" validate:"gte=0"`
	Width  float64       `json:"width" validate:"gte=0"`
	Height float64       `json:"height" validate:"gte=0"`
	Unit   DimensionUnit `json:"unit" validate:"dimension_unit"`
}

type DiscountInput struct {
	Percentage float64    `json:"percentage" validate:"gte=0,lte=100"`
	ValidUntil *time.Time `json:"validUntil"`
}

// StockUpdateInput es el cuerpo de PUT /variants/:sku/stock. Stock es puntero
// para distinguir un valor ausente de un cero explícito.
type StockUpdateInput struct {
	Stock *int `json:"stock" validate:"required,gte=0"`
}
