package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	pkgerrors "storefront-catalog/internal/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})

	enumTags := map[string]func(string) bool{
		"category":       func(s string) bool { return Category(s).IsValid() },
		"currency":       func(s string) bool { return Currency(s).IsValid() },
		"status":         func(s string) bool { return Status(s).IsValid() },
		"size":           func(s string) bool { return Size(s).IsValid() },
		"weight_unit":    func(s string) bool { return WeightUnit(s).IsValid() },
		"dimension_unit": func(s string) bool { return DimensionUnit(s).IsValid() },
	}
	for tag, isValid := range enumTags {
		check := isValid
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return check(fl.Field().String())
		}); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}
	return v
}

var enumValues = map[string][]string{
	"category":       stringsOf(validCategories),
	"currency":       stringsOf(validCurrencies),
	"status":         stringsOf(validStatuses),
	"size":           stringsOf(validSizes),
	"weight_unit":    stringsOf(validWeightUnits),
	"dimension_unit": stringsOf(validDimensionUnits),
}

func stringsOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// ValidateAndNormalize recorta strings, pone SKUs en mayúsculas, aplica los
// valores por defecto y valida el producto completo. Reporta todas las
// violaciones juntas en un único error de validación.
func ValidateAndNormalize(in ProductInput, now time.Time) (*Product, error) {
	normalizeProductInput(&in)

	messages := validationMessages(validate.Struct(in))
	messages = append(messages, duplicateSKUMessages(in.Variants)...)
	if len(messages) > 0 {
		return nil, pkgerrors.Validation(messages...)
	}

	return buildProduct(in, now), nil
}

// ValidateVariant normaliza y valida una variante suelta antes de agregarla a un producto.
func ValidateVariant(in VariantInput) (*Variant, error) {
	normalizeVariantInput(&in)
	if messages := validationMessages(validate.Struct(in)); len(messages) > 0 {
		return nil, pkgerrors.Validation(messages...)
	}
	v := buildVariant(in)
	return &v, nil
}

func ValidateReview(in ReviewInput, now time.Time) (*Review, error) {
	normalizeReviewInput(&in)
	if messages := validationMessages(validate.Struct(in)); len(messages) > 0 {
		return nil, pkgerrors.Validation(messages...)
	}
	r := buildReview(in, now)
	return &r, nil
}

func ValidateStockUpdate(in StockUpdateInput) error {
	if messages := validationMessages(validate.Struct(in)); len(messages) > 0 {
		return pkgerrors.Validation(messages...)
	}
	return nil
}

// NormalizeSKU aplica la forma canónica con la que se guardan los SKUs.
func NormalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

func normalizeProductInput(in *ProductInput) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Subcategory = strings.TrimSpace(in.Subcategory)
	in.Brand = strings.TrimSpace(in.Brand)
	in.MainImage = strings.TrimSpace(in.MainImage)
	in.Category = Category(strings.TrimSpace(string(in.Category)))

	if in.Currency = Currency(strings.ToUpper(strings.TrimSpace(string(in.Currency)))); in.Currency == "" {
		in.Currency = CurrencyUSD
	}
	if in.Status = Status(strings.TrimSpace(string(in.Status))); in.Status == "" {
		in.Status = StatusActive
	}

	in.Tags = normalizeTags(in.Tags)
	in.AdditionalImages = compactStrings(in.AdditionalImages)

	for i := range in.Variants {
		normalizeVariantInput(&in.Variants[i])
	}
	for i := range in.Reviews {
		normalizeReviewInput(&in.Reviews[i])
	}
	if spec := in.Specifications; spec != nil {
		spec.Material = strings.TrimSpace(spec.Material)
		spec.Warranty = strings.TrimSpace(spec.Warranty)
		spec.Manufacturer = strings.TrimSpace(spec.Manufacturer)
		spec.CountryOfOrigin = strings.TrimSpace(spec.CountryOfOrigin)
		if spec.Dimensions.Unit == "" {
			spec.Dimensions.Unit = DimensionUnitCentimeter
		}
	}
}

func normalizeVariantInput(in *VariantInput) {
	in.Color = strings.TrimSpace(in.Color)
	in.Size = Size(strings.TrimSpace(string(in.Size)))
	in.SKU = NormalizeSKU(in.SKU)
	in.Images = compactStrings(in.Images)
	if in.Weight.Unit == "" {
		in.Weight.Unit = WeightUnitKilogram
	}
}

func normalizeReviewInput(in *ReviewInput) {
	in.Username = strings.TrimSpace(in.Username)
	in.Comment = strings.TrimSpace(in.Comment)
}

// normalizeTags recorta, pasa a minúsculas y elimina duplicados conservando el orden.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func compactStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func duplicateSKUMessages(variants []VariantInput) []string {
	var messages []string
	seen := make(map[string]int, len(variants))
	for _, v := range variants {
		if v.SKU == "" {
			continue
		}
		seen[v.SKU]++
		if seen[v.SKU] == 2 {
			messages = append(messages, fmt.Sprintf("Duplicate SKU %s in variants", v.SKU))
		}
	}
	return messages
}

// Los slices nunca quedan en nil: un array nulo en Mongo rompe los $push posteriores.
func buildProduct(in ProductInput, now time.Time) *Product {
	p := &Product{
		Name:             in.Name,
		Description:      in.Description,
		BasePrice:        *in.BasePrice,
		Currency:         in.Currency,
		Category:         in.Category,
		Subcategory:      in.Subcategory,
		Brand:            in.Brand,
		Variants:         make([]Variant, 0, len(in.Variants)),
		Reviews:          make([]Review, 0, len(in.Reviews)),
		Tags:             in.Tags,
		MainImage:        in.MainImage,
		AdditionalImages: in.AdditionalImages,
		Status:           in.Status,
		Featured:         in.Featured,
		Discount: Discount{
			Percentage: in.Discount.Percentage,
			ValidUntil: in.Discount.ValidUntil,
		},
	}
	for _, v := range in.Variants {
		p.Variants = append(p.Variants, buildVariant(v))
	}
	for _, r := range in.Reviews {
		p.Reviews = append(p.Reviews, buildReview(r, now))
	}
	if spec := in.Specifications; spec != nil {
		p.Specifications = &Specification{
			Material:        spec.Material,
			Warranty:        spec.Warranty,
			Manufacturer:    spec.Manufacturer,
			CountryOfOrigin: spec.CountryOfOrigin,
			Dimensions: Dimensions{
				Length: spec.Dimensions.Length,
				Width:  spec.Dimensions.Width,
				Height: spec.Dimensions.Height,
				Unit:   spec.Dimensions.Unit,
			},
		}
	}
	return p
}

func buildVariant(in VariantInput) Variant {
	return Variant{
		ID:              primitive.NewObjectID(),
		Color:           in.Color,
		Size:            in.Size,
		Stock:           in.Stock,
		SKU:             in.SKU,
		AdditionalPrice: in.AdditionalPrice,
		Images:          in.Images,
		Weight:          Weight{Value: in.Weight.Value, Unit: in.Weight.Unit},
	}
}

// buildReview usa la fecha enviada por el cliente; sin ella, el momento de creación.
func buildReview(in ReviewInput, now time.Time) Review {
	date := now
	if in.Date != nil && !in.Date.IsZero() {
		date = in.Date.UTC()
	}
	return Review{
		ID:       primitive.NewObjectID(),
		Username: in.Username,
		Rating:   in.Rating,
		Comment:  in.Comment,
		Date:     date,
	}
}

func validationMessages(err error) []string {
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return []string{err.Error()}
	}
	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		messages = append(messages, validationMessage(fe))
	}
	return messages
}

// fieldPath quita el nombre del struct raíz: "ProductInput.variants[0].sku" -> "variants[0].sku".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func validationMessage(fe validator.FieldError) string {
	field := fieldPath(fe)
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if field == "variants" {
			return "Product must have at least one variant"
		}
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("%s cannot exceed %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte":
		if fe.Param() == "0" {
			return fmt.Sprintf("%s cannot be negative", field)
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	}
	if values, ok := enumValues[fe.Tag()]; ok {
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(values, ", "))
	}
	return fmt.Sprintf("%s is invalid", field)
}
