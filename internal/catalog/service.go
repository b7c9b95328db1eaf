package catalog

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	pkgerrors "storefront-catalog/internal/errors"
	"storefront-catalog/internal/logger"
	"storefront-catalog/internal/models"
)

// Store es la persistencia que necesita el servicio. ProductRepository la implementa.
type Store interface {
	Insert(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Find(ctx context.Context, filter models.ProductFilter, page models.Page) ([]models.Product, int64, error)
	PushVariant(ctx context.Context, id primitive.ObjectID, variant models.Variant) (*models.Product, error)
	PushReview(ctx context.Context, id primitive.ObjectID, review models.Review) (*models.Product, error)
	SetVariantStock(ctx context.Context, id primitive.ObjectID, sku string, stock int) (*models.Product, error)
	MarkOutOfStockIfEmpty(ctx context.Context, id primitive.ObjectID) (bool, error)
	SKUExists(ctx context.Context, sku string) (bool, error)
	Statistics(ctx context.Context) (*models.Statistics, error)
}

type Service struct {
	store  Store
	logger *logger.Logger
	now    func() time.Time
}

func NewService(store Store, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		store:  store,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ProductPage es un listado paginado junto con el total de coincidencias.
type ProductPage struct {
	Products   []models.ProductView
	Total      int64
	Page       int
	Limit      int
	TotalPages int64
}

func newProductPage(products []models.Product, total int64, page models.Page) *ProductPage {
	totalPages := total / int64(page.Limit)
	if total%int64(page.Limit) != 0 {
		totalPages++
	}
	return &ProductPage{
		Products:   models.NewProductViews(products),
		Total:      total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: totalPages,
	}
}

// VariantDetail es una variante junto con el producto al que pertenece.
type VariantDetail struct {
	ProductID   primitive.ObjectID
	ProductName string
	Variant     models.Variant
	FinalPrice  float64
}

// ReviewResult es el producto actualizado tras agregar una reseña.
type ReviewResult struct {
	Product       models.ProductView
	Review        models.Review
	AverageRating float64
}

func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, pkgerrors.InvalidID("Invalid product ID")
	}
	return oid, nil
}

// Create valida el producto, verifica que sus SKUs no existan y lo guarda
func (s *Service) Create(ctx context.Context, input models.ProductInput) (*models.ProductView, error) {
	product, err := models.ValidateAndNormalize(input, s.now())
	if err != nil {
		return nil, err
	}

	var taken []string
	for _, v := range product.Variants {
		exists, err := s.store.SKUExists(ctx, v.SKU)
		if err != nil {
			return nil, err
		}
		if exists {
			taken = append(taken, fmt.Sprintf("SKU %s already exists", v.SKU))
		}
	}
	if len(taken) > 0 {
		return nil, pkgerrors.Conflict("SKU already exists", taken...)
	}

	p := models.ApplyStockInvariant(*product)
	if err := s.store.Insert(ctx, &p); err != nil {
		return nil, err
	}

	ctx = s.logger.WithFields(ctx, map[string]any{"product_id": p.ID.Hex(), "status": string(p.Status)})
	s.logger.Info(ctx, "product created")

	view := models.NewProductView(p)
	return &view, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.ProductView, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	product, err := s.store.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	view := models.NewProductView(*product)
	return &view, nil
}

// List no aplica ningún filtro de estado salvo que se pida explícitamente
func (s *Service) List(ctx context.Context, filter models.ProductFilter, page models.Page) (*ProductPage, error) {
	page = page.Normalize()
	if err := page.Validate(); err != nil {
		return nil, err
	}
	products, total, err := s.store.Find(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	return newProductPage(products, total, page), nil
}

// ListByCategory devuelve solo productos activos de la categoría
func (s *Service) ListByCategory(ctx context.Context, category string, page models.Page) (*ProductPage, error) {
	c := models.Category(category)
	if !c.IsValid() {
		return nil, pkgerrors.Validation(fmt.Sprintf("Invalid category: %s", category))
	}
	return s.List(ctx, models.ProductFilter{Category: c, Status: models.StatusActive}, page)
}

func (s *Service) GetVariant(ctx context.Context, id, sku string) (*VariantDetail, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	product, err := s.store.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	variant, err := models.FindVariantBySKU(*product, sku)
	if err != nil {
		return nil, err
	}
	return &VariantDetail{
		ProductID:   product.ID,
		ProductName: product.Name,
		Variant:     *variant,
		FinalPrice:  models.VariantFinalPrice(product.BasePrice, *variant),
	}, nil
}

// AddVariant agrega una variante con $push atómico y luego aplica la regla de stock
func (s *Service) AddVariant(ctx context.Context, id string, input models.VariantInput) (*models.ProductView, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	variant, err := models.ValidateVariant(input)
	if err != nil {
		return nil, err
	}

	product, err := s.store.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if _, err := models.FindVariantBySKU(*product, variant.SKU); err == nil {
		return nil, pkgerrors.Conflict("SKU already exists",
			fmt.Sprintf("SKU %s already exists in this product", variant.SKU))
	}
	exists, err := s.store.SKUExists(ctx, variant.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, pkgerrors.Conflict("SKU already exists",
			fmt.Sprintf("SKU %s already exists", variant.SKU))
	}

	updated, err := s.store.PushVariant(ctx, oid, *variant)
	if err != nil {
		return nil, err
	}
	if updated, err = s.enforceStockInvariant(ctx, updated); err != nil {
		return nil, err
	}

	ctx = s.logger.WithFields(ctx, map[string]any{"product_id": id, "sku": variant.SKU})
	s.logger.Info(ctx, "variant added")

	view := models.NewProductView(*updated)
	return &view, nil
}

// AddReview agrega la reseña con $push atómico y aplica la regla de stock; el promedio se calcula sobre el documento devuelto
func (s *Service) AddReview(ctx context.Context, id string, input models.ReviewInput) (*ReviewResult, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	review, err := models.ValidateReview(input, s.now())
	if err != nil {
		return nil, err
	}

	updated, err := s.store.PushReview(ctx, oid, *review)
	if err != nil {
		return nil, err
	}
	if updated, err = s.enforceStockInvariant(ctx, updated); err != nil {
		return nil, err
	}

	view := models.NewProductView(*updated)
	return &ReviewResult{
		Product:       view,
		Review:        *review,
		AverageRating: view.AverageRating,
	}, nil
}

// UpdateVariantStock cambia el stock con un único $set posicional, sin leer antes el producto
func (s *Service) UpdateVariantStock(ctx context.Context, id, sku string, input models.StockUpdateInput) (*models.ProductView, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	if err := models.ValidateStockUpdate(input); err != nil {
		return nil, err
	}

	normalized := models.NormalizeSKU(sku)
	updated, err := s.store.SetVariantStock(ctx, oid, normalized, *input.Stock)
	if err != nil {
		return nil, err
	}
	if updated, err = s.enforceStockInvariant(ctx, updated); err != nil {
		return nil, err
	}

	ctx = s.logger.WithFields(ctx, map[string]any{"product_id": id, "sku": normalized, "stock": *input.Stock})
	s.logger.Info(ctx, "variant stock updated")

	view := models.NewProductView(*updated)
	return &view, nil
}

func (s *Service) Statistics(ctx context.Context) (*models.Statistics, error) {
	return s.store.Statistics(ctx)
}

// enforceStockInvariant ejecuta la actualización condicional en la base y
// refleja el resultado en la copia ya devuelta, sin volver a leerla.
func (s *Service) enforceStockInvariant(ctx context.Context, product *models.Product) (*models.Product, error) {
	if models.ApplyStockInvariant(*product).Status == product.Status {
		return product, nil
	}
	changed, err := s.store.MarkOutOfStockIfEmpty(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	if changed {
		p := models.ApplyStockInvariant(*product)
		return &p, nil
	}
	return product, nil
}
