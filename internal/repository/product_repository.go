package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	pkgerrors "storefront-catalog/internal/errors"
	"storefront-catalog/internal/models"
)

const (
	writeTimeout = 5 * time.Second
	readTimeout  = 3 * time.Second
	queryTimeout = 10 * time.Second
)

type ProductRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

func NewProductRepository(collection *mongo.Collection) *ProductRepository {
	return &ProductRepository{
		collection: collection,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Insert crea un nuevo producto; el SKU duplicado a nivel de índice se reporta como conflicto
func (r *ProductRepository) Insert(ctx context.Context, product *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	now := r.now()
	product.ID = primitive.NewObjectID()
	product.CreatedAt = now
	product.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		product.ID = primitive.NilObjectID
		return mapWriteError(err, "db: insert product")
	}
	return nil
}

// FindByID obtiene un producto por ID
func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, pkgerrors.NotFound("Product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: find product")
	}
	return &product, nil
}

// Find lista productos con filtros, paginación y el total de coincidencias
func (r *ProductRepository) Find(ctx context.Context, f models.ProductFilter, page models.Page) ([]models.Product, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := BuildFilter(f)
	page = page.Normalize()

	// Contar total en paralelo
	totalCh := make(chan int64, 1)
	errCh := make(chan error, 1)
	go func() {
		total, err := r.collection.CountDocuments(ctx, filter)
		if err != nil {
			errCh <- err
			return
		}
		totalCh <- total
	}()

	findOptions := options.Find().
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit)).
		SetSort(buildSort(page))

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: find products")
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: decode products")
	}

	// Esperar el conteo
	select {
	case total := <-totalCh:
		return products, total, nil
	case err := <-errCh:
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: count products")
	case <-ctx.Done():
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, ctx.Err(), "db: count products")
	}
}

// PushVariant agrega la variante con un $push atómico y devuelve el documento actualizado
func (r *ProductRepository) PushVariant(ctx context.Context, id primitive.ObjectID, variant models.Variant) (*models.Product, error) {
	return r.pushAndReturn(ctx, id, bson.M{"variants": variant}, "db: push variant")
}

// PushReview agrega la reseña con un $push atómico y devuelve el documento actualizado
func (r *ProductRepository) PushReview(ctx context.Context, id primitive.ObjectID, review models.Review) (*models.Product, error) {
	return r.pushAndReturn(ctx, id, bson.M{"reviews": review}, "db: push review")
}

func (r *ProductRepository) pushAndReturn(ctx context.Context, id primitive.ObjectID, push bson.M, op string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	update := bson.M{
		"$push": push,
		"$set":  bson.M{"updatedAt": r.now()},
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": id}, update, op)
}

// SetVariantStock actualiza el stock del elemento cuyo SKU coincide, sin leer antes el documento
func (r *ProductRepository) SetVariantStock(ctx context.Context, id primitive.ObjectID, sku string, stock int) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "variants.sku": sku}
	update := bson.M{"$set": bson.M{
		"variants.$.stock": stock,
		"updatedAt":        r.now(),
	}}

	product, err := r.findOneAndUpdate(ctx, filter, update, "db: set variant stock")
	if pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		return nil, pkgerrors.NotFound("Product or variant not found")
	}
	return product, err
}

// MarkOutOfStockIfEmpty aplica de forma atómica la regla de stock: un producto
// activo sin ninguna variante con stock pasa a "Out of Stock".
func (r *ProductRepository) MarkOutOfStockIfEmpty(ctx context.Context, id primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	filter := bson.M{
		"_id":      id,
		"status":   models.StatusActive,
		"variants": bson.M{"$not": bson.M{"$elemMatch": bson.M{"stock": bson.M{"$gt": 0}}}},
	}
	update := bson.M{"$set": bson.M{
		"status":    models.StatusOutOfStock,
		"updatedAt": r.now(),
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: mark out of stock")
	}
	return result.ModifiedCount > 0, nil
}

// SKUExists indica si algún producto del catálogo ya usa el SKU
func (r *ProductRepository) SKUExists(ctx context.Context, sku string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	n, err := r.collection.CountDocuments(ctx, bson.M{"variants.sku": sku}, options.Count().SetLimit(1))
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: check sku")
	}
	return n > 0, nil
}

func (r *ProductRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M, op string) (*models.Product, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product models.Product
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, pkgerrors.NotFound("Product not found")
		}
		return nil, mapWriteError(err, op)
	}
	return &product, nil
}

func mapWriteError(err error, op string) error {
	if mongo.IsDuplicateKeyError(err) {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "SKU already exists").
			WithDetails([]string{"A variant with this SKU already exists in the catalog"})
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, op)
}
