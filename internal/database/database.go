package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"storefront-catalog/internal/config"
)

// Connect abre el cliente de MongoDB y verifica la conexión con un ping
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ServerSelectionTimeout)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

func Disconnect(ctx context.Context, client *mongo.Client) error {
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

// Ping se usa desde /health
func Ping(ctx context.Context, client *mongo.Client) error {
	return client.Ping(ctx, readpref.Primary())
}

// ProductIndexes son los índices que requiere la colección de productos.
// El índice de texto es obligatorio para el filtro ?search=.
func ProductIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "variants.sku", Value: 1}},
			Options: options.Index().SetName("variants_sku_unique").SetUnique(true).SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}},
			Options: options.Index().
				SetName("name_description_text").
				SetWeights(bson.D{{Key: "name", Value: 10}, {Key: "description", Value: 1}}),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("category_status"),
		},
		{
			Keys:    bson.D{{Key: "brand", Value: 1}},
			Options: options.Index().SetName("brand"),
		},
		{
			Keys:    bson.D{{Key: "basePrice", Value: 1}},
			Options: options.Index().SetName("base_price"),
		},
		{
			Keys:    bson.D{{Key: "featured", Value: 1}},
			Options: options.Index().SetName("featured"),
		},
	}
}

// EnsureIndexes crea los índices si no existen; createIndexes es idempotente
func EnsureIndexes(ctx context.Context, collection *mongo.Collection) ([]string, error) {
	names, err := collection.Indexes().CreateMany(ctx, ProductIndexes())
	if err != nil {
		return nil, fmt.Errorf("create indexes on %s: %w", collection.Name(), err)
	}
	return names, nil
}
