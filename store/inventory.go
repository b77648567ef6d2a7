package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/djb4ai/Temporal-Ecommerce-Test-App/types"
)

// GetProduct loads one catalog entry by SKU.
func (s *Store) GetProduct(ctx context.Context, sku string) (types.Product, error) {
	var product types.Product
	err := s.inventory.FindOne(ctx, bson.M{"sku": sku}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return types.Product{}, fmt.Errorf("product %s: %w", sku, ErrNotFound)
	}
	if err != nil {
		return types.Product{}, fmt.Errorf("loading product %s: %w", sku, err)
	}
	return product, nil
}

// ListProducts returns the full catalog.
func (s *Store) ListProducts(ctx context.Context) ([]types.Product, error) {
	cursor, err := s.inventory.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	var products []types.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decoding products: %w", err)
	}
	return products, nil
}

// DecrementStock atomically decrements one SKU's stock. The guard on
// the filter means stock can never go negative; a shortfall surfaces as
// *types.InsufficientStockError.
func (s *Store) DecrementStock(ctx context.Context, sku string, quantity int) error {
	res, err := s.inventory.UpdateOne(ctx,
		bson.M{"sku": sku, "stock": bson.M{"$gte": quantity}},
		bson.M{"$inc": bson.M{"stock": -quantity}},
	)
	if err != nil {
		return fmt.Errorf("decrementing stock for %s: %w", sku, err)
	}
	if res.MatchedCount == 0 {
		product, lookupErr := s.GetProduct(ctx, sku)
		if lookupErr != nil {
			return lookupErr
		}
		return &types.InsufficientStockError{SKU: sku, Requested: quantity, Available: product.Stock}
	}
	return nil
}

// SeedInventory loads the product catalog, replacing whatever exists.
func (s *Store) SeedInventory(ctx context.Context, products []types.Product) error {
	if err := s.inventory.Drop(ctx); err != nil {
		return fmt.Errorf("clearing inventory: %w", err)
	}
	docs := make([]interface{}, len(products))
	for i, p := range products {
		docs[i] = p
	}
	if _, err := s.inventory.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("seeding inventory: %w", err)
	}
	return nil
}
