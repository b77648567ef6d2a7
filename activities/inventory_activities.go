package activities

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/activity"

	"github.com/djb4ai/Temporal-Ecommerce-Test-App/types"
)

// InventoryStore is the slice of storage the inventory activities need.
// DecrementStock returns *types.InsufficientStockError when an item
// cannot be fulfilled.
type InventoryStore interface {
	GetProduct(ctx context.Context, sku string) (types.Product, error)
	DecrementStock(ctx context.Context, sku string, quantity int) error
}

// InventoryActivities validates and commits stock movements.
type InventoryActivities struct {
	store InventoryStore
}

// NewInventoryActivities constructs the inventory activity group.
func NewInventoryActivities(store InventoryStore) *InventoryActivities {
	return &InventoryActivities{store: store}
}

// CheckInventory validates that every line item can be fulfilled from
// current stock. A shortfall is not retryable.
func (a *InventoryActivities) CheckInventory(ctx context.Context, items []types.LineItem) (types.InventoryResult, error) {
	for _, item := range items {
		product, err := a.store.GetProduct(ctx, item.SKU)
		if err != nil {
			return types.InventoryResult{}, fmt.Errorf("looking up SKU %s: %w", item.SKU, err)
		}
		if product.Stock < item.Quantity {
			return types.InventoryResult{}, &types.InsufficientStockError{
				SKU:       item.SKU,
				Requested: item.Quantity,
				Available: product.Stock,
			}
		}
	}

	activity.GetLogger(ctx).Info("Inventory check passed", "items", len(items))
	return types.InventoryResult{Status: "success", Items: len(items)}, nil
}

// UpdateInventory decrements stock for each line item. Decrements are
// atomic per item, not across items: a mid-list failure leaves earlier
// decrements committed, which the order's compensation path owns.
func (a *InventoryActivities) UpdateInventory(ctx context.Context, items []types.LineItem) (types.InventoryResult, error) {
	logger := activity.GetLogger(ctx)
	for _, item := range items {
		if err := a.store.DecrementStock(ctx, item.SKU, item.Quantity); err != nil {
			return types.InventoryResult{}, err
		}
		logger.Info("Stock decremented", "sku", item.SKU, "quantity", item.Quantity)
	}
	return types.InventoryResult{Status: "success", Items: len(items)}, nil
}
