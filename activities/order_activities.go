package activities

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/activity"

	"github.com/djb4ai/Temporal-Ecommerce-Test-App/types"
)

// OrderStore is the slice of storage the order activities need.
type OrderStore interface {
	UpdateOrderStatus(ctx context.Context, orderID string, status types.OrderStatus, detail map[string]any) error
	RecordCompensation(ctx context.Context, record types.CompensationRecord) error
}

// OrderActivities persists order lifecycle transitions.
type OrderActivities struct {
	store OrderStore
}

// NewOrderActivities constructs the order activity group.
func NewOrderActivities(store OrderStore) *OrderActivities {
	return &OrderActivities{store: store}
}

// UpdateOrderStatus appends a status transition to the order document.
func (a *OrderActivities) UpdateOrderStatus(ctx context.Context, orderID string, status types.OrderStatus, detail map[string]any) error {
	if err := a.store.UpdateOrderStatus(ctx, orderID, status, detail); err != nil {
		return fmt.Errorf("updating order %s to %s: %w", orderID, status, err)
	}
	activity.GetLogger(ctx).Info("Order status updated", "orderID", orderID, "status", status)
	return nil
}

// RecordCompensation persists the failure path's compensation record.
func (a *OrderActivities) RecordCompensation(ctx context.Context, record types.CompensationRecord) error {
	if err := a.store.RecordCompensation(ctx, record); err != nil {
		return fmt.Errorf("recording compensation for order %s: %w", record.OrderID, err)
	}
	activity.GetLogger(ctx).Info("Compensation recorded", "orderID", record.OrderID, "actions", len(record.Actions), "status", record.Status())
	return nil
}
