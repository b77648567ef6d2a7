package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/djb4ai/Temporal-Ecommerce-Test-App/types"
)

// CreateOrder inserts a new order document.
func (s *Store) CreateOrder(ctx context.Context, order types.Order) error {
	if _, err := s.orders.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("inserting order %s: %w", order.OrderID, err)
	}
	return nil
}

// GetOrder loads a single order by ID.
func (s *Store) GetOrder(ctx context.Context, orderID string) (types.Order, error) {
	var order types.Order
	err := s.orders.FindOne(ctx, bson.M{"order_id": orderID}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return types.Order{}, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	if err != nil {
		return types.Order{}, fmt.Errorf("loading order %s: %w", orderID, err)
	}
	return order, nil
}

// ListOrders returns all orders, newest first.
func (s *Store) ListOrders(ctx context.Context) ([]types.Order, error) {
	cursor, err := s.orders.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	var orders []types.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decoding orders: %w", err)
	}
	return orders, nil
}

// UpdateOrderStatus sets the current status and appends the transition
// to the status history in one update.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID string, status types.OrderStatus, detail map[string]any) error {
	change := types.StatusChange{Status: status, Timestamp: time.Now().UTC(), Detail: detail}
	res, err := s.orders.UpdateOne(ctx,
		bson.M{"order_id": orderID},
		bson.M{
			"$set":  bson.M{"status": status, "updated_at": change.Timestamp},
			"$push": bson.M{"status_history": change},
		},
	)
	if err != nil {
		return fmt.Errorf("updating order %s: %w", orderID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	return nil
}

// RecordCompensation appends a compensation record for a failed order.
func (s *Store) RecordCompensation(ctx context.Context, record types.CompensationRecord) error {
	if _, err := s.compensations.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("inserting compensation record for order %s: %w", record.OrderID, err)
	}
	return nil
}
