package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("not found")

// ErrInsufficientFunds is returned when a deduction would drive a
// balance negative.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Store is the Mongo document layer behind the activities and the HTTP
// read paths. It holds no saga logic: every method is a single guarded
// document operation.
type Store struct {
	orders        *mongo.Collection
	inventory     *mongo.Collection
	balances      *mongo.Collection
	rewards       *mongo.Collection
	compensations *mongo.Collection
}

// Connect dials Mongo and returns the store plus a cleanup function.
func Connect(ctx context.Context, uri, database string) (*Store, func(), error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("pinging mongo: %w", err)
	}

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}
	return New(client.Database(database)), cleanup, nil
}

// New builds a Store over an existing database handle.
func New(db *mongo.Database) *Store {
	return &Store{
		orders:        db.Collection("orders"),
		inventory:     db.Collection("inventory"),
		balances:      db.Collection("balances"),
		rewards:       db.Collection("rewards"),
		compensations: db.Collection("compensations"),
	}
}

// Reset drops all collections. Used by seeding and test environments.
func (s *Store) Reset(ctx context.Context) error {
	for _, c := range []*mongo.Collection{s.orders, s.inventory, s.balances, s.rewards, s.compensations} {
		if err := c.Drop(ctx); err != nil {
			return fmt.Errorf("dropping %s: %w", c.Name(), err)
		}
	}
	return nil
}
