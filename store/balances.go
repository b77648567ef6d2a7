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

// GetBalanceAccount loads a user's balance document.
func (s *Store) GetBalanceAccount(ctx context.Context, userID string) (types.BalanceAccount, error) {
	var account types.BalanceAccount
	err := s.balances.FindOne(ctx, bson.M{"user_id": userID}).Decode(&account)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return types.BalanceAccount{}, fmt.Errorf("balance account %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return types.BalanceAccount{}, fmt.Errorf("loading balance account %s: %w", userID, err)
	}
	return account, nil
}

// ApplyBalanceDelta applies a signed amount to a user's balance and
// appends the transaction, all in one guarded update. The idempotency
// key makes retried deliveries a no-op: a key already present in the
// transaction log matches nothing, and the stored balance is returned
// unchanged. Deductions are additionally guarded against overdraw.
func (s *Store) ApplyBalanceDelta(ctx context.Context, userID string, amount float64, txType, idempotencyKey string) (float64, error) {
	filter := bson.M{
		"user_id":          userID,
		"transactions.key": bson.M{"$ne": idempotencyKey},
	}
	if amount < 0 {
		filter["balance"] = bson.M{"$gte": -amount}
	}
	update := bson.M{
		"$inc": bson.M{"balance": amount},
		"$push": bson.M{"transactions": types.Transaction{
			Amount:    amount,
			Type:      txType,
			Key:       idempotencyKey,
			Timestamp: time.Now().UTC(),
		}},
	}

	var account types.BalanceAccount
	err := s.balances.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&account)
	if err == nil {
		return account.Balance, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, fmt.Errorf("applying balance delta for %s: %w", userID, err)
	}

	// No match: the account is missing, the key was already applied,
	// or the deduction would overdraw. Disambiguate with a read.
	existing, lookupErr := s.GetBalanceAccount(ctx, userID)
	if lookupErr != nil {
		return 0, lookupErr
	}
	for _, tx := range existing.Transactions {
		if tx.Key == idempotencyKey {
			return existing.Balance, nil
		}
	}
	return 0, fmt.Errorf("balance %.2f below %.2f for %s: %w", existing.Balance, -amount, userID, ErrInsufficientFunds)
}

// InitBalance creates or replaces a user's balance account with an
// initial deposit.
func (s *Store) InitBalance(ctx context.Context, userID string, amount float64) error {
	account := types.BalanceAccount{
		UserID:  userID,
		Balance: amount,
		Transactions: []types.Transaction{{
			Amount:    amount,
			Type:      "initial_deposit",
			Timestamp: time.Now().UTC(),
		}},
	}
	_, err := s.balances.ReplaceOne(ctx,
		bson.M{"user_id": userID},
		account,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("initializing balance for %s: %w", userID, err)
	}
	return nil
}
