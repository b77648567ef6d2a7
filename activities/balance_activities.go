package activities

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/activity"

	"github.com/djb4ai/Temporal-Ecommerce-Test-App/types"
)

// BalanceStore is the slice of storage the balance activities need.
type BalanceStore interface {
	GetBalanceAccount(ctx context.Context, userID string) (types.BalanceAccount, error)
	ApplyBalanceDelta(ctx context.Context, userID string, amount float64, txType, idempotencyKey string) (float64, error)
}

// BalanceActivities reads and mutates user balance accounts.
type BalanceActivities struct {
	store BalanceStore
}

// NewBalanceActivities constructs the balance activity group.
func NewBalanceActivities(store BalanceStore) *BalanceActivities {
	return &BalanceActivities{store: store}
}

// CheckBalance reports whether the user's balance covers the amount.
// It commits nothing.
func (a *BalanceActivities) CheckBalance(ctx context.Context, userID string, amount float64) (types.BalanceCheck, error) {
	acct, err := a.store.GetBalanceAccount(ctx, userID)
	if err != nil {
		return types.BalanceCheck{}, fmt.Errorf("loading balance for user %s: %w", userID, err)
	}

	status := types.BalanceInsufficient
	if acct.Balance >= amount {
		status = types.BalanceSufficient
	}
	activity.GetLogger(ctx).Info("Balance checked", "userID", userID, "balance", acct.Balance, "required", amount, "status", status)

	return types.BalanceCheck{
		Status:         status,
		CurrentBalance: acct.Balance,
		RequiredAmount: amount,
	}, nil
}

// UpdateBalance applies a signed delta to the user's balance and logs
// the transaction. Deltas are deduplicated by idempotency key, and a
// deduction can never drive the balance negative.
func (a *BalanceActivities) UpdateBalance(ctx context.Context, userID string, amount float64, txType, idempotencyKey string) (types.BalanceUpdate, error) {
	newBalance, err := a.store.ApplyBalanceDelta(ctx, userID, amount, txType, idempotencyKey)
	if err != nil {
		return types.BalanceUpdate{}, err
	}

	activity.GetLogger(ctx).Info("Balance updated", "userID", userID, "amount", amount, "type", txType, "newBalance", newBalance)
	return types.BalanceUpdate{
		Status:     "success",
		NewBalance: newBalance,
		Amount:     amount,
		Type:       txType,
	}, nil
}
