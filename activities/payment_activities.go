package activities

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"

	"github.com/djb4ai/Temporal-Ecommerce-Test-App/types"
)

// PaymentActivities fronts the payment gateway. The gateway is
// simulated in-process; charges and refunds are deduplicated by the
// caller-supplied idempotency key, so at-least-once invocation settles
// each key at most once.
type PaymentActivities struct {
	mu      sync.Mutex
	charges map[string]types.PaymentResult
	refunds map[string]types.RefundResult
}

// NewPaymentActivities constructs the payment activity group.
func NewPaymentActivities() *PaymentActivities {
	return &PaymentActivities{
		charges: make(map[string]types.PaymentResult),
		refunds: make(map[string]types.RefundResult),
	}
}

// ProcessPayment charges the order total against the user's payment
// instrument.
func (a *PaymentActivities) ProcessPayment(ctx context.Context, userID, orderID, idempotencyKey string, amount float64) (types.PaymentResult, error) {
	logger := activity.GetLogger(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	if prev, ok := a.charges[idempotencyKey]; ok {
		logger.Info("Charge already settled", "orderID", orderID, "key", idempotencyKey)
		return prev, nil
	}

	result := types.PaymentResult{
		Status:        "success",
		Amount:        amount,
		TransactionID: fmt.Sprintf("txn_%s_%s", orderID, shortID()),
	}
	a.charges[idempotencyKey] = result

	logger.Info("Payment processed", "orderID", orderID, "userID", userID, "amount", amount, "transactionID", result.TransactionID)
	return result, nil
}

// RefundPayment reverses an order's charge (compensation).
func (a *PaymentActivities) RefundPayment(ctx context.Context, userID, orderID, idempotencyKey string) (types.RefundResult, error) {
	logger := activity.GetLogger(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	if prev, ok := a.refunds[idempotencyKey]; ok {
		logger.Info("Refund already settled", "orderID", orderID, "key", idempotencyKey)
		return prev, nil
	}

	result := types.RefundResult{Status: "refunded", OrderID: orderID}
	a.refunds[idempotencyKey] = result

	logger.Info("Payment refunded", "orderID", orderID, "userID", userID)
	return result, nil
}

// Charged reports the settled charge for an idempotency key, for
// inspection.
func (a *PaymentActivities) Charged(idempotencyKey string) (types.PaymentResult, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	result, ok := a.charges[idempotencyKey]
	return result, ok
}

// Refunded reports whether a refund settled for the key, for
// inspection.
func (a *PaymentActivities) Refunded(idempotencyKey string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.refunds[idempotencyKey]
	return ok
}

func shortID() string {
	return strings.Split(uuid.NewString(), "-")[0]
}
