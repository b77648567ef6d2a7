package types

import "fmt"

// Error type names as they appear in a retry policy's
// NonRetryableErrorTypes list.
const (
	InsufficientStockErrorType = "InsufficientStockError"
	InsufficientFundsErrorType = "InsufficientFundsError"
)

// InsufficientFundsError means the user's balance cannot cover the order
// total. Retrying does not help; the saga fails without compensation.
type InsufficientFundsError struct {
	Required  float64
	Available float64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient balance: required %.2f, available %.2f", e.Required, e.Available)
}

// InsufficientStockError means a line item cannot be fulfilled from
// current stock.
type InsufficientStockError struct {
	SKU       string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for SKU %s: requested %d, available %d", e.SKU, e.Requested, e.Available)
}

// InstanceClosedError means a signal was sent to a rewards accumulator
// that already observed its close event.
type InstanceClosedError struct {
	WorkflowID string
}

func (e *InstanceClosedError) Error() string {
	return fmt.Sprintf("rewards accumulator %s is closed", e.WorkflowID)
}
