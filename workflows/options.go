package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/djb4ai/Temporal-Ecommerce-Test-App/types"
)

// QueryGetStatus is the query name answered by both the order workflow
// and the rewards accumulator.
const QueryGetStatus = "get_status"

// defaultRetryPolicy is applied per step: attempt immediately, then
// back off exponentially from 1s up to 10s, for at most 3 attempts
// total. Validation-class failures are not retried at all.
func defaultRetryPolicy() *temporal.RetryPolicy {
	return &temporal.RetryPolicy{
		InitialInterval:    time.Second,
		BackoffCoefficient: 2.0,
		MaximumInterval:    10 * time.Second,
		MaximumAttempts:    3,
		NonRetryableErrorTypes: []string{
			types.InsufficientStockErrorType,
			types.InsufficientFundsErrorType,
		},
	}
}

func defaultActivityOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		ScheduleToCloseTimeout: 5 * time.Second,
		RetryPolicy:            defaultRetryPolicy(),
	}
}

// paymentActivityOptions gives the charge a longer total deadline than
// the other steps.
func paymentActivityOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		ScheduleToCloseTimeout: 10 * time.Second,
		RetryPolicy:            defaultRetryPolicy(),
	}
}
