package types

import "time"

// FailureStage classifies where an order saga failed relative to its
// commit points. The stage alone decides the compensation plan.
type FailureStage string

const (
	// StageBalanceOrPayment covers failures at or before payment
	// confirmation. Nothing external was committed.
	StageBalanceOrPayment FailureStage = "balance_or_payment"
	// StageInventory covers failures during inventory check/update,
	// after payment was committed.
	StageInventory FailureStage = "inventory"
	// StageOther covers shipping and any later failure, after both
	// payment and inventory were committed.
	StageOther FailureStage = "other"
)

// CompensationAction is a single reversing step.
type CompensationAction string

const (
	ActionRefundPayment  CompensationAction = "refund_payment"
	ActionRestoreBalance CompensationAction = "restore_balance"
)

// Compensation action and aggregate outcomes.
const (
	CompensationSuccess   = "success"
	CompensationError     = "error"
	CompensationNone      = "none"
	CompensationCompleted = "completed"
	CompensationPartial   = "partial"
)

// CompensationOutcome records the result of one compensating action.
// Actions are recorded independently: one failing never suppresses the
// record of the next.
type CompensationOutcome struct {
	Action CompensationAction `json:"action"`
	Status string             `json:"status"`
	Error  string             `json:"error,omitempty"`
}

// CompensationRecord is the append-only record of a failure path.
type CompensationRecord struct {
	OrderID   string                `bson:"order_id" json:"order_id"`
	Reason    string                `bson:"reason" json:"reason"`
	Actions   []CompensationOutcome `bson:"actions_taken" json:"actions_taken"`
	CreatedAt time.Time             `bson:"created_at" json:"created_at"`
}

// Status aggregates the record's action outcomes: none when the plan was
// empty, completed when every action succeeded, partial otherwise.
func (r CompensationRecord) Status() string {
	if len(r.Actions) == 0 {
		return CompensationNone
	}
	for _, a := range r.Actions {
		if a.Status != CompensationSuccess {
			return CompensationPartial
		}
	}
	return CompensationCompleted
}

// FailureDetail is the structured reason attached to a failed order.
type FailureDetail struct {
	Stage              FailureStage          `json:"stage"`
	Cause              string                `json:"cause"`
	CompensationStatus string                `json:"compensation_status"`
	Actions            []CompensationOutcome `json:"actions,omitempty"`
}
