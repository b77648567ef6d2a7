package workflows

import "github.com/djb4ai/Temporal-Ecommerce-Test-App/types"

// classifyFailure maps the saga's commit points at the moment of
// failure to a compensation stage. What was committed decides what must
// be undone, not the shape of the triggering error.
func classifyFailure(paymentCommitted, inventoryCommitted bool) types.FailureStage {
	switch {
	case !paymentCommitted:
		return types.StageBalanceOrPayment
	case !inventoryCommitted:
		return types.StageInventory
	default:
		return types.StageOther
	}
}

// planCompensation returns the ordered compensating actions for a
// stage. Before payment confirmation nothing external was committed,
// so the plan is empty. Once payment committed, the customer is owed a
// full refund no matter how much further the saga got: refund the
// charge, then restore the balance. Each action is attempted and
// recorded independently of the other's outcome.
//
// Inventory already decremented is not restocked here.
func planCompensation(stage types.FailureStage) []types.CompensationAction {
	if stage == types.StageBalanceOrPayment {
		return nil
	}
	return []types.CompensationAction{
		types.ActionRefundPayment,
		types.ActionRestoreBalance,
	}
}
