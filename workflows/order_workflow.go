package workflows

import (
	"fmt"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/djb4ai/Temporal-Ecommerce-Test-App/types"
)

// OrderWorkflowID returns the deterministic workflow ID for an order.
func OrderWorkflowID(orderID string) string {
	return "order_" + orderID
}

// orderState is the coordinator's view of one order as it moves through
// the saga. The commit flags drive failure classification.
type orderState struct {
	req   types.OrderRequest
	total float64

	status             types.OrderStatus
	paymentCommitted   bool
	inventoryCommitted bool

	payment   *types.PaymentResult
	inventory *types.InventoryResult
	shipping  []types.ShippingResult
	points    int
	lastError string
}

// stepKey derives the idempotency key for a side-effecting step.
func (st *orderState) stepKey(step string) string {
	return st.req.OrderID + ":" + step
}

func (st *orderState) progress() types.OrderProgress {
	return types.OrderProgress{
		OrderID:            st.req.OrderID,
		Status:             st.status,
		PaymentCommitted:   st.paymentCommitted,
		InventoryCommitted: st.inventoryCommitted,
		Shipping:           st.shipping,
		LastError:          st.lastError,
	}
}

// OrderWorkflow drives an order through balance check, payment,
// inventory, per-item shipping and rewards crediting. Every failure
// path runs the compensation plan for its stage and returns a
// structured failed result; once compensation has been attempted the
// workflow never propagates the failure as an error.
func OrderWorkflow(ctx workflow.Context, req types.OrderRequest) (types.OrderResult, error) {
	logger := workflow.GetLogger(ctx)
	ctx = workflow.WithActivityOptions(ctx, defaultActivityOptions())

	st := &orderState{req: req, total: req.Total(), status: types.StatusInitiated}

	if err := workflow.SetQueryHandler(ctx, QueryGetStatus, func() (types.OrderProgress, error) {
		return st.progress(), nil
	}); err != nil {
		return types.OrderResult{}, err
	}

	logger.Info("Order workflow started", "orderID", req.OrderID, "userID", req.UserID, "total", st.total)

	err := processOrder(ctx, st)
	if err == nil {
		logger.Info("Order completed", "orderID", req.OrderID)
		return types.OrderResult{
			OrderID:   req.OrderID,
			Status:    types.StatusCompleted,
			Payment:   st.payment,
			Inventory: st.inventory,
			Shipping:  st.shipping,
			Points:    st.points,
		}, nil
	}

	st.lastError = err.Error()

	// A cancelled saga compensates like any other late failure; the
	// reversing activities run on a disconnected context so they are
	// not themselves cancelled.
	compCtx := ctx
	if temporal.IsCanceledError(err) || ctx.Err() != nil {
		var cancel workflow.CancelFunc
		compCtx, cancel = workflow.NewDisconnectedContext(ctx)
		defer cancel()
	}

	return compensate(compCtx, st, err), nil
}

// processOrder runs the happy path. It returns the first error left
// standing after per-step retries; the caller owns compensation.
func processOrder(ctx workflow.Context, st *orderState) error {
	logger := workflow.GetLogger(ctx)
	req := st.req

	if err := setOrderStatus(ctx, st, types.StatusProcessing, nil); err != nil {
		return err
	}

	// Balance check. Nothing is committed yet, so a shortfall fails the
	// order outright.
	var check types.BalanceCheck
	if err := workflow.ExecuteActivity(ctx, "CheckBalance", req.UserID, st.total).Get(ctx, &check); err != nil {
		return fmt.Errorf("balance check failed: %w", err)
	}
	if !check.Sufficient() {
		return &types.InsufficientFundsError{Required: st.total, Available: check.CurrentBalance}
	}
	if err := setOrderStatus(ctx, st, types.StatusBalanceChecked, nil); err != nil {
		return err
	}

	// Payment. The charge and the balance deduction form one committed
	// unit: once the charge succeeds, any later failure entitles the
	// customer to a refund.
	payCtx := workflow.WithActivityOptions(ctx, paymentActivityOptions())
	var payment types.PaymentResult
	err := workflow.ExecuteActivity(payCtx, "ProcessPayment",
		req.UserID, req.OrderID, st.stepKey("process_payment"), st.total).Get(payCtx, &payment)
	if err != nil {
		return fmt.Errorf("payment processing failed: %w", err)
	}
	st.payment = &payment
	st.paymentCommitted = true

	var deduction types.BalanceUpdate
	err = workflow.ExecuteActivity(ctx, "UpdateBalance",
		req.UserID, -st.total, "payment", st.stepKey("deduct_balance")).Get(ctx, &deduction)
	if err != nil {
		if temporal.IsCanceledError(err) {
			return err
		}
		// The charge is confirmed; a deduction that cannot be confirmed
		// is reported but does not block the order.
		logger.Error("Balance deduction unconfirmed after payment", "orderID", req.OrderID, "error", err)
	}

	if err := setOrderStatus(ctx, st, types.StatusPaymentProcessed, map[string]any{
		"transaction_id": payment.TransactionID,
		"amount":         payment.Amount,
	}); err != nil {
		return err
	}

	// Inventory.
	var inv types.InventoryResult
	if err := workflow.ExecuteActivity(ctx, "CheckInventory", req.Items).Get(ctx, &inv); err != nil {
		return fmt.Errorf("inventory check failed: %w", err)
	}
	st.inventory = &inv
	if err := setOrderStatus(ctx, st, types.StatusInventoryChecked, map[string]any{
		"items_checked": inv.Items,
	}); err != nil {
		return err
	}

	if err := workflow.ExecuteActivity(ctx, "UpdateInventory", req.Items).Get(ctx, nil); err != nil {
		return fmt.Errorf("inventory update failed: %w", err)
	}
	st.inventoryCommitted = true
	if err := setOrderStatus(ctx, st, types.StatusInventoryUpdated, nil); err != nil {
		return err
	}

	// Shipping: one sub-saga per line item, joined on all results.
	if err := setOrderStatus(ctx, st, types.StatusShipping, nil); err != nil {
		return err
	}
	results, err := shipItems(ctx, st)
	st.shipping = results
	if err != nil {
		return err
	}
	if err := setOrderStatus(ctx, st, types.StatusShipped, map[string]any{
		"shipments": len(results),
	}); err != nil {
		return err
	}

	err = workflow.ExecuteActivity(ctx, "SendNotification", req.UserID, req.OrderID, "order_shipped").Get(ctx, nil)
	if err != nil {
		if temporal.IsCanceledError(err) {
			return err
		}
		logger.Warn("Shipped notification failed", "orderID", req.OrderID, "error", err)
	}

	// Rewards crediting must never fail the order.
	st.points = req.Points()
	err = workflow.ExecuteActivity(ctx, "DeliverPoints", req.UserID, st.points).Get(ctx, nil)
	if err != nil {
		if temporal.IsCanceledError(err) {
			return err
		}
		logger.Error("Failed to credit reward points", "orderID", req.OrderID, "points", st.points, "error", err)
		st.points = 0
	} else if err := setOrderStatus(ctx, st, types.StatusRewardsAdded, map[string]any{
		"points_added": st.points,
	}); err != nil {
		return err
	}

	return setOrderStatus(ctx, st, types.StatusCompleted, nil)
}

// shipItems fans out one shipping sub-saga per line item and joins on
// all of them: every item gets a terminal result before the order
// decides anything.
func shipItems(ctx workflow.Context, st *orderState) ([]types.ShippingResult, error) {
	req := st.req

	futures := make([]workflow.ChildWorkflowFuture, 0, len(req.Items))
	for _, item := range req.Items {
		cctx := workflow.WithChildOptions(ctx, workflow.ChildWorkflowOptions{
			WorkflowID: fmt.Sprintf("shipping_%s_%s", req.OrderID, item.SKU),
		})
		futures = append(futures, workflow.ExecuteChildWorkflow(cctx, ShippingWorkflow, item))
	}

	results := make([]types.ShippingResult, 0, len(futures))
	var failed int
	var cancelErr error
	for i, f := range futures {
		var res types.ShippingResult
		if err := f.Get(ctx, &res); err != nil {
			if cancelErr == nil && temporal.IsCanceledError(err) {
				cancelErr = err
			}
			res = types.ShippingResult{
				Status: types.ShippingFailed,
				SKU:    req.Items[i].SKU,
				Error:  err.Error(),
			}
		}
		if res.Status != types.ShippingDelivered {
			failed++
		}
		results = append(results, res)
	}

	if cancelErr != nil {
		return results, cancelErr
	}
	if failed > 0 {
		return results, fmt.Errorf("shipping failed for %d of %d items", failed, len(results))
	}
	return results, nil
}

// compensate classifies the failure, executes the stage's plan, records
// every action outcome, and marks the order failed. It always returns a
// terminal result.
func compensate(ctx workflow.Context, st *orderState, cause error) types.OrderResult {
	logger := workflow.GetLogger(ctx)
	req := st.req

	stage := classifyFailure(st.paymentCommitted, st.inventoryCommitted)
	plan := planCompensation(stage)
	logger.Info("Compensating failed order", "orderID", req.OrderID, "stage", stage, "actions", len(plan), "cause", cause)

	record := types.CompensationRecord{
		OrderID:   req.OrderID,
		Reason:    cause.Error(),
		CreatedAt: workflow.Now(ctx),
	}
	for _, action := range plan {
		outcome := types.CompensationOutcome{Action: action, Status: types.CompensationSuccess}
		var err error
		switch action {
		case types.ActionRefundPayment:
			err = workflow.ExecuteActivity(ctx, "RefundPayment",
				req.UserID, req.OrderID, st.stepKey("refund_payment")).Get(ctx, nil)
		case types.ActionRestoreBalance:
			err = workflow.ExecuteActivity(ctx, "UpdateBalance",
				req.UserID, st.total, "refund", st.stepKey("restore_balance")).Get(ctx, nil)
		}
		if err != nil {
			outcome.Status = types.CompensationError
			outcome.Error = err.Error()
			logger.Error("Compensating action failed", "orderID", req.OrderID, "action", action, "error", err)
		}
		record.Actions = append(record.Actions, outcome)
	}

	if err := workflow.ExecuteActivity(ctx, "RecordCompensation", record).Get(ctx, nil); err != nil {
		logger.Error("Failed to persist compensation record", "orderID", req.OrderID, "error", err)
	}

	detail := map[string]any{
		"stage":               string(stage),
		"cause":               cause.Error(),
		"compensation_status": record.Status(),
	}
	if err := setOrderStatus(ctx, st, types.StatusFailed, detail); err != nil {
		logger.Error("Failed to record failed order status", "orderID", req.OrderID, "error", err)
		st.status = types.StatusFailed
	}

	return types.OrderResult{
		OrderID:   req.OrderID,
		Status:    types.StatusFailed,
		Payment:   st.payment,
		Inventory: st.inventory,
		Shipping:  st.shipping,
		Failure: &types.FailureDetail{
			Stage:              stage,
			Cause:              cause.Error(),
			CompensationStatus: record.Status(),
			Actions:            record.Actions,
		},
	}
}

// setOrderStatus persists a status transition and mirrors it into the
// query snapshot.
func setOrderStatus(ctx workflow.Context, st *orderState, status types.OrderStatus, detail map[string]any) error {
	if err := workflow.ExecuteActivity(ctx, "UpdateOrderStatus", st.req.OrderID, status, detail).Get(ctx, nil); err != nil {
		return fmt.Errorf("updating order status to %s: %w", status, err)
	}
	st.status = status
	return nil
}
