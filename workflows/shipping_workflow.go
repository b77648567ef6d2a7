package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/djb4ai/Temporal-Ecommerce-Test-App/types"
)

// Inter-step shipping delays. Durable timers, so a cancelled order
// never leaves a sub-saga stuck sleeping.
const (
	pickupDelay  = 2 * time.Second
	transitDelay = 3 * time.Second
)

// ShippingWorkflow ships a single line item: generate a label, schedule
// a carrier pickup, mark delivered. Each step is retried per the
// default policy; a step that exhausts its retries yields a failed
// result for the item. The sub-saga never compensates itself; whether
// a failed item sinks the whole order is the parent's call.
func ShippingWorkflow(ctx workflow.Context, item types.LineItem) (types.ShippingResult, error) {
	logger := workflow.GetLogger(ctx)
	ctx = workflow.WithActivityOptions(ctx, defaultActivityOptions())

	result := types.ShippingResult{Status: types.ShippingFailed, SKU: item.SKU}

	var tracking string
	if err := workflow.ExecuteActivity(ctx, "GenerateShippingLabel", item).Get(ctx, &tracking); err != nil {
		return failShipment(ctx, result, "generate label", err)
	}
	result.TrackingNumber = tracking
	logger.Info("Shipping label generated", "sku", item.SKU, "trackingNumber", tracking)

	if err := workflow.Sleep(ctx, pickupDelay); err != nil {
		return result, err
	}

	var pickup types.PickupConfirmation
	if err := workflow.ExecuteActivity(ctx, "SchedulePickup", tracking).Get(ctx, &pickup); err != nil {
		return failShipment(ctx, result, "schedule pickup", err)
	}
	result.PickupDate = pickup.PickupDate

	if err := workflow.Sleep(ctx, transitDelay); err != nil {
		return result, err
	}

	var delivery types.DeliveryConfirmation
	if err := workflow.ExecuteActivity(ctx, "MarkDelivered", tracking).Get(ctx, &delivery); err != nil {
		return failShipment(ctx, result, "mark delivered", err)
	}
	result.DeliveryDate = delivery.DeliveryDate
	result.Status = types.ShippingDelivered

	logger.Info("Item delivered", "sku", item.SKU, "trackingNumber", tracking)
	return result, nil
}

// failShipment converts a step failure into a terminal failed result.
// Cancellation is not a step failure and propagates as an error.
func failShipment(ctx workflow.Context, result types.ShippingResult, step string, err error) (types.ShippingResult, error) {
	if temporal.IsCanceledError(err) || ctx.Err() != nil {
		return result, err
	}
	workflow.GetLogger(ctx).Error("Shipping step failed", "sku", result.SKU, "step", step, "error", err)
	result.Error = fmt.Sprintf("%s: %v", step, err)
	return result, nil
}
