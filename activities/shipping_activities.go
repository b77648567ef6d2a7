package activities

import (
	"context"
	"strings"
	"time"

	"go.temporal.io/sdk/activity"

	"github.com/djb4ai/Temporal-Ecommerce-Test-App/types"
)

// ShippingActivities fronts the carrier integration. Labels, pickups
// and deliveries are simulated in-process.
type ShippingActivities struct {
	now func() time.Time
}

// NewShippingActivities constructs the shipping activity group.
func NewShippingActivities() *ShippingActivities {
	return &ShippingActivities{now: time.Now}
}

// GenerateShippingLabel creates a label for the item and returns its
// tracking number.
func (a *ShippingActivities) GenerateShippingLabel(ctx context.Context, item types.LineItem) (string, error) {
	tracking := "TRK-" + strings.ToUpper(shortID())
	activity.GetLogger(ctx).Info("Shipping label generated", "sku", item.SKU, "quantity", item.Quantity, "trackingNumber", tracking)
	return tracking, nil
}

// SchedulePickup books a carrier pickup for the label.
func (a *ShippingActivities) SchedulePickup(ctx context.Context, trackingNumber string) (types.PickupConfirmation, error) {
	confirmation := types.PickupConfirmation{
		Status:         "scheduled",
		TrackingNumber: trackingNumber,
		PickupDate:     a.now().AddDate(0, 0, 1).Format("2006-01-02"),
	}
	activity.GetLogger(ctx).Info("Pickup scheduled", "trackingNumber", trackingNumber, "pickupDate", confirmation.PickupDate)
	return confirmation, nil
}

// MarkDelivered records the shipment as delivered.
func (a *ShippingActivities) MarkDelivered(ctx context.Context, trackingNumber string) (types.DeliveryConfirmation, error) {
	confirmation := types.DeliveryConfirmation{
		Status:         "delivered",
		TrackingNumber: trackingNumber,
		DeliveryDate:   a.now().AddDate(0, 0, 3).Format("2006-01-02"),
	}
	activity.GetLogger(ctx).Info("Shipment delivered", "trackingNumber", trackingNumber, "deliveryDate", confirmation.DeliveryDate)
	return confirmation, nil
}
