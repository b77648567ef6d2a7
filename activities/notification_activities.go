package activities

import (
	"context"

	"go.temporal.io/sdk/activity"
)

// NotificationActivities is a fire-and-forget messaging sink. Delivery
// is logged; nothing on the correctness path depends on it.
type NotificationActivities struct{}

// NewNotificationActivities constructs the notification activity group.
func NewNotificationActivities() *NotificationActivities {
	return &NotificationActivities{}
}

// SendNotification records a notification for the user. A real
// deployment would hand this to an email/SMS provider.
func (a *NotificationActivities) SendNotification(ctx context.Context, userID, orderID, notificationType string) error {
	activity.GetLogger(ctx).Info("Notification sent", "userID", userID, "orderID", orderID, "type", notificationType)
	return nil
}
