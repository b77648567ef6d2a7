package workflows

import (
	"fmt"

	"go.temporal.io/sdk/workflow"

	"github.com/djb4ai/Temporal-Ecommerce-Test-App/types"
)

// Rewards accumulator protocol.
const (
	SignalAddPoints = "add_points"
	SignalClose     = "close"
)

// RewardsWorkflowID returns the deterministic workflow ID addressing a
// user's rewards accumulator. Creation under this ID is idempotent, so
// two orders racing to create the same user's accumulator converge on a
// single instance.
func RewardsWorkflowID(userID string) string {
	return "rewards_" + userID
}

// CustomerRewardsWorkflow is the long-lived per-user points
// accumulator. Its lifecycle is independent of any single order: it
// applies add_points signals strictly one at a time, answers get_status
// queries from its locally applied state, and on close drains whatever
// is already queued before returning its final state.
func CustomerRewardsWorkflow(ctx workflow.Context, userID string) (types.RewardsStatus, error) {
	logger := workflow.GetLogger(ctx)
	ctx = workflow.WithActivityOptions(ctx, defaultActivityOptions())

	status := types.RewardsStatus{Tier: types.TierBasic}

	if err := workflow.SetQueryHandler(ctx, QueryGetStatus, func() (types.RewardsStatus, error) {
		return status, nil
	}); err != nil {
		return status, err
	}

	addCh := workflow.GetSignalChannel(ctx, SignalAddPoints)
	closeCh := workflow.GetSignalChannel(ctx, SignalClose)

	logger.Info("Rewards accumulator started", "userID", userID)

	// Open: process events one at a time until a close event is
	// observed.
	closing := false
	for !closing {
		selector := workflow.NewSelector(ctx)
		selector.AddReceive(addCh, func(ch workflow.ReceiveChannel, more bool) {
			var points int
			ch.Receive(ctx, &points)
			applyPoints(ctx, userID, &status, points)
		})
		selector.AddReceive(closeCh, func(ch workflow.ReceiveChannel, more bool) {
			ch.Receive(ctx, nil)
			closing = true
		})
		selector.Select(ctx)
	}

	// Closing: drain signals that were delivered before the close, then
	// stop. Signals sent after the run returns fail at the sender.
	var points int
	for addCh.ReceiveAsync(&points) {
		applyPoints(ctx, userID, &status, points)
	}

	logger.Info("Rewards accumulator closed", "userID", userID, "points", status.Points, "tier", status.Tier)
	return status, nil
}

// applyPoints mutates the accumulator, persists the delta, and sends a
// best-effort notification reporting the state after the mutation.
// Neither the persistence nor the notification failing loses the local
// update.
func applyPoints(ctx workflow.Context, userID string, status *types.RewardsStatus, points int) {
	logger := workflow.GetLogger(ctx)
	if points <= 0 {
		logger.Warn("Ignoring non-positive points signal", "userID", userID, "points", points)
		return
	}

	status.Points += points
	status.Tier = types.TierForPoints(status.Points)

	if err := workflow.ExecuteActivity(ctx, "UpdateUserRewards", userID, points).Get(ctx, nil); err != nil {
		logger.Error("Failed to persist rewards update", "userID", userID, "error", err)
	}

	detail := fmt.Sprintf("Added %d points. New total: %d. Tier: %s", points, status.Points, status.Tier)
	if err := workflow.ExecuteActivity(ctx, "SendNotification", userID, "", "rewards_updated: "+detail).Get(ctx, nil); err != nil {
		logger.Warn("Rewards notification failed", "userID", userID, "error", err)
	}
}
