package activities

import (
	"context"
	"errors"
	"fmt"

	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"

	"github.com/djb4ai/Temporal-Ecommerce-Test-App/types"
	"github.com/djb4ai/Temporal-Ecommerce-Test-App/workflows"
)

// RewardsStore is the slice of storage the rewards activities need.
type RewardsStore interface {
	AddRewardPoints(ctx context.Context, userID string, points int) (types.RewardsAccount, error)
}

// RewardsSignaler is the slice of the Temporal client used to address
// the per-user accumulator. SignalWithStartWorkflow is the atomic
// create-or-signal primitive: if the accumulator exists the signal is
// delivered to it, otherwise exactly one instance is created and
// signalled, even under concurrent callers for the same user.
type RewardsSignaler interface {
	SignalWithStartWorkflow(ctx context.Context, workflowID, signalName string, signalArg interface{},
		options client.StartWorkflowOptions, workflow interface{}, workflowArgs ...interface{}) (client.WorkflowRun, error)
}

// RewardsActivities credits loyalty points and persists rewards
// accounts.
type RewardsActivities struct {
	store     RewardsStore
	temporal  RewardsSignaler
	taskQueue string
}

// NewRewardsActivities constructs the rewards activity group.
func NewRewardsActivities(store RewardsStore, temporal RewardsSignaler, taskQueue string) *RewardsActivities {
	return &RewardsActivities{store: store, temporal: temporal, taskQueue: taskQueue}
}

// DeliverPoints delivers an add_points signal to the user's
// accumulator, creating it first if this is the user's first order.
func (a *RewardsActivities) DeliverPoints(ctx context.Context, userID string, points int) error {
	logger := activity.GetLogger(ctx)
	workflowID := workflows.RewardsWorkflowID(userID)

	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: a.taskQueue,
		// A gracefully closed accumulator stays closed: a signal to a
		// completed instance must fail rather than silently spawn a
		// replacement.
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE_FAILED_ONLY,
	}
	_, err := a.temporal.SignalWithStartWorkflow(ctx, workflowID, workflows.SignalAddPoints, points,
		options, workflows.CustomerRewardsWorkflow, userID)
	if err != nil {
		var started *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &started) {
			return &types.InstanceClosedError{WorkflowID: workflowID}
		}
		return fmt.Errorf("signalling rewards accumulator %s: %w", workflowID, err)
	}

	logger.Info("Reward points delivered", "userID", userID, "points", points, "workflowID", workflowID)
	return nil
}

// UpdateUserRewards persists a points delta to the user's rewards
// account.
func (a *RewardsActivities) UpdateUserRewards(ctx context.Context, userID string, points int) (types.RewardsAccount, error) {
	account, err := a.store.AddRewardPoints(ctx, userID, points)
	if err != nil {
		return types.RewardsAccount{}, fmt.Errorf("updating rewards for user %s: %w", userID, err)
	}
	activity.GetLogger(ctx).Info("Rewards updated", "userID", userID, "pointsAdded", points, "totalPoints", account.TotalPoints, "tier", account.Tier)
	return account, nil
}
