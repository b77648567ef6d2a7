package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/djb4ai/Temporal-Ecommerce-Test-App/types"
)

// AddRewardPoints increments a user's point total, appends the history
// entry and recomputes the tier. The account is created on first use.
func (s *Store) AddRewardPoints(ctx context.Context, userID string, points int) (types.RewardsAccount, error) {
	entry := types.PointsEntry{Points: points, Type: "order_reward", Timestamp: time.Now().UTC()}
	update := bson.M{
		"$inc":         bson.M{"total_points": points},
		"$push":        bson.M{"points_history": entry},
		"$setOnInsert": bson.M{"user_id": userID},
	}

	var account types.RewardsAccount
	err := s.rewards.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID},
		update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&account)
	if err != nil {
		return types.RewardsAccount{}, fmt.Errorf("adding reward points for %s: %w", userID, err)
	}

	tier := types.TierForPoints(account.TotalPoints)
	if account.Tier != tier {
		if _, err := s.rewards.UpdateOne(ctx,
			bson.M{"user_id": userID},
			bson.M{"$set": bson.M{"tier": tier}},
		); err != nil {
			return types.RewardsAccount{}, fmt.Errorf("updating tier for %s: %w", userID, err)
		}
		account.Tier = tier
	}
	return account, nil
}
