package types

import "time"

// RewardTier is a loyalty tier. Tiers are a pure function of total
// points and are never stored independently of them.
type RewardTier string

const (
	TierBasic    RewardTier = "basic"
	TierSilver   RewardTier = "silver"
	TierGold     RewardTier = "gold"
	TierPlatinum RewardTier = "platinum"
)

// TierForPoints maps a cumulative point total to its tier. Thresholds
// are inclusive lower bounds checked in descending order.
func TierForPoints(points int) RewardTier {
	switch {
	case points >= 1000:
		return TierPlatinum
	case points >= 500:
		return TierGold
	case points >= 100:
		return TierSilver
	default:
		return TierBasic
	}
}

// RewardsStatus is the accumulator's queryable state.
type RewardsStatus struct {
	Points int        `json:"points"`
	Tier   RewardTier `json:"tier"`
}

// PointsEntry is one entry in a rewards account's history.
type PointsEntry struct {
	Points    int       `bson:"points" json:"points"`
	Type      string    `bson:"type" json:"type"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// RewardsAccount is the stored rewards document for a user.
type RewardsAccount struct {
	UserID      string       `bson:"user_id" json:"user_id"`
	TotalPoints int          `bson:"total_points" json:"total_points"`
	Tier        RewardTier   `bson:"tier" json:"tier"`
	History     []PointsEntry `bson:"points_history" json:"points_history"`
}
