package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierForPoints(t *testing.T) {
	cases := []struct {
		points int
		want   RewardTier
	}{
		{0, TierBasic},
		{99, TierBasic},
		{100, TierSilver},
		{499, TierSilver},
		{500, TierGold},
		{999, TierGold},
		{1000, TierPlatinum},
		{5000, TierPlatinum},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TierForPoints(tc.points), "points=%d", tc.points)
	}
}

func TestTierForPointsNeverRegresses(t *testing.T) {
	rank := map[RewardTier]int{TierBasic: 0, TierSilver: 1, TierGold: 2, TierPlatinum: 3}

	prev := TierForPoints(0)
	for points := 1; points <= 1200; points++ {
		tier := TierForPoints(points)
		assert.GreaterOrEqual(t, rank[tier], rank[prev], "points=%d", points)
		prev = tier
	}
}

func TestOrderRequestTotalAndPoints(t *testing.T) {
	req := OrderRequest{Items: []LineItem{
		{SKU: "PROD001", Quantity: 2, UnitPrice: 10.50},
		{SKU: "PROD002", Quantity: 1, UnitPrice: 5.25},
	}}

	assert.InDelta(t, 26.25, req.Total(), 1e-9)
	assert.Equal(t, 26, req.Points())
}

func TestOrderRequestPointsEmptyOrder(t *testing.T) {
	assert.Equal(t, 0, OrderRequest{}.Points())
}

func TestCompensationRecordStatus(t *testing.T) {
	cases := []struct {
		name    string
		actions []CompensationOutcome
		want    string
	}{
		{"no actions", nil, CompensationNone},
		{"all succeeded", []CompensationOutcome{
			{Action: ActionRefundPayment, Status: CompensationSuccess},
			{Action: ActionRestoreBalance, Status: CompensationSuccess},
		}, CompensationCompleted},
		{"one failed", []CompensationOutcome{
			{Action: ActionRefundPayment, Status: CompensationSuccess},
			{Action: ActionRestoreBalance, Status: CompensationError, Error: "timeout"},
		}, CompensationPartial},
		{"all failed", []CompensationOutcome{
			{Action: ActionRefundPayment, Status: CompensationError, Error: "timeout"},
		}, CompensationPartial},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			record := CompensationRecord{OrderID: "o1", Actions: tc.actions}
			assert.Equal(t, tc.want, record.Status())
		})
	}
}

func TestBalanceCheckSufficient(t *testing.T) {
	assert.True(t, BalanceCheck{Status: BalanceSufficient}.Sufficient())
	assert.False(t, BalanceCheck{Status: BalanceInsufficient}.Sufficient())
}
