package workflows_test

import (
	"context"
	"fmt"
	"sync"

	"go.temporal.io/sdk/client"

	"github.com/djb4ai/Temporal-Ecommerce-Test-App/types"
)

// fakeStore is an in-memory stand-in for the document store, shared by
// all activity groups in workflow tests.
type fakeStore struct {
	mu sync.Mutex

	balance       float64
	appliedKeys   map[string]float64
	products      map[string]*types.Product
	statuses      []types.OrderStatus
	compensations []types.CompensationRecord
	rewardPoints  map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		appliedKeys:  make(map[string]float64),
		products:     make(map[string]*types.Product),
		rewardPoints: make(map[string]int),
	}
}

func (f *fakeStore) addProduct(p types.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := p
	f.products[p.SKU] = &copied
}

func (f *fakeStore) stockOf(sku string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[sku].Stock
}

func (f *fakeStore) currentBalance() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balance
}

func (f *fakeStore) lastStatus() types.OrderStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.statuses) == 0 {
		return ""
	}
	return f.statuses[len(f.statuses)-1]
}

func (f *fakeStore) recordedCompensations() []types.CompensationRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.CompensationRecord(nil), f.compensations...)
}

func (f *fakeStore) GetBalanceAccount(ctx context.Context, userID string) (types.BalanceAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return types.BalanceAccount{UserID: userID, Balance: f.balance}, nil
}

func (f *fakeStore) ApplyBalanceDelta(ctx context.Context, userID string, amount float64, txType, idempotencyKey string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.appliedKeys[idempotencyKey]; ok {
		return f.balance, nil
	}
	if amount < 0 && f.balance < -amount {
		return 0, fmt.Errorf("balance %.2f below %.2f", f.balance, -amount)
	}
	f.balance += amount
	f.appliedKeys[idempotencyKey] = amount
	return f.balance, nil
}

func (f *fakeStore) GetProduct(ctx context.Context, sku string) (types.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[sku]
	if !ok {
		return types.Product{}, fmt.Errorf("product %s not found", sku)
	}
	return *p, nil
}

func (f *fakeStore) DecrementStock(ctx context.Context, sku string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[sku]
	if !ok {
		return fmt.Errorf("product %s not found", sku)
	}
	if p.Stock < quantity {
		return &types.InsufficientStockError{SKU: sku, Requested: quantity, Available: p.Stock}
	}
	p.Stock -= quantity
	return nil
}

func (f *fakeStore) UpdateOrderStatus(ctx context.Context, orderID string, status types.OrderStatus, detail map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, status)
	return nil
}

func (f *fakeStore) RecordCompensation(ctx context.Context, record types.CompensationRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.compensations = append(f.compensations, record)
	return nil
}

func (f *fakeStore) AddRewardPoints(ctx context.Context, userID string, points int) (types.RewardsAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rewardPoints[userID] += points
	total := f.rewardPoints[userID]
	return types.RewardsAccount{UserID: userID, TotalPoints: total, Tier: types.TierForPoints(total)}, nil
}

// pointsSignal is one captured rewards delivery.
type pointsSignal struct {
	workflowID string
	signalName string
	points     int
}

// fakeSignaler captures SignalWithStartWorkflow calls instead of
// talking to a cluster.
type fakeSignaler struct {
	mu      sync.Mutex
	signals []pointsSignal
	err     error
}

func (f *fakeSignaler) SignalWithStartWorkflow(ctx context.Context, workflowID, signalName string, signalArg interface{},
	options client.StartWorkflowOptions, workflow interface{}, workflowArgs ...interface{}) (client.WorkflowRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	points, _ := signalArg.(int)
	f.signals = append(f.signals, pointsSignal{workflowID: workflowID, signalName: signalName, points: points})
	return nil, nil
}

func (f *fakeSignaler) delivered() []pointsSignal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]pointsSignal(nil), f.signals...)
}
