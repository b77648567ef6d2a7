package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/converter"

	"github.com/djb4ai/Temporal-Ecommerce-Test-App/store"
	"github.com/djb4ai/Temporal-Ecommerce-Test-App/types"
	"github.com/djb4ai/Temporal-Ecommerce-Test-App/workflows"
)

type fakeStorage struct {
	orders    map[string]types.Order
	products  []types.Product
	balance   types.BalanceAccount
	ordersErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{orders: make(map[string]types.Order)}
}

func (f *fakeStorage) CreateOrder(ctx context.Context, order types.Order) error {
	f.orders[order.OrderID] = order
	return nil
}

func (f *fakeStorage) GetOrder(ctx context.Context, orderID string) (types.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return types.Order{}, fmt.Errorf("order %s: %w", orderID, store.ErrNotFound)
	}
	return order, nil
}

func (f *fakeStorage) ListOrders(ctx context.Context) ([]types.Order, error) {
	if f.ordersErr != nil {
		return nil, f.ordersErr
	}
	orders := make([]types.Order, 0, len(f.orders))
	for _, o := range f.orders {
		orders = append(orders, o)
	}
	return orders, nil
}

func (f *fakeStorage) ListProducts(ctx context.Context) ([]types.Product, error) {
	return f.products, nil
}

func (f *fakeStorage) GetBalanceAccount(ctx context.Context, userID string) (types.BalanceAccount, error) {
	if f.balance.UserID == "" {
		return types.BalanceAccount{}, fmt.Errorf("balance account %s: %w", userID, store.ErrNotFound)
	}
	return f.balance, nil
}

type startedWorkflow struct {
	workflowID string
	name       interface{}
	arg        interface{}
}

type fakeWorkflowClient struct {
	started  []startedWorkflow
	startErr error

	queryValue types.RewardsStatus
	queryErr   error
}

func (f *fakeWorkflowClient) ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	var arg interface{}
	if len(args) > 0 {
		arg = args[0]
	}
	f.started = append(f.started, startedWorkflow{workflowID: options.ID, name: workflow, arg: arg})
	return nil, nil
}

func (f *fakeWorkflowClient) QueryWorkflow(ctx context.Context, workflowID, runID, queryType string, args ...interface{}) (converter.EncodedValue, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return fakeEncodedValue{status: f.queryValue}, nil
}

type fakeEncodedValue struct {
	status types.RewardsStatus
}

func (v fakeEncodedValue) HasValue() bool { return true }

func (v fakeEncodedValue) Get(valuePtr interface{}) error {
	target, ok := valuePtr.(*types.RewardsStatus)
	if !ok {
		return errors.New("unexpected query result type")
	}
	*target = v.status
	return nil
}

func newTestServer() (*Server, *fakeStorage, *fakeWorkflowClient) {
	storage := newFakeStorage()
	temporal := &fakeWorkflowClient{}
	logger := slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
	return New(storage, temporal, "test-queue", logger), storage, temporal
}

func TestPlaceOrderStartsWorkflow(t *testing.T) {
	srv, storage, temporal := newTestServer()

	body := `{"items":[{"sku":"PROD001","quantity":2,"price":100}]}`
	req := httptest.NewRequest(http.MethodPost, "/order", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	orderID, _ := resp["order_id"].(string)
	require.NotEmpty(t, orderID)
	assert.Equal(t, workflows.OrderWorkflowID(orderID), resp["workflow_id"])
	assert.InDelta(t, 200.0, resp["total"].(float64), 1e-9)

	created, ok := storage.orders[orderID]
	require.True(t, ok)
	assert.Equal(t, DefaultUserID, created.UserID)
	assert.Equal(t, types.StatusInitiated, created.Status)

	require.Len(t, temporal.started, 1)
	assert.Equal(t, workflows.OrderWorkflowID(orderID), temporal.started[0].workflowID)
}

func TestPlaceOrderRejectsEmptyItems(t *testing.T) {
	srv, _, temporal := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/order", strings.NewReader(`{"items":[]}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, temporal.started)
}

func TestPlaceOrderRejectsInvalidItems(t *testing.T) {
	srv, _, _ := newTestServer()

	body := `{"items":[{"sku":"","quantity":0,"price":10}]}`
	req := httptest.NewRequest(http.MethodPost, "/order", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlaceOrderSucceedsWhenWorkflowStartFails(t *testing.T) {
	srv, storage, temporal := newTestServer()
	temporal.startErr = errors.New("temporal unreachable")

	body := `{"items":[{"sku":"PROD001","quantity":1,"price":50}]}`
	req := httptest.NewRequest(http.MethodPost, "/order", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Len(t, storage.orders, 1)
}

func TestGetOrderNotFound(t *testing.T) {
	srv, _, _ := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/orders/missing", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetOrderReturnsDocument(t *testing.T) {
	srv, storage, _ := newTestServer()
	storage.orders["order-1"] = types.Order{OrderID: "order-1", UserID: DefaultUserID, Status: types.StatusCompleted}

	req := httptest.NewRequest(http.MethodGet, "/orders/order-1", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var order types.Order
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&order))
	assert.Equal(t, types.StatusCompleted, order.Status)
}

func TestGetBalanceReturnsRecentTransactions(t *testing.T) {
	srv, storage, _ := newTestServer()

	transactions := make([]types.Transaction, 7)
	for i := range transactions {
		transactions[i] = types.Transaction{Amount: float64(i + 1), Type: "payment", Timestamp: time.Now()}
	}
	storage.balance = types.BalanceAccount{UserID: DefaultUserID, Balance: 1234.5, Transactions: transactions}

	req := httptest.NewRequest(http.MethodGet, "/balance", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Balance            float64             `json:"balance"`
		RecentTransactions []types.Transaction `json:"recent_transactions"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.InDelta(t, 1234.5, resp.Balance, 1e-9)
	require.Len(t, resp.RecentTransactions, 5)
	assert.InDelta(t, 3.0, resp.RecentTransactions[0].Amount, 1e-9)
	assert.InDelta(t, 7.0, resp.RecentTransactions[4].Amount, 1e-9)
}

func TestGetRewardsQueriesAccumulator(t *testing.T) {
	srv, _, temporal := newTestServer()
	temporal.queryValue = types.RewardsStatus{Points: 750, Tier: types.TierGold}

	req := httptest.NewRequest(http.MethodGet, "/rewards", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var status types.RewardsStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	assert.Equal(t, 750, status.Points)
	assert.Equal(t, types.TierGold, status.Tier)
}

func TestGetRewardsFallsBackWhenQueryFails(t *testing.T) {
	srv, _, temporal := newTestServer()
	temporal.queryErr = errors.New("workflow not found")

	req := httptest.NewRequest(http.MethodGet, "/rewards", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var status types.RewardsStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	assert.Equal(t, 0, status.Points)
	assert.Equal(t, types.TierBasic, status.Tier)
}

func TestCORSPreflight(t *testing.T) {
	srv, _, _ := newTestServer()

	req := httptest.NewRequest(http.MethodOptions, "/orders", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
