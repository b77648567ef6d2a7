package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"

	"github.com/djb4ai/Temporal-Ecommerce-Test-App/store"
	"github.com/djb4ai/Temporal-Ecommerce-Test-App/types"
	"github.com/djb4ai/Temporal-Ecommerce-Test-App/workflows"
)

type placeOrderRequest struct {
	Items []types.LineItem `json:"items"`
}

// placeOrder records the order and starts its workflow. The order
// document is created first so the read API can see it even before the
// workflow makes progress.
func (s *Server) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "order must contain at least one item")
		return
	}
	for _, item := range req.Items {
		if item.SKU == "" || item.Quantity <= 0 {
			writeError(w, http.StatusBadRequest, "each item needs a sku and a positive quantity")
			return
		}
	}

	orderReq := types.OrderRequest{
		UserID:  DefaultUserID,
		OrderID: uuid.NewString(),
		Items:   req.Items,
	}
	order := types.Order{
		OrderID:   orderReq.OrderID,
		UserID:    orderReq.UserID,
		Items:     orderReq.Items,
		Status:    types.StatusInitiated,
		Total:     orderReq.Total(),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateOrder(r.Context(), order); err != nil {
		s.logger.Error("failed to create order document", "orderID", orderReq.OrderID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create order")
		return
	}

	workflowID := workflows.OrderWorkflowID(orderReq.OrderID)
	_, err := s.temporal.ExecuteWorkflow(r.Context(), client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: s.taskQueue,
	}, workflows.OrderWorkflow, orderReq)
	if err != nil {
		// The order exists and can be retried out of band; starting the
		// workflow is not part of the request's success contract.
		s.logger.Error("failed to start order workflow", "workflowID", workflowID, "error", err)
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"order_id":    orderReq.OrderID,
		"workflow_id": workflowID,
		"status":      types.StatusInitiated,
		"total":       order.Total,
	})
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.store.ListOrders(r.Context())
	if err != nil {
		s.logger.Error("failed to list orders", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	if orders == nil {
		orders = []types.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("id")
	order, err := s.store.GetOrder(r.Context(), orderID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to load order", "orderID", orderID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load order")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) listInventory(w http.ResponseWriter, r *http.Request) {
	products, err := s.store.ListProducts(r.Context())
	if err != nil {
		s.logger.Error("failed to list inventory", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list inventory")
		return
	}
	if products == nil {
		products = []types.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// getBalance returns the current balance plus the five most recent
// transactions.
func (s *Server) getBalance(w http.ResponseWriter, r *http.Request) {
	account, err := s.store.GetBalanceAccount(r.Context(), DefaultUserID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "balance account not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to load balance", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load balance")
		return
	}

	recent := account.Transactions
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":             account.UserID,
		"balance":             account.Balance,
		"recent_transactions": recent,
	})
}

// getRewards queries the user's rewards accumulator. A user whose
// accumulator has never started, or whose run is already closed beyond
// reach, reads as zero points on the basic tier.
func (s *Server) getRewards(w http.ResponseWriter, r *http.Request) {
	status := types.RewardsStatus{Tier: types.TierBasic}

	value, err := s.temporal.QueryWorkflow(r.Context(),
		workflows.RewardsWorkflowID(DefaultUserID), "", workflows.QueryGetStatus)
	if err != nil {
		s.logger.Info("rewards query unavailable, returning empty status", "error", err)
		writeJSON(w, http.StatusOK, status)
		return
	}
	if value.HasValue() {
		if err := value.Get(&status); err != nil {
			s.logger.Error("failed to decode rewards status", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to decode rewards status")
			return
		}
	}
	writeJSON(w, http.StatusOK, status)
}
