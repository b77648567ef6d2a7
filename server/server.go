package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/converter"

	"github.com/djb4ai/Temporal-Ecommerce-Test-App/types"
)

// DefaultUserID is the demo account every request operates on. The API
// has no authentication layer.
const DefaultUserID = "default_user"

// Storage is the document access the HTTP layer needs.
type Storage interface {
	CreateOrder(ctx context.Context, order types.Order) error
	GetOrder(ctx context.Context, orderID string) (types.Order, error)
	ListOrders(ctx context.Context) ([]types.Order, error)
	ListProducts(ctx context.Context) ([]types.Product, error)
	GetBalanceAccount(ctx context.Context, userID string) (types.BalanceAccount, error)
}

// WorkflowClient is the slice of the Temporal client the HTTP layer
// uses. client.Client satisfies it.
type WorkflowClient interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
	QueryWorkflow(ctx context.Context, workflowID, runID, queryType string, args ...interface{}) (converter.EncodedValue, error)
}

// Server is the HTTP front end. It starts order workflows and serves
// read views over the store and the running workflows.
type Server struct {
	store     Storage
	temporal  WorkflowClient
	taskQueue string
	logger    *slog.Logger
}

// New builds the HTTP server.
func New(store Storage, temporal WorkflowClient, taskQueue string, logger *slog.Logger) *Server {
	return &Server{store: store, temporal: temporal, taskQueue: taskQueue, logger: logger}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /order", s.placeOrder)
	mux.HandleFunc("GET /orders", s.listOrders)
	mux.HandleFunc("GET /orders/{id}", s.getOrder)
	mux.HandleFunc("GET /inventory", s.listInventory)
	mux.HandleFunc("GET /balance", s.getBalance)
	mux.HandleFunc("GET /rewards", s.getRewards)
	return withCORS(mux)
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
