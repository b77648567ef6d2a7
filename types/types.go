package types

import (
	"math"
	"time"
)

// OrderStatus is a stage in the order lifecycle. Orders only ever move
// forward; completed and failed are terminal.
type OrderStatus string

const (
	StatusInitiated        OrderStatus = "initiated"
	StatusProcessing       OrderStatus = "processing"
	StatusBalanceChecked   OrderStatus = "balance_checked"
	StatusPaymentProcessed OrderStatus = "payment_processed"
	StatusInventoryChecked OrderStatus = "inventory_checked"
	StatusInventoryUpdated OrderStatus = "inventory_updated"
	StatusShipping         OrderStatus = "shipping"
	StatusShipped          OrderStatus = "shipped"
	StatusRewardsAdded     OrderStatus = "rewards_added"
	StatusCompleted        OrderStatus = "completed"
	StatusFailed           OrderStatus = "failed"
)

// LineItem is a single product line in an order. Immutable once the
// order is created.
type LineItem struct {
	SKU       string  `bson:"sku" json:"sku"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	UnitPrice float64 `bson:"price" json:"price"`
}

// OrderRequest is the input to the order processing workflow.
type OrderRequest struct {
	UserID  string     `json:"user_id"`
	OrderID string     `json:"order_id"`
	Items   []LineItem `json:"items"`
}

// Total returns the order total across all line items.
func (r OrderRequest) Total() float64 {
	var total float64
	for _, item := range r.Items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return total
}

// Points returns the loyalty points earned by the order: one point per
// whole unit of currency spent.
func (r OrderRequest) Points() int {
	return int(math.Floor(r.Total()))
}

// StatusChange is one entry in an order's status history.
type StatusChange struct {
	Status    OrderStatus    `bson:"status" json:"status"`
	Timestamp time.Time      `bson:"timestamp" json:"timestamp"`
	Detail    map[string]any `bson:"detail,omitempty" json:"detail,omitempty"`
}

// Order is the stored order document.
type Order struct {
	OrderID   string         `bson:"order_id" json:"order_id"`
	UserID    string         `bson:"user_id" json:"user_id"`
	Items     []LineItem     `bson:"items" json:"items"`
	Status    OrderStatus    `bson:"status" json:"status"`
	Total     float64        `bson:"total" json:"total"`
	CreatedAt time.Time      `bson:"created_at" json:"created_at"`
	History   []StatusChange `bson:"status_history" json:"status_history"`
}

// Product is a stored inventory item.
type Product struct {
	SKU         string  `bson:"sku" json:"sku"`
	Name        string  `bson:"name" json:"name"`
	Price       float64 `bson:"price" json:"price"`
	Stock       int     `bson:"stock" json:"stock"`
	Description string  `bson:"description" json:"description"`
}

// Transaction is one entry in a balance account's append-only log.
type Transaction struct {
	Amount    float64   `bson:"amount" json:"amount"`
	Type      string    `bson:"type" json:"type"`
	Key       string    `bson:"key,omitempty" json:"key,omitempty"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// BalanceAccount is the stored balance document for a user.
type BalanceAccount struct {
	UserID       string        `bson:"user_id" json:"user_id"`
	Balance      float64       `bson:"balance" json:"balance"`
	Transactions []Transaction `bson:"transactions" json:"transactions"`
}

// Balance check outcomes.
const (
	BalanceSufficient   = "sufficient"
	BalanceInsufficient = "insufficient"
)

// BalanceCheck is the result of checking a balance against an amount.
type BalanceCheck struct {
	Status         string  `json:"status"`
	CurrentBalance float64 `json:"current_balance"`
	RequiredAmount float64 `json:"required_amount"`
}

// Sufficient reports whether the checked balance covers the amount.
func (c BalanceCheck) Sufficient() bool { return c.Status == BalanceSufficient }

// BalanceUpdate is the result of a committed balance mutation.
type BalanceUpdate struct {
	Status     string  `json:"status"`
	NewBalance float64 `json:"new_balance"`
	Amount     float64 `json:"amount"`
	Type       string  `json:"type"`
}

// PaymentResult is the outcome of a successful charge.
type PaymentResult struct {
	Status        string  `json:"status"`
	Amount        float64 `json:"amount"`
	TransactionID string  `json:"transaction_id"`
}

// RefundResult is the outcome of a refund.
type RefundResult struct {
	Status  string `json:"status"`
	OrderID string `json:"order_id"`
}

// InventoryResult is the outcome of an inventory check or update.
type InventoryResult struct {
	Status string `json:"status"`
	Items  int    `json:"items"`
}

// Shipping outcomes for a single line item.
const (
	ShippingDelivered = "delivered"
	ShippingFailed    = "failed"
)

// PickupConfirmation is returned when a carrier pickup is scheduled.
type PickupConfirmation struct {
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number"`
	PickupDate     string `json:"pickup_date"`
}

// DeliveryConfirmation is returned when a shipment is marked delivered.
type DeliveryConfirmation struct {
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number"`
	DeliveryDate   string `json:"delivery_date"`
}

// ShippingResult is the terminal outcome of one item's shipping sub-saga.
type ShippingResult struct {
	Status         string `json:"status"`
	SKU            string `json:"sku"`
	TrackingNumber string `json:"tracking_number,omitempty"`
	PickupDate     string `json:"pickup_date,omitempty"`
	DeliveryDate   string `json:"delivery_date,omitempty"`
	Error          string `json:"error,omitempty"`
}

// OrderResult is the aggregate result returned by the order workflow.
// Failure is nil when the order completed.
type OrderResult struct {
	OrderID   string           `json:"order_id"`
	Status    OrderStatus      `json:"status"`
	Payment   *PaymentResult   `json:"payment,omitempty"`
	Inventory *InventoryResult `json:"inventory,omitempty"`
	Shipping  []ShippingResult `json:"shipping,omitempty"`
	Points    int              `json:"points_added,omitempty"`
	Failure   *FailureDetail   `json:"failure,omitempty"`
}

// OrderProgress is the query snapshot exposed while an order workflow runs.
type OrderProgress struct {
	OrderID            string           `json:"order_id"`
	Status             OrderStatus      `json:"status"`
	PaymentCommitted   bool             `json:"payment_committed"`
	InventoryCommitted bool             `json:"inventory_committed"`
	Shipping           []ShippingResult `json:"shipping,omitempty"`
	LastError          string           `json:"last_error,omitempty"`
}
