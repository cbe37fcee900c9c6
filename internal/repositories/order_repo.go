package repositories

import (
	"time"

	"storefront/internal/models"
)

// OrderSummary is the joined row returned by list reads: the order plus
// the purchaser's display name/email and a computed item count.
type OrderSummary struct {
	ID            string             `json:"id"`
	OrderNumber   string             `json:"order_number"`
	UserID        string             `json:"user_id"`
	FinalAmount   float64            `json:"final_amount"`
	PaymentMethod string             `json:"payment_method"`
	OrderStatus   models.OrderStatus `json:"order_status"`
	CustomerName  string             `json:"customer_name"`
	CustomerEmail string             `json:"customer_email"`
	ItemCount     int64              `json:"item_count"`
	CreatedAt     time.Time          `json:"created_at"`
}

// OrderStats is the reporting aggregate: total order count, per-status
// buckets, total revenue (sum of final_amount) and average order value.
type OrderStats struct {
	TotalOrders       int64                        `json:"total_orders"`
	StatusCounts      map[models.OrderStatus]int64 `json:"status_counts"`
	TotalRevenue      float64                      `json:"total_revenue"`
	AverageOrderValue float64                      `json:"average_order_value"`
}

// OrderRepository defines durable, transactional storage of orders,
// items and status history. It enforces no business rules beyond the
// terminal-state floor on cancellation; transition legality lives in
// the service layer.
type OrderRepository interface {
	// Create inserts the order, its items and the initial "pending"
	// history row, and clears the purchaser's cart, all in one
	// transaction. Any failure rolls the whole creation back.
	Create(order *models.Order) error
	GetAll(limit, offset int, status string) ([]OrderSummary, error)
	GetByUser(userID string, limit, offset int) ([]OrderSummary, error)
	// GetByID returns the order with its full item list and status
	// history (newest first), or ErrOrderNotFound.
	GetByID(id string) (*models.Order, error)
	// UpdateStatus sets the order's status and appends one history row
	// in a single transaction.
	UpdateStatus(id string, status models.OrderStatus, comment string, changedBy *string) error
	// Cancel re-reads the current status inside the transaction,
	// returns ErrOrderNotCancellable for terminal states, otherwise
	// sets "cancelled" and appends a history row with the reason.
	Cancel(id, reason, cancelledBy string) error
	Stats() (*OrderStats, error)
}
