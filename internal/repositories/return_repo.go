package repositories

import (
	"time"

	"storefront/internal/models"
)

// ReturnSummary is the joined row returned by return/exchange list
// reads: the request plus the order number, the referenced item's
// product snapshot, and the requester's display name/email.
type ReturnSummary struct {
	ID            string              `json:"id"`
	OrderID       string              `json:"order_id"`
	OrderNumber   string              `json:"order_number"`
	OrderItemID   string              `json:"order_item_id"`
	ProductName   string              `json:"product_name"`
	ProductImage  string              `json:"product_image"`
	UserID        string              `json:"user_id"`
	CustomerName  string              `json:"customer_name"`
	CustomerEmail string              `json:"customer_email"`
	RequestType   models.RequestType  `json:"request_type"`
	Reason        string              `json:"reason"`
	Description   string              `json:"description"`
	Images        models.StringList   `json:"images"`
	Status        models.ReturnStatus `json:"status"`
	AdminComment  string              `json:"admin_comment"`
	ProcessedBy   *string             `json:"processed_by,omitempty"`
	RefundAmount  *float64            `json:"refund_amount,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// Disposition carries the admin's resolution of a request. All fields
// are written together in one update.
type Disposition struct {
	Status       models.ReturnStatus
	AdminComment string
	ProcessedBy  string
	RefundAmount *float64
}

// ReturnRepository defines storage for return/exchange requests.
type ReturnRepository interface {
	Create(request *models.ReturnExchangeRequest) error
	// List returns requests joined with order, item and requester
	// detail; userID and status filters are optional (empty = all).
	List(userID string, status string) ([]ReturnSummary, error)
	GetByID(id string) (*models.ReturnExchangeRequest, error)
	// Dispose applies the admin resolution in a single update and
	// returns ErrRequestNotFound when zero rows are affected.
	Dispose(id string, d Disposition) error
}
