package models

import "time"

// Order represents one checkout transaction. Orders are created once,
// atomically with their items and first history entry, and are never
// hard-deleted; only the status (and its audit trail) changes afterwards.
type Order struct {
	ID                    string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderNumber           string      `json:"order_number" gorm:"uniqueIndex;type:varchar(40)"`
	UserID                string      `json:"user_id" gorm:"index;type:varchar(36)" validate:"required"`
	TotalAmount           float64     `json:"total_amount" validate:"gte=0"`
	DiscountAmount        float64     `json:"discount_amount" validate:"gte=0"`
	ShippingAmount        float64     `json:"shipping_amount" validate:"gte=0"`
	TaxAmount             float64     `json:"tax_amount" validate:"gte=0"`
	FinalAmount           float64     `json:"final_amount" validate:"gte=0"`
	PaymentMethod         string      `json:"payment_method" gorm:"type:varchar(50)"`
	ShippingAddress       Address     `json:"shipping_address" gorm:"type:text"`
	BillingAddress        Address     `json:"billing_address" gorm:"type:text"`
	Phone                 string      `json:"phone" gorm:"type:varchar(20)"`
	Email                 string      `json:"email" gorm:"type:varchar(255)"`
	Notes                 string      `json:"notes" gorm:"type:text"`
	OrderStatus           OrderStatus `json:"order_status" gorm:"type:varchar(20);index"`
	EstimatedDeliveryDate time.Time   `json:"estimated_delivery_date"`
	CreatedAt             time.Time   `json:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at"`

	Items   []OrderItem          `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	History []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderItem is a single purchased line. Product name and image are
// captured as a snapshot at purchase time, decoupled from the live
// catalog. Items are immutable after creation.
type OrderItem struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID      string    `json:"order_id" gorm:"index;type:varchar(36)"`
	ProductID    string    `json:"product_id" gorm:"type:varchar(36)" validate:"required"`
	ProductName  string    `json:"product_name" gorm:"type:varchar(255)"`
	ProductImage string    `json:"product_image" gorm:"type:varchar(512)"`
	Quantity     int       `json:"quantity" validate:"required,gt=0"`
	UnitPrice    float64   `json:"unit_price" validate:"gte=0"`
	TotalPrice   float64   `json:"total_price" validate:"gte=0"`
	Size         string    `json:"size" gorm:"type:varchar(20)"`
	Color        string    `json:"color" gorm:"type:varchar(30)"`
	CreatedAt    time.Time `json:"created_at"`
}

// OrderStatusHistory is one row of the append-only audit trail. Exactly
// one row is written per status-changing operation; rows are never
// updated or deleted.
type OrderStatusHistory struct {
	ID        string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string      `json:"order_id" gorm:"index;type:varchar(36)"`
	Status    OrderStatus `json:"status" gorm:"type:varchar(20)"`
	Comment   string      `json:"comment" gorm:"type:text"`
	ChangedBy *string     `json:"changed_by,omitempty" gorm:"type:varchar(36)"`
	CreatedAt time.Time   `json:"created_at"`
}
