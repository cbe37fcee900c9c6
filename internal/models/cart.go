package models

import "time"

// CartItem is the cart provider's storage shape. The order core only
// drains it: checkout clears a user's rows inside the order-creation
// transaction.
type CartItem struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID       string    `json:"user_id" gorm:"index;type:varchar(36)"`
	ProductID    string    `json:"product_id" gorm:"type:varchar(36)"`
	ProductName  string    `json:"product_name" gorm:"type:varchar(255)"`
	ProductImage string    `json:"product_image" gorm:"type:varchar(512)"`
	Quantity     int       `json:"quantity"`
	UnitPrice    float64   `json:"unit_price"`
	Size         string    `json:"size" gorm:"type:varchar(20)"`
	Color        string    `json:"color" gorm:"type:varchar(30)"`
	CreatedAt    time.Time `json:"created_at"`
}
