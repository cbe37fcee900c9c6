package repositories

import (
	"fmt"

	"storefront/internal/models"

	"gorm.io/gorm"
)

// CartProvider is the order core's view of the cart subsystem. Checkout
// clears the purchaser's cart inside the order-creation transaction, so
// the clear takes the transaction handle.
type CartProvider interface {
	ItemsForUser(userID string) ([]models.CartItem, error)
	ClearForUser(tx *gorm.DB, userID string) error
}

// GORMCartRepository is a GORM implementation of CartProvider over the
// cart_items table.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// ItemsForUser retrieves the user's current cart lines.
func (r *GORMCartRepository) ItemsForUser(userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Where("user_id = ?", userID).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get cart items for user %s: %w", userID, err)
	}
	return items, nil
}

// ClearForUser deletes all of the user's cart rows using the supplied
// transaction so the clear commits or rolls back with the order.
func (r *GORMCartRepository) ClearForUser(tx *gorm.DB, userID string) error {
	if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart for user %s: %w", userID, err)
	}
	return nil
}
