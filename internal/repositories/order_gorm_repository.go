package repositories

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db   *gorm.DB
	cart CartProvider
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
// The cart provider may be nil when checkout does not drain a cart
// (e.g. in isolated tests).
func NewGORMOrderRepository(db *gorm.DB, cart CartProvider) *GORMOrderRepository {
	return &GORMOrderRepository{
		db:   db,
		cart: cart,
	}
}

// generateOrderNumber builds a human-readable, globally unique order
// number: timestamp plus a random suffix.
func generateOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102150405"), suffix)
}

// Create inserts the order row, one row per item, the initial "pending"
// history row, and clears the purchaser's cart, all inside a single
// transaction. On any failure nothing is visible afterwards.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	now := time.Now()
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.OrderNumber == "" {
		order.OrderNumber = generateOrderNumber(now)
	}
	order.OrderStatus = models.StatusPending
	order.CreatedAt = now
	order.UpdatedAt = now

	err := r.db.Transaction(func(tx *gorm.DB) error {
		items := order.Items
		history := order.History
		order.Items = nil
		order.History = nil
		defer func() {
			order.Items = items
			order.History = history
		}()

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		for i := range items {
			items[i].ID = uuid.New().String()
			items[i].OrderID = order.ID
			items[i].CreatedAt = now
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to insert order items: %w", err)
		}

		first := models.OrderStatusHistory{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			Status:    models.StatusPending,
			Comment:   "Order placed",
			CreatedAt: now,
		}
		if err := tx.Create(&first).Error; err != nil {
			return fmt.Errorf("failed to insert status history: %w", err)
		}

		if r.cart != nil {
			if err := r.cart.ClearForUser(tx, order.UserID); err != nil {
				return fmt.Errorf("failed to clear cart: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("order creation rolled back: %w", err)
	}
	return nil
}

const summarySelect = `orders.id, orders.order_number, orders.user_id, orders.final_amount,
orders.payment_method, orders.order_status, orders.created_at,
users.username AS customer_name, users.email AS customer_email,
(SELECT COUNT(*) FROM order_items WHERE order_items.order_id = orders.id) AS item_count`

// GetAll returns a page of orders joined with purchaser details,
// newest first, with an optional exact-match status filter.
func (r *GORMOrderRepository) GetAll(limit, offset int, status string) ([]OrderSummary, error) {
	query := r.db.Table("orders").
		Select(summarySelect).
		Joins("LEFT JOIN users ON users.id = orders.user_id").
		Order("orders.created_at DESC").
		Limit(limit).
		Offset(offset)
	if status != "" {
		query = query.Where("orders.order_status = ?", status)
	}

	var summaries []OrderSummary
	if err := query.Scan(&summaries).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return summaries, nil
}

// GetByUser returns the same joined shape scoped to one purchaser.
func (r *GORMOrderRepository) GetByUser(userID string, limit, offset int) ([]OrderSummary, error) {
	var summaries []OrderSummary
	err := r.db.Table("orders").
		Select(summarySelect).
		Joins("LEFT JOIN users ON users.id = orders.user_id").
		Where("orders.user_id = ?", userID).
		Order("orders.created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for user %s: %w", userID, err)
	}
	return summaries, nil
}

// GetByID returns the order with its items and full status history,
// newest history first.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	err := r.db.
		Preload("Items").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return &order, nil
}

// UpdateStatus atomically updates the order row's status and appends
// exactly one history row. Transition legality is the service's job.
func (r *GORMOrderRepository) UpdateStatus(id string, status models.OrderStatus, comment string, changedBy *string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.Order{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"order_status": status,
				"updated_at":   now,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update order %s status: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrOrderNotFound
		}

		entry := models.OrderStatusHistory{
			ID:        uuid.New().String(),
			OrderID:   id,
			Status:    status,
			Comment:   comment,
			ChangedBy: changedBy,
			CreatedAt: now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to append status history: %w", err)
		}
		return nil
	})
}

// Cancel reads the current status inside the transaction, rejects
// terminal states, then sets "cancelled" and appends the history row.
func (r *GORMOrderRepository) Cancel(id, reason, cancelledBy string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to read order %s: %w", id, err)
		}
		if order.OrderStatus.IsTerminal() {
			return ErrOrderNotCancellable
		}

		now := time.Now()
		err := tx.Model(&order).Updates(map[string]interface{}{
			"order_status": models.StatusCancelled,
			"updated_at":   now,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to cancel order %s: %w", id, err)
		}

		entry := models.OrderStatusHistory{
			ID:        uuid.New().String(),
			OrderID:   id,
			Status:    models.StatusCancelled,
			Comment:   reason,
			ChangedBy: &cancelledBy,
			CreatedAt: now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to append cancellation history: %w", err)
		}
		return nil
	})
}

// Stats computes the reporting aggregate in a single read pass. The
// average order value is zero when the store holds no orders.
func (r *GORMOrderRepository) Stats() (*OrderStats, error) {
	stats := &OrderStats{
		StatusCounts: make(map[models.OrderStatus]int64, len(models.AllOrderStatuses)),
	}
	for _, status := range models.AllOrderStatuses {
		stats.StatusCounts[status] = 0
	}

	type bucket struct {
		OrderStatus models.OrderStatus
		Count       int64
	}
	var buckets []bucket
	err := r.db.Model(&models.Order{}).
		Select("order_status, COUNT(*) AS count").
		Group("order_status").
		Scan(&buckets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate status counts: %w", err)
	}
	for _, b := range buckets {
		stats.StatusCounts[b.OrderStatus] = b.Count
		stats.TotalOrders += b.Count
	}

	err = r.db.Model(&models.Order{}).
		Select("COALESCE(SUM(final_amount), 0)").
		Scan(&stats.TotalRevenue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue: %w", err)
	}

	if stats.TotalOrders > 0 {
		stats.AverageOrderValue = stats.TotalRevenue / float64(stats.TotalOrders)
	}
	return stats, nil
}
