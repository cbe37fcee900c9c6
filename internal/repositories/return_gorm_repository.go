package repositories

import (
	"errors"
	"fmt"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMReturnRepository is a GORM implementation of ReturnRepository.
type GORMReturnRepository struct {
	db *gorm.DB
}

// NewGORMReturnRepository creates a new instance of GORMReturnRepository.
func NewGORMReturnRepository(db *gorm.DB) *GORMReturnRepository {
	return &GORMReturnRepository{
		db: db,
	}
}

// Create inserts a new request in state "pending".
func (r *GORMReturnRepository) Create(request *models.ReturnExchangeRequest) error {
	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	now := time.Now()
	request.Status = models.ReturnStatusPending
	request.CreatedAt = now
	request.UpdatedAt = now
	if err := r.db.Create(request).Error; err != nil {
		return fmt.Errorf("failed to create return request: %w", err)
	}
	return nil
}

// List returns the full request rows, images deserialized back into a
// slice, joined with order number, item snapshot and requester details,
// newest first.
func (r *GORMReturnRepository) List(userID string, status string) ([]ReturnSummary, error) {
	query := r.db.Table("return_exchange_requests").
		Select(`return_exchange_requests.id, return_exchange_requests.order_id,
return_exchange_requests.order_item_id, return_exchange_requests.user_id,
return_exchange_requests.request_type, return_exchange_requests.reason,
return_exchange_requests.description, return_exchange_requests.images,
return_exchange_requests.status, return_exchange_requests.admin_comment,
return_exchange_requests.processed_by, return_exchange_requests.refund_amount,
return_exchange_requests.created_at,
orders.order_number, order_items.product_name, order_items.product_image,
users.username AS customer_name, users.email AS customer_email`).
		Joins("LEFT JOIN orders ON orders.id = return_exchange_requests.order_id").
		Joins("LEFT JOIN order_items ON order_items.id = return_exchange_requests.order_item_id").
		Joins("LEFT JOIN users ON users.id = return_exchange_requests.user_id").
		Order("return_exchange_requests.created_at DESC")
	if userID != "" {
		query = query.Where("return_exchange_requests.user_id = ?", userID)
	}
	if status != "" {
		query = query.Where("return_exchange_requests.status = ?", status)
	}

	var summaries []ReturnSummary
	if err := query.Scan(&summaries).Error; err != nil {
		return nil, fmt.Errorf("failed to list return requests: %w", err)
	}
	return summaries, nil
}

// GetByID returns a single request or ErrRequestNotFound.
func (r *GORMReturnRepository) GetByID(id string) (*models.ReturnExchangeRequest, error) {
	var request models.ReturnExchangeRequest
	if err := r.db.First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get return request %s: %w", id, err)
	}
	return &request, nil
}

// Dispose sets status, admin comment, processor and refund amount in a
// single update. A second call silently overwrites the first; there is
// no re-entrancy guard.
func (r *GORMReturnRepository) Dispose(id string, d Disposition) error {
	res := r.db.Model(&models.ReturnExchangeRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        d.Status,
			"admin_comment": d.AdminComment,
			"processed_by":  d.ProcessedBy,
			"refund_amount": d.RefundAmount,
			"updated_at":    time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to dispose return request %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRequestNotFound
	}
	return nil
}
