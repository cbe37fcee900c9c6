package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// Sentinel errors for the lifecycle service. Handlers distinguish them
// from not-found and business-rule errors with errors.Is.
var (
	// ErrInvalidOrder marks creation input rejected before any
	// transaction is started.
	ErrInvalidOrder = errors.New("invalid order request")

	// ErrInvalidStatus marks a status value outside the whitelist.
	ErrInvalidStatus = errors.New("invalid order status")

	// ErrIllegalTransition marks a whitelisted status requested from a
	// state that does not permit it.
	ErrIllegalTransition = errors.New("illegal status transition")
)

// deliveryLeadTime is added to the creation time to fix the estimated
// delivery date. Later transitions never recompute it.
const deliveryLeadTime = 7 * 24 * time.Hour

// OrderService enforces business rules on top of the order repository:
// creation validation, transition legality and cancellation policy.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	publisher   EventPublisher
	cancellable map[models.OrderStatus]bool
}

// NewOrderService creates a new OrderService. cancellable is the set of
// states a customer may cancel from; the repository independently
// refuses terminal states regardless of this policy. A nil publisher
// disables event fan-out.
func NewOrderService(orderRepo repositories.OrderRepository, publisher EventPublisher, cancellable []models.OrderStatus) *OrderService {
	policy := make(map[models.OrderStatus]bool, len(cancellable))
	for _, status := range cancellable {
		policy[status] = true
	}
	return &OrderService{
		orderRepo:   orderRepo,
		publisher:   publisher,
		cancellable: policy,
	}
}

// CreateOrder validates the checkout request and delegates to the
// repository, which persists order, items, first history row and the
// cart clear in one transaction. The billing address defaults to the
// shipping address when absent.
func (s *OrderService) CreateOrder(order *models.Order) error {
	if order.UserID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidOrder)
	}
	if len(order.Items) == 0 {
		return fmt.Errorf("%w: at least one item is required", ErrInvalidOrder)
	}
	if order.ShippingAddress.IsZero() {
		return fmt.Errorf("%w: shipping address is required", ErrInvalidOrder)
	}
	for i, item := range order.Items {
		if item.ProductID == "" {
			return fmt.Errorf("%w: item %d is missing a product id", ErrInvalidOrder, i)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: item %d quantity must be positive", ErrInvalidOrder, i)
		}
		if item.UnitPrice < 0 {
			return fmt.Errorf("%w: item %d unit price must not be negative", ErrInvalidOrder, i)
		}
	}

	if order.BillingAddress.IsZero() {
		order.BillingAddress = order.ShippingAddress
	}
	order.EstimatedDeliveryDate = time.Now().Add(deliveryLeadTime)

	if err := s.orderRepo.Create(order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	s.publish("order.created", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"user_id":      order.UserID,
		"status":       order.OrderStatus,
		"final_amount": order.FinalAmount,
	})
	return nil
}

// GetAllOrders returns a page of orders, optionally filtered by an
// exact status match. An unknown filter value is rejected up front.
func (s *OrderService) GetAllOrders(limit, offset int, status string) ([]repositories.OrderSummary, error) {
	if status != "" {
		if _, err := models.ParseOrderStatus(status); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
		}
	}
	return s.orderRepo.GetAll(limit, offset, status)
}

// GetUserOrders returns one purchaser's orders, newest first.
func (s *OrderService) GetUserOrders(userID string, limit, offset int) ([]repositories.OrderSummary, error) {
	return s.orderRepo.GetByUser(userID, limit, offset)
}

// GetOrderByID returns the order with items and status history.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// UpdateOrderStatus validates the target against the status whitelist
// and the transition table, then delegates the atomic update+history
// write to the repository.
func (s *OrderService) UpdateOrderStatus(id, rawStatus, comment string, changedBy *string) error {
	target, err := models.ParseOrderStatus(rawStatus)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, rawStatus)
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return err
	}
	if !order.OrderStatus.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, order.OrderStatus, target)
	}

	if err := s.orderRepo.UpdateStatus(id, target, comment, changedBy); err != nil {
		return fmt.Errorf("failed to update order %s status: %w", id, err)
	}

	s.publish("order.status_changed", map[string]interface{}{
		"order_id": id,
		"from":     order.OrderStatus,
		"to":       target,
		"comment":  comment,
	})
	return nil
}

// CancelOrder applies the configured cancellation policy, then lets the
// repository perform the transactional cancel (which re-checks the
// terminal exclusion under the same transaction).
func (s *OrderService) CancelOrder(id, reason, userID string) error {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return err
	}
	if !s.cancellable[order.OrderStatus] {
		return repositories.ErrOrderNotCancellable
	}

	if err := s.orderRepo.Cancel(id, reason, userID); err != nil {
		return err
	}

	s.publish("order.cancelled", map[string]interface{}{
		"order_id": id,
		"user_id":  userID,
		"reason":   reason,
	})
	return nil
}

// Stats returns the reporting aggregate, recomputed on every call.
func (s *OrderService) Stats() (*repositories.OrderStats, error) {
	return s.orderRepo.Stats()
}

// publish sends a lifecycle event to the notification sink. Failures
// are logged and never propagated; the transaction already committed.
func (s *OrderService) publish(event string, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrderEvent(event, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event, err)
	}
}
