package services

import (
	"errors"
	"fmt"
	"log"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

var (
	// ErrInvalidReturnRequest marks request input rejected before any
	// row is written.
	ErrInvalidReturnRequest = errors.New("invalid return request")

	// ErrReturnNotEligible is the business-rule rejection for requests
	// against orders that have not been delivered.
	ErrReturnNotEligible = errors.New("order is not eligible for return or exchange")
)

// ReturnService handles the return/exchange workflow: customer request
// creation and the admin disposition step.
type ReturnService struct {
	returnRepo       repositories.ReturnRepository
	orderRepo        repositories.OrderRepository
	publisher        EventPublisher
	requireDelivered bool
}

// NewReturnService creates a new ReturnService. When requireDelivered
// is set, requests are only accepted against delivered orders.
func NewReturnService(returnRepo repositories.ReturnRepository, orderRepo repositories.OrderRepository, publisher EventPublisher, requireDelivered bool) *ReturnService {
	return &ReturnService{
		returnRepo:       returnRepo,
		orderRepo:        orderRepo,
		publisher:        publisher,
		requireDelivered: requireDelivered,
	}
}

// CreateRequest validates the customer's request and inserts it in
// state "pending". The referenced order must exist and the item must
// belong to it.
func (s *ReturnService) CreateRequest(request *models.ReturnExchangeRequest) error {
	if request.OrderID == "" || request.OrderItemID == "" || request.UserID == "" {
		return fmt.Errorf("%w: order id, order item id and user id are required", ErrInvalidReturnRequest)
	}
	if request.Reason == "" {
		return fmt.Errorf("%w: reason is required", ErrInvalidReturnRequest)
	}
	if _, err := models.ParseRequestType(string(request.RequestType)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidReturnRequest, err)
	}

	order, err := s.orderRepo.GetByID(request.OrderID)
	if err != nil {
		return err
	}
	itemFound := false
	for _, item := range order.Items {
		if item.ID == request.OrderItemID {
			itemFound = true
			break
		}
	}
	if !itemFound {
		return fmt.Errorf("%w: item %s does not belong to order %s", ErrInvalidReturnRequest, request.OrderItemID, request.OrderID)
	}
	if s.requireDelivered && order.OrderStatus != models.StatusDelivered {
		return ErrReturnNotEligible
	}

	if err := s.returnRepo.Create(request); err != nil {
		return fmt.Errorf("failed to create return request: %w", err)
	}

	s.publish("return.requested", map[string]interface{}{
		"request_id":   request.ID,
		"order_id":     request.OrderID,
		"user_id":      request.UserID,
		"request_type": request.RequestType,
	})
	return nil
}

// ListRequests returns requests joined with order, item and requester
// detail; both filters are optional.
func (s *ReturnService) ListRequests(userID, status string) ([]repositories.ReturnSummary, error) {
	if status != "" {
		if _, err := models.ParseReturnStatus(status); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidReturnRequest, err)
		}
	}
	return s.returnRepo.List(userID, status)
}

// DisposeRequest applies the admin resolution: status, comment,
// processor and optional refund amount are written together. A second
// disposition overwrites the first.
func (s *ReturnService) DisposeRequest(id, rawStatus, adminComment, processedBy string, refundAmount *float64) error {
	status, err := models.ParseReturnStatus(rawStatus)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidReturnRequest, err)
	}
	if status == models.ReturnStatusPending {
		return fmt.Errorf("%w: a disposition must approve or reject", ErrInvalidReturnRequest)
	}

	d := repositories.Disposition{
		Status:       status,
		AdminComment: adminComment,
		ProcessedBy:  processedBy,
		RefundAmount: refundAmount,
	}
	if err := s.returnRepo.Dispose(id, d); err != nil {
		return err
	}

	s.publish("return.disposed", map[string]interface{}{
		"request_id":   id,
		"status":       status,
		"processed_by": processedBy,
	})
	return nil
}

func (s *ReturnService) publish(event string, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrderEvent(event, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event, err)
	}
}
