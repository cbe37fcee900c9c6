package handlers

import (
	"errors"
	"fmt"
	"log"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for the order lifecycle.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app. Routes
// that belong to the admin console take the admin middleware.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, admin fiber.Handler) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/", admin, h.HandleGetOrders)
	orderRoutes.Get("/stats", admin, h.HandleGetStats)
	orderRoutes.Get("/user/:userId", h.HandleGetUserOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Patch("/:id/status", admin, h.HandleUpdateOrderStatus)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)
}

// CreateOrderItemRequest is one purchased line in a checkout request.
type CreateOrderItemRequest struct {
	ProductID    string  `json:"product_id" validate:"required"`
	ProductName  string  `json:"product_name"`
	ProductImage string  `json:"product_image"`
	Quantity     int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice    float64 `json:"unit_price" validate:"gte=0"`
	TotalPrice   float64 `json:"total_price" validate:"gte=0"`
	Size         string  `json:"size"`
	Color        string  `json:"color"`
}

// CreateOrderRequest is the checkout payload. The monetary totals are
// carried as computed by the caller, by convention, and not re-derived
// server-side.
type CreateOrderRequest struct {
	UserID          string                   `json:"user_id" validate:"required"`
	Items           []CreateOrderItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingAddress models.Address           `json:"shipping_address" validate:"required"`
	BillingAddress  models.Address           `json:"billing_address"`
	PaymentMethod   string                   `json:"payment_method" validate:"required"`
	Phone           string                   `json:"phone"`
	Email           string                   `json:"email" validate:"omitempty,email"`
	Notes           string                   `json:"notes"`
	TotalAmount     float64                  `json:"total_amount" validate:"gte=0"`
	DiscountAmount  float64                  `json:"discount_amount" validate:"gte=0"`
	ShippingAmount  float64                  `json:"shipping_amount" validate:"gte=0"`
	TaxAmount       float64                  `json:"tax_amount" validate:"gte=0"`
	FinalAmount     float64                  `json:"final_amount" validate:"gte=0"`
}

// HandleCreateOrder creates a new order from a checkout request.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create order body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	order := &models.Order{
		UserID:          req.UserID,
		TotalAmount:     req.TotalAmount,
		DiscountAmount:  req.DiscountAmount,
		ShippingAmount:  req.ShippingAmount,
		TaxAmount:       req.TaxAmount,
		FinalAmount:     req.FinalAmount,
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		Phone:           req.Phone,
		Email:           req.Email,
		Notes:           req.Notes,
	}
	for _, item := range req.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductImage: item.ProductImage,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			TotalPrice:   item.TotalPrice,
			Size:         item.Size,
			Color:        item.Color,
		})
	}

	if err := h.service.CreateOrder(order); err != nil {
		log.Printf("Error creating order: %v", err)
		return errorResponse(c, err, "Could not create order")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
	})
}

// HandleGetOrders returns a page of all orders (admin console view).
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	status := c.Query("status")

	orders, err := h.service.GetAllOrders(limit, offset, status)
	if err != nil {
		log.Printf("Error getting all orders: %v", err)
		return errorResponse(c, err, "Could not retrieve orders")
	}
	return c.JSON(orders)
}

// HandleGetUserOrders returns one purchaser's orders. Admins may query
// any purchaser; customers are scoped to their own orders regardless of
// the path parameter.
func (h *OrderHandler) HandleGetUserOrders(c *fiber.Ctx) error {
	userID := c.Params("userId")
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	if role, _ := c.Locals("role").(string); role != models.RoleAdmin {
		userID, _ = c.Locals("user_id").(string)
	}

	orders, err := h.service.GetUserOrders(userID, limit, offset)
	if err != nil {
		log.Printf("Error getting orders for user %s: %v", userID, err)
		return errorResponse(c, err, "Could not retrieve orders")
	}
	return c.JSON(orders)
}

// HandleGetOrderByID returns the order with items and status history.
// Customers may only read their own orders.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetOrderByID(orderID)
	if err != nil {
		log.Printf("Error getting order %s: %v", orderID, err)
		return errorResponse(c, err, fmt.Sprintf("Could not retrieve order %s", orderID))
	}
	if role, _ := c.Locals("role").(string); role != models.RoleAdmin {
		if actor, _ := c.Locals("user_id").(string); actor != order.UserID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Access denied",
			})
		}
	}
	return c.JSON(order)
}

// UpdateStatusRequest is the admin status-transition payload.
type UpdateStatusRequest struct {
	Status    string `json:"status" validate:"required"`
	Comment   string `json:"comment"`
	ChangedBy string `json:"changed_by"`
}

// HandleUpdateOrderStatus transitions an order to a new status.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing status update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	changedBy := req.ChangedBy
	if changedBy == "" {
		changedBy, _ = c.Locals("user_id").(string)
	}
	var actor *string
	if changedBy != "" {
		actor = &changedBy
	}

	if err := h.service.UpdateOrderStatus(orderID, req.Status, req.Comment, actor); err != nil {
		log.Printf("Error updating order %s status: %v", orderID, err)
		return errorResponse(c, err, "Could not update order status")
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s status updated to %s", orderID, req.Status),
	})
}

// CancelOrderRequest is the cancellation payload.
type CancelOrderRequest struct {
	Reason string `json:"reason"`
	UserID string `json:"user_id"`
}

// HandleCancelOrder cancels an order when the policy allows it. Admins
// may cancel on a purchaser's behalf; customers only their own orders.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var req CancelOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing cancel body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	userID, _ := c.Locals("user_id").(string)
	if role, _ := c.Locals("role").(string); role == models.RoleAdmin {
		if req.UserID != "" {
			userID = req.UserID
		}
	} else {
		order, err := h.service.GetOrderByID(orderID)
		if err != nil {
			log.Printf("Error getting order %s for cancellation: %v", orderID, err)
			return errorResponse(c, err, "Could not cancel order")
		}
		if order.UserID != userID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Access denied",
			})
		}
	}

	if err := h.service.CancelOrder(orderID, req.Reason, userID); err != nil {
		log.Printf("Error cancelling order %s: %v", orderID, err)
		return errorResponse(c, err, "Could not cancel order")
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s cancelled", orderID),
	})
}

// HandleGetStats returns the reporting aggregate.
func (h *OrderHandler) HandleGetStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats()
	if err != nil {
		log.Printf("Error computing order stats: %v", err)
		return errorResponse(c, err, "Could not compute order stats")
	}
	return c.JSON(stats)
}

// validationErrorResponse renders validator failures field by field.
func validationErrorResponse(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"error":   err.Error(),
	})
}

// errorResponse maps the service/repository error taxonomy to HTTP:
// validation 400, not-found 404, business-rule 409, the rest 500.
// Storage detail stays in the logs, not in the response body.
func errorResponse(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, services.ErrInvalidOrder),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidReturnRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	case errors.Is(err, repositories.ErrOrderNotFound),
		errors.Is(err, repositories.ErrRequestNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	case errors.Is(err, repositories.ErrOrderNotCancellable),
		errors.Is(err, services.ErrIllegalTransition),
		errors.Is(err, services.ErrReturnNotEligible):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": message,
		})
	}
}
