package handlers

import (
	"fmt"
	"log"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ReturnHandler handles HTTP requests for the return/exchange workflow.
type ReturnHandler struct {
	service  *services.ReturnService
	validate *validator.Validate
}

// NewReturnHandler creates a new ReturnHandler.
func NewReturnHandler(service *services.ReturnService) *ReturnHandler {
	return &ReturnHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the return/exchange routes with the Fiber
// app. Disposition is admin-only.
func (h *ReturnHandler) RegisterRoutes(router fiber.Router, admin fiber.Handler) {
	returnRoutes := router.Group("/returns")
	returnRoutes.Post("/", h.HandleCreateRequest)
	returnRoutes.Get("/", h.HandleListRequests)
	returnRoutes.Patch("/:id", admin, h.HandleDisposeRequest)
}

// CreateReturnRequest is the customer request payload. Description and
// images are the only optional fields.
type CreateReturnRequest struct {
	OrderID     string   `json:"order_id" validate:"required"`
	OrderItemID string   `json:"order_item_id" validate:"required"`
	UserID      string   `json:"user_id" validate:"required"`
	RequestType string   `json:"request_type" validate:"required,oneof=return exchange"`
	Reason      string   `json:"reason" validate:"required"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

// HandleCreateRequest files a new return/exchange request.
func (h *ReturnHandler) HandleCreateRequest(c *fiber.Ctx) error {
	var req CreateReturnRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing return request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	request := &models.ReturnExchangeRequest{
		OrderID:     req.OrderID,
		OrderItemID: req.OrderItemID,
		UserID:      req.UserID,
		RequestType: models.RequestType(req.RequestType),
		Reason:      req.Reason,
		Description: req.Description,
		Images:      models.StringList(req.Images),
	}
	if err := h.service.CreateRequest(request); err != nil {
		log.Printf("Error creating return request: %v", err)
		return errorResponse(c, err, "Could not create return request")
	}

	return c.Status(fiber.StatusCreated).JSON(request)
}

// HandleListRequests lists requests. Admins see everything; customers
// are scoped to their own requests regardless of the filter.
func (h *ReturnHandler) HandleListRequests(c *fiber.Ctx) error {
	userID := c.Query("userId")
	status := c.Query("status")

	if role, _ := c.Locals("role").(string); role != models.RoleAdmin {
		userID, _ = c.Locals("user_id").(string)
	}

	requests, err := h.service.ListRequests(userID, status)
	if err != nil {
		log.Printf("Error listing return requests: %v", err)
		return errorResponse(c, err, "Could not retrieve return requests")
	}
	return c.JSON(requests)
}

// DisposeReturnRequest is the admin disposition payload.
type DisposeReturnRequest struct {
	Status       string   `json:"status" validate:"required"`
	AdminComment string   `json:"admin_comment"`
	ProcessedBy  string   `json:"processed_by"`
	RefundAmount *float64 `json:"refund_amount" validate:"omitempty,gte=0"`
}

// HandleDisposeRequest applies the admin resolution to a request.
func (h *ReturnHandler) HandleDisposeRequest(c *fiber.Ctx) error {
	requestID := c.Params("id")
	var req DisposeReturnRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing disposition body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	processedBy := req.ProcessedBy
	if processedBy == "" {
		processedBy, _ = c.Locals("user_id").(string)
	}

	if err := h.service.DisposeRequest(requestID, req.Status, req.AdminComment, processedBy, req.RefundAmount); err != nil {
		log.Printf("Error disposing return request %s: %v", requestID, err)
		return errorResponse(c, err, "Could not update return request")
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Return request %s marked %s", requestID, req.Status),
	})
}
