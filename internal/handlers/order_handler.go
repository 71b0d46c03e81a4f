package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"shoestore/internal/models"
	"shoestore/internal/services"
)

// OrderHandler handles HTTP requests for checkout and order history.
type OrderHandler struct {
	orders   *services.OrderService
	users    *services.UserService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders *services.OrderService, users *services.UserService) *OrderHandler {
	return &OrderHandler{
		orders:   orders,
		users:    users,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes under /orders. The address routes
// go first so that /:userId/:orderId does not shadow them.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/check-address/:userId", h.HandleCheckAddress)
	orderRoutes.Put("/update-address/:userId", h.HandleUpdateAddress)
	orderRoutes.Post("/process-payment/:userId", h.HandleProcessPayment)
	orderRoutes.Post("/process-single-payment/:userId", h.HandleProcessSinglePayment)
	orderRoutes.Get("/:userId", h.HandleGetOrders)
	orderRoutes.Get("/:userId/:orderId", h.HandleGetOrder)
}

// PaymentRequest is the body of a checkout of several cart lines.
type PaymentRequest struct {
	Items       []models.OrderItem `json:"items"`
	TotalAmount decimal.Decimal    `json:"totalAmount"`
	Phone       string             `json:"phone"`
	Address     string             `json:"address"`
}

// SinglePaymentRequest is the body of a checkout of one cart line.
type SinglePaymentRequest struct {
	Item        *models.OrderItem `json:"item"`
	TotalAmount decimal.Decimal   `json:"totalAmount"`
	Phone       string            `json:"phone"`
	Address     string            `json:"address"`
}

// HandleProcessPayment creates an order and removes the paid lines from the cart.
func (h *OrderHandler) HandleProcessPayment(c *fiber.Ctx) error {
	var req PaymentRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	order, err := h.orders.ProcessPayment(c.UserContext(), c.Params("userId"), services.CheckoutRequest{
		Items:       req.Items,
		TotalAmount: req.TotalAmount,
		Phone:       req.Phone,
		Address:     req.Address,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Payment processed successfully",
		"orderId": order.ID,
	})
}

// HandleProcessSinglePayment creates an order for one item and removes that
// line from the cart.
func (h *OrderHandler) HandleProcessSinglePayment(c *fiber.Ctx) error {
	var req SinglePaymentRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	var items []models.OrderItem
	if req.Item != nil {
		items = []models.OrderItem{*req.Item}
	}
	order, err := h.orders.ProcessSinglePayment(c.UserContext(), c.Params("userId"), services.CheckoutRequest{
		Items:       items,
		TotalAmount: req.TotalAmount,
		Phone:       req.Phone,
		Address:     req.Address,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Single item payment processed successfully",
		"orderId": order.ID,
	})
}

// HandleGetOrders returns the orders of a user, newest first.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.orders.ListByUser(c.UserContext(), c.Params("userId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleGetOrder returns one order of a user.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	order, err := h.orders.GetForUser(c.UserContext(), c.Params("userId"), c.Params("orderId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// HandleCheckAddress reports whether a delivery address is on file.
func (h *OrderHandler) HandleCheckAddress(c *fiber.Ctx) error {
	status, err := h.users.CheckAddress(c.UserContext(), c.Params("userId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(status)
}

type updateAddressRequest struct {
	Address string `json:"address" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
}

// HandleUpdateAddress stores new delivery details for a user.
func (h *OrderHandler) HandleUpdateAddress(c *fiber.Ctx) error {
	var req updateAddressRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.users.UpdateAddress(c.UserContext(), c.Params("userId"), req.Address, req.Phone)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"address": user.Address,
		"phone":   user.Phone,
	})
}
