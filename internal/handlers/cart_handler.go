package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"shoestore/internal/repositories"
	"shoestore/internal/services"
)

// CartHandler handles HTTP requests for shopping carts.
type CartHandler struct {
	cart     *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cart *services.CartService) *CartHandler {
	return &CartHandler{
		cart:     cart,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes under /cart.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Post("/", h.HandleAddToCart)
	cartRoutes.Get("/:userId", h.HandleGetCart)
	cartRoutes.Put("/:userId/:productId", h.HandleUpdateQuantity)
	cartRoutes.Delete("/:userId/:productId", h.HandleRemoveItem)
}

// AddToCartRequest is the body of an add-to-cart request.
type AddToCartRequest struct {
	UserID      string          `json:"userId" validate:"required"`
	ProductID   string          `json:"productId" validate:"required"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Size        string          `json:"size"`
	Color       string          `json:"color"`
	Image       string          `json:"image"`
}

// HandleAddToCart adds a line to the cart. Answers 201 when a new line was
// created and 200 when the quantity was merged into an existing one.
func (h *CartHandler) HandleAddToCart(c *fiber.Ctx) error {
	var req AddToCartRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	item, created, err := h.cart.Add(c.UserContext(), services.AddToCartInput{
		UserID:      req.UserID,
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Size:        req.Size,
		Color:       req.Color,
		Image:       req.Image,
	})
	if err != nil {
		return respondError(c, err)
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(item)
}

// HandleGetCart returns the cart of a user.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	items, err := h.cart.List(c.UserContext(), c.Params("userId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

// UpdateQuantityRequest sets the quantity of a cart line. Size and color are
// optional and narrow the match to one variant.
type UpdateQuantityRequest struct {
	Quantity int    `json:"quantity"`
	Size     string `json:"size"`
	Color    string `json:"color"`
}

// HandleUpdateQuantity sets the quantity of a cart line.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	var req UpdateQuantityRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	item, err := h.cart.UpdateQuantity(c.UserContext(), repositories.CartLineKey{
		UserID:    c.Params("userId"),
		ProductID: c.Params("productId"),
		Size:      req.Size,
		Color:     req.Color,
	}, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// HandleRemoveItem deletes a cart line. The size and color query parameters
// narrow the match to one variant.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	err := h.cart.Remove(c.UserContext(), repositories.CartLineKey{
		UserID:    c.Params("userId"),
		ProductID: c.Params("productId"),
		Size:      c.Query("size"),
		Color:     c.Query("color"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Cart item deleted successfully"})
}
