package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"shoestore/internal/services"
)

// AdminHandler handles HTTP requests for back-office accounts.
type AdminHandler struct {
	admins   *services.AdminService
	validate *validator.Validate
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(admins *services.AdminService) *AdminHandler {
	return &AdminHandler{
		admins:   admins,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the admin routes under /admin.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	adminRoutes := router.Group("/admin")
	adminRoutes.Post("/login", h.HandleLogin)
	adminRoutes.Get("/", h.HandleGetAdmins)
}

type adminLoginRequest struct {
	Adminname string `json:"adminname" validate:"required"`
	Adminpass string `json:"adminpass" validate:"required"`
}

// HandleLogin checks admin credentials.
func (h *AdminHandler) HandleLogin(c *fiber.Ctx) error {
	var req adminLoginRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	admin, err := h.admins.Login(c.UserContext(), req.Adminname, req.Adminpass)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"adminId": admin.ID,
	})
}

// HandleGetAdmins lists the admin accounts.
func (h *AdminHandler) HandleGetAdmins(c *fiber.Ctx) error {
	admins, err := h.admins.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(admins)
}
