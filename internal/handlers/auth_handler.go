package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"shoestore/internal/services"
)

// AuthHandler handles account access: registration, login and password recovery.
type AuthHandler struct {
	users    *services.UserService
	validate *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users *services.UserService) *AuthHandler {
	return &AuthHandler{
		users:    users,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the account access routes under /users.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Post("/register", h.HandleRegister)
	userRoutes.Post("/login", h.HandleLogin)
	userRoutes.Post("/check-user", h.HandleCheckUser)
	userRoutes.Post("/forgot-password", h.HandleForgotPassword)
	userRoutes.Post("/reset-password", h.HandleResetPassword)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Img      string `json:"img"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.users.Register(c.UserContext(), services.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Img:      req.Img,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// LoginRequest represents the request body for login. Username may also hold
// the account email.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin checks the credentials and returns the account.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.users.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

type checkUserRequest struct {
	EmailOrUsername string `json:"emailOrUsername" validate:"required"`
}

// HandleCheckUser tells whether an account exists for an email or username.
func (h *AuthHandler) HandleCheckUser(c *fiber.Ctx) error {
	var req checkUserRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	userID, err := h.users.CheckUser(c.UserContext(), req.EmailOrUsername)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"userId":  userID,
		"message": "Valid account",
	})
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HandleForgotPassword emails a password reset link.
func (h *AuthHandler) HandleForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	if err := h.users.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password reset email has been sent",
	})
}

type resetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// HandleResetPassword sets a new password from a reset link token.
func (h *AuthHandler) HandleResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	if err := h.users.ResetPassword(c.UserContext(), req.Token, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password updated successfully",
	})
}
