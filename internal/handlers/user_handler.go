package handlers

import (
	"mime/multipart"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"shoestore/internal/apperrors"
	"shoestore/internal/services"
	"shoestore/internal/storage"
)

// UserHandler handles HTTP requests for user profiles and account data.
type UserHandler struct {
	users    *services.UserService
	storage  storage.Storage
	rules    storage.Rules
	validate *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *services.UserService, store storage.Storage, rules storage.Rules) *UserHandler {
	return &UserHandler{
		users:    users,
		storage:  store,
		rules:    rules,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the profile routes under /users.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/:id", h.HandleGetProfile)
	userRoutes.Put("/:id", h.HandleUpdateProfile)
	userRoutes.Put("/:userId/change-password", h.HandleChangePassword)
	userRoutes.Post("/:id/upload-image", h.HandleUploadImage)
	userRoutes.Delete("/:id/delete-account", h.HandleDeleteAccount)
	userRoutes.Delete("/:userId/comments", h.HandleClearComments)
	userRoutes.Delete("/:userId/orders", h.HandleClearOrders)
	userRoutes.Delete("/:userId/cart", h.HandleClearCart)
}

// HandleGetProfile returns a user by id.
func (h *UserHandler) HandleGetProfile(c *fiber.Ctx) error {
	user, err := h.users.GetProfile(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

type updateProfileRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Img      *string `json:"img"`
}

// HandleUpdateProfile changes the profile fields present in the body.
func (h *UserHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.users.UpdateProfile(c.UserContext(), c.Params("id"), services.ProfileUpdate{
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Img:      req.Img,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// HandleChangePassword replaces the password after checking the old one.
func (h *UserHandler) HandleChangePassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	if err := h.users.ChangePassword(c.UserContext(), c.Params("userId"), req.OldPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}

// HandleUploadImage stores the multipart "image" file and makes it the
// user's profile picture.
func (h *UserHandler) HandleUploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return respondError(c, apperrors.Validation("No files uploaded"))
	}
	if err := h.rules.Check([]*multipart.FileHeader{file}); err != nil {
		return respondError(c, err)
	}

	url, err := storage.SaveFile(c.UserContext(), h.storage, file)
	if err != nil {
		return respondError(c, apperrors.Store(err, "Error uploading image"))
	}

	user, err := h.users.SetImage(c.UserContext(), c.Params("id"), url)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

type deleteAccountRequest struct {
	Password string `json:"password" validate:"required"`
}

// HandleDeleteAccount removes the account and all of its data after a
// password check.
func (h *UserHandler) HandleDeleteAccount(c *fiber.Ctx) error {
	var req deleteAccountRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	if err := h.users.DeleteAccount(c.UserContext(), c.Params("id"), req.Password); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Account and all associated data deleted successfully"})
}

// HandleClearComments deletes every comment of a user.
func (h *UserHandler) HandleClearComments(c *fiber.Ctx) error {
	n, err := h.users.ClearComments(c.UserContext(), c.Params("userId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "All user comments deleted successfully", "deletedCount": n})
}

// HandleClearOrders deletes every order of a user.
func (h *UserHandler) HandleClearOrders(c *fiber.Ctx) error {
	n, err := h.users.ClearOrders(c.UserContext(), c.Params("userId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "All user orders deleted successfully", "deletedCount": n})
}

// HandleClearCart deletes every cart line of a user.
func (h *UserHandler) HandleClearCart(c *fiber.Ctx) error {
	n, err := h.users.ClearCart(c.UserContext(), c.Params("userId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "All user cart items deleted successfully", "deletedCount": n})
}
