package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"shoestore/internal/services"
)

// CommentHandler handles HTTP requests for product reviews.
type CommentHandler struct {
	comments *services.CommentService
	validate *validator.Validate
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{
		comments: comments,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the comment routes under /comments.
func (h *CommentHandler) RegisterRoutes(router fiber.Router) {
	commentRoutes := router.Group("/comments")
	commentRoutes.Get("/:productId", h.HandleGetComments)
	commentRoutes.Post("/", h.HandleAddComment)
}

// AddCommentRequest is the body of a new review.
type AddCommentRequest struct {
	ProductID string `json:"productId" validate:"required"`
	UserID    string `json:"userId" validate:"required"`
	Username  string `json:"username"`
	Comment   string `json:"comment" validate:"required"`
	Rating    int    `json:"rating" validate:"min=1,max=5"`
}

// HandleAddComment stores a review and updates the product rating.
func (h *CommentHandler) HandleAddComment(c *fiber.Ctx) error {
	var req AddCommentRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	comment, err := h.comments.Add(c.UserContext(), services.AddCommentInput{
		ProductID: req.ProductID,
		UserID:    req.UserID,
		Username:  req.Username,
		Comment:   req.Comment,
		Rating:    req.Rating,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// HandleGetComments returns the reviews of a product, newest first.
func (h *CommentHandler) HandleGetComments(c *fiber.Ctx) error {
	comments, err := h.comments.ListByProduct(c.UserContext(), c.Params("productId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}
