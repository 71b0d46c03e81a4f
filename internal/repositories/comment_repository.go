package repositories

import (
	"context"

	"shoestore/internal/models"
)

// CommentRepository defines the interface for comment data access.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	// ListByProduct returns the comments of a product, newest first.
	ListByProduct(ctx context.Context, productID string) ([]models.Comment, error)
	// RatingsByUser returns the rating total and count of userID's comments
	// for every product they commented on.
	RatingsByUser(ctx context.Context, userID string) ([]ProductRatings, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

// ProductRatings is the share of a product's rating aggregate contributed by
// a set of comments.
type ProductRatings struct {
	ProductID   string
	RatingSum   int64
	RatingCount int64
}
