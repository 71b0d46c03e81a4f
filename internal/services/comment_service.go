package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"shoestore/internal/apperrors"
	"shoestore/internal/models"
	"shoestore/internal/repositories"
)

// AddCommentInput is a new product review.
type AddCommentInput struct {
	ProductID string
	UserID    string
	Username  string
	Comment   string
	Rating    int
}

// CommentService handles product reviews and the ratings they drive.
type CommentService struct {
	store  *repositories.Store
	logger *zap.Logger
}

// NewCommentService creates a new CommentService.
func NewCommentService(store *repositories.Store, logger *zap.Logger) *CommentService {
	return &CommentService{store: store, logger: logger.Named("comments")}
}

// Add stores a comment and folds its rating into the product's average in
// the same transaction. Commenting on an unknown product is a not-found error
// and stores nothing.
func (s *CommentService) Add(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	switch {
	case blank(in.ProductID):
		return nil, apperrors.Validation("Product ID is required")
	case blank(in.UserID):
		return nil, apperrors.Validation("User ID is required")
	case blank(in.Comment):
		return nil, apperrors.Validation("Comment is required")
	case in.Rating < 1 || in.Rating > 5:
		return nil, apperrors.Validation("Rating must be between 1 and 5")
	}

	comment := &models.Comment{
		ProductID: strings.TrimSpace(in.ProductID),
		UserID:    strings.TrimSpace(in.UserID),
		Username:  in.Username,
		Comment:   in.Comment,
		Rating:    in.Rating,
	}

	err := s.store.InTransaction(ctx, func(repos repositories.Repositories) error {
		if err := repos.Comments.Create(ctx, comment); err != nil {
			return err
		}
		product, err := repos.Products.AddRating(ctx, comment.ProductID, comment.Rating)
		if err != nil {
			return err
		}
		logFrom(ctx, s.logger).Debug("product rating updated",
			zap.String("product_id", product.ID),
			zap.String("rating", product.Rating.StringFixed(1)),
		)
		return nil
	})
	if err != nil {
		return nil, storeError(err, "Error adding comment")
	}
	return comment, nil
}

// ListByProduct returns the comments of a product, newest first.
func (s *CommentService) ListByProduct(ctx context.Context, productID string) ([]models.Comment, error) {
	comments, err := s.store.Comments.ListByProduct(ctx, productID)
	if err != nil {
		return nil, storeError(err, "Error fetching comments")
	}
	return comments, nil
}
