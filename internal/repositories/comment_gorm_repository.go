package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"shoestore/internal/models"
)

// GORMCommentRepository is a GORM implementation of CommentRepository.
type GORMCommentRepository struct {
	db *gorm.DB
}

// NewGORMCommentRepository creates a new instance of GORMCommentRepository.
func NewGORMCommentRepository(db *gorm.DB) *GORMCommentRepository {
	return &GORMCommentRepository{
		db: db,
	}
}

// Create inserts a comment.
func (r *GORMCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// ListByProduct retrieves the comments of productID, newest first.
func (r *GORMCommentRepository) ListByProduct(ctx context.Context, productID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get comments of product %s: %w", productID, err)
	}
	return comments, nil
}

// RatingsByUser sums the ratings userID has given, grouped by product.
func (r *GORMCommentRepository) RatingsByUser(ctx context.Context, userID string) ([]ProductRatings, error) {
	var ratings []ProductRatings
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Select("product_id, SUM(rating) AS rating_sum, COUNT(*) AS rating_count").
		Where("user_id = ?", userID).
		Group("product_id").
		Scan(&ratings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum ratings of user %s: %w", userID, err)
	}
	return ratings, nil
}

// DeleteByUser deletes every comment of userID.
func (r *GORMCommentRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Comment{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete comments of user %s: %w", userID, res.Error)
	}
	return res.RowsAffected, nil
}
