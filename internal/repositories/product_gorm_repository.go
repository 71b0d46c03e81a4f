package repositories

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"shoestore/internal/apperrors"
	"shoestore/internal/models"
)

// editableProductColumns are the columns a catalog update may change. The
// rating aggregate is owned by AddRating and RemoveRatings.
var editableProductColumns = []string{
	"product_name", "shoe_type", "images", "price", "description", "colors", "sizes", "updated_at",
}

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// List retrieves all products in insertion order.
func (r *GORMProductRepository) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("created_at").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, wrapErr(err, "Product", "failed to get product by ID %s", id)
	}
	return &product, nil
}

// Create creates a new product.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return wrapErr(err, "Product", "failed to create product")
	}
	return nil
}

// Update overwrites the editable fields of an existing product, including
// zero values.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{ID: product.ID}).
		Select(editableProductColumns).
		Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("Product not found")
	}
	return nil
}

// Delete deletes a product by its ID.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("Product not found")
	}
	return nil
}

// AddRating increments the rating sum and count in a single statement so
// concurrent comments never lose an update, then stores the rounded mean.
// It should run inside the transaction that inserts the comment.
func (r *GORMProductRepository) AddRating(ctx context.Context, id string, rating int) (*models.Product, error) {
	db := r.db.WithContext(ctx)

	res := db.Model(&models.Product{}).Where("id = ?", id).Updates(map[string]any{
		"rating_sum":   gorm.Expr("rating_sum + ?", rating),
		"rating_count": gorm.Expr("rating_count + ?", 1),
	})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update rating of product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.NotFound("Product not found")
	}

	var product models.Product
	if err := db.First(&product, "id = ?", id).Error; err != nil {
		return nil, wrapErr(err, "Product", "failed to reload product %s", id)
	}

	product.Rating = AverageRating(product.RatingSum, product.RatingCount)
	if err := db.Model(&product).UpdateColumn("rating", product.Rating).Error; err != nil {
		return nil, fmt.Errorf("failed to store rating of product %s: %w", id, err)
	}
	return &product, nil
}

// RemoveRatings subtracts ratings from the product's sum and count and stores
// the new mean. It should run inside the transaction that deletes the
// comments. Products that no longer exist are skipped.
func (r *GORMProductRepository) RemoveRatings(ctx context.Context, ratings ProductRatings) error {
	db := r.db.WithContext(ctx)
	id := ratings.ProductID

	res := db.Model(&models.Product{}).Where("id = ?", id).Updates(map[string]any{
		"rating_sum":   gorm.Expr("rating_sum - ?", ratings.RatingSum),
		"rating_count": gorm.Expr("rating_count - ?", ratings.RatingCount),
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update rating of product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil
	}

	var product models.Product
	if err := db.First(&product, "id = ?", id).Error; err != nil {
		return wrapErr(err, "Product", "failed to reload product %s", id)
	}

	rating := AverageRating(product.RatingSum, product.RatingCount)
	if err := db.Model(&product).UpdateColumn("rating", rating).Error; err != nil {
		return fmt.Errorf("failed to store rating of product %s: %w", id, err)
	}
	return nil
}

// AverageRating returns sum/count rounded half away from zero to one decimal.
func AverageRating(sum, count int64) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(sum).DivRound(decimal.NewFromInt(count), 1)
}
