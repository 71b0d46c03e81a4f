package repositories

import (
	"context"

	"shoestore/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	// AddRating folds one comment rating into the product's aggregate and
	// returns the product with its recomputed rating.
	AddRating(ctx context.Context, id string, rating int) (*models.Product, error)
	// RemoveRatings takes deleted comments back out of the aggregate.
	RemoveRatings(ctx context.Context, ratings ProductRatings) error
}
