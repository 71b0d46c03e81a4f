package repositories

import (
	"context"

	"shoestore/internal/models"
)

// CartLineKey selects cart lines of a user for a product. Empty Size or Color
// match any value.
type CartLineKey struct {
	UserID    string
	ProductID string
	Size      string
	Color     string
}

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	// Upsert adds item to the cart, merging its quantity into an existing line
	// with the same user, product, size and color. It returns the stored line
	// and whether a new line was created.
	Upsert(ctx context.Context, item *models.CartItem) (*models.CartItem, bool, error)
	ListByUser(ctx context.Context, userID string) ([]models.CartItem, error)
	UpdateQuantity(ctx context.Context, key CartLineKey, quantity int) (*models.CartItem, error)
	// DeleteLine deletes the first line matching key.
	DeleteLine(ctx context.Context, key CartLineKey) error
	DeleteByUserAndProducts(ctx context.Context, userID string, productIDs []string) (int64, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
