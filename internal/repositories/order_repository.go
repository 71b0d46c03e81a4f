package repositories

import (
	"context"

	"shoestore/internal/models"
)

// OrderRepository defines the interface for order data access. Orders are
// written once by checkout and never updated.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	// ListByUser returns the orders of a user, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	GetForUser(ctx context.Context, userID, orderID string) (*models.Order, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
