package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"shoestore/internal/apperrors"
	"shoestore/internal/models"
	"shoestore/internal/repositories"
)

// AddToCartInput is one product line to put in a cart.
type AddToCartInput struct {
	UserID      string
	ProductID   string
	ProductName string
	Price       decimal.Decimal
	Quantity    int
	Size        string
	Color       string
	Image       string
}

// CartService handles shopping carts.
type CartService struct {
	cartRepo repositories.CartRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository) *CartService {
	return &CartService{cartRepo: cartRepo}
}

// Add puts a line in the cart. Adding a line with the same product, size and
// color again adds to its quantity. The returned flag is true when a new line
// was created.
func (s *CartService) Add(ctx context.Context, in AddToCartInput) (*models.CartItem, bool, error) {
	switch {
	case blank(in.UserID):
		return nil, false, apperrors.Validation("User ID is required")
	case blank(in.ProductID):
		return nil, false, apperrors.Validation("Product ID is required")
	case in.Quantity < 1:
		return nil, false, apperrors.Validation("Invalid quantity value")
	case in.Price.IsNegative():
		return nil, false, apperrors.Validation("Invalid price")
	}

	item, created, err := s.cartRepo.Upsert(ctx, &models.CartItem{
		UserID:      strings.TrimSpace(in.UserID),
		ProductID:   strings.TrimSpace(in.ProductID),
		ProductName: in.ProductName,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Size:        in.Size,
		Color:       in.Color,
		Image:       in.Image,
	})
	if err != nil {
		return nil, false, storeError(err, "Error adding cart item")
	}
	return item, created, nil
}

// List returns the cart of a user.
func (s *CartService) List(ctx context.Context, userID string) ([]models.CartItem, error) {
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeError(err, "Error fetching cart items")
	}
	return items, nil
}

// UpdateQuantity sets the quantity of a cart line.
func (s *CartService) UpdateQuantity(ctx context.Context, key repositories.CartLineKey, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, apperrors.Validation("Invalid quantity value")
	}
	item, err := s.cartRepo.UpdateQuantity(ctx, key, quantity)
	if err != nil {
		return nil, storeError(err, "Error updating cart item")
	}
	return item, nil
}

// Remove deletes a cart line.
func (s *CartService) Remove(ctx context.Context, key repositories.CartLineKey) error {
	if err := s.cartRepo.DeleteLine(ctx, key); err != nil {
		return storeError(err, "Error deleting cart item")
	}
	return nil
}

// Clear empties the cart of a user.
func (s *CartService) Clear(ctx context.Context, userID string) (int64, error) {
	n, err := s.cartRepo.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, storeError(err, "Error deleting cart items")
	}
	return n, nil
}
