package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"shoestore/internal/models"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create inserts a new order with its embedded line items.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// ListByUser retrieves the orders of a user by order date, newest first.
func (r *GORMOrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("order_date DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get orders of user %s: %w", userID, err)
	}
	return orders, nil
}

// GetForUser retrieves one order that belongs to userID.
func (r *GORMOrderRepository) GetForUser(ctx context.Context, userID, orderID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).First(&order, "id = ? AND user_id = ?", orderID, userID).Error
	if err != nil {
		return nil, wrapErr(err, "Order", "failed to get order %s", orderID)
	}
	return &order, nil
}

// DeleteByUser deletes every order of userID.
func (r *GORMOrderRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Order{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete orders of user %s: %w", userID, res.Error)
	}
	return res.RowsAffected, nil
}
