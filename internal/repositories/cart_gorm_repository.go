package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shoestore/internal/apperrors"
	"shoestore/internal/models"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// Upsert inserts the line or adds its quantity to the existing one in a single
// INSERT ... ON CONFLICT statement backed by the idx_cart_line unique index.
func (r *GORMCartRepository) Upsert(ctx context.Context, item *models.CartItem) (*models.CartItem, bool, error) {
	db := r.db.WithContext(ctx)

	if item.ID == "" {
		item.ID = models.NewID()
	}
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}, {Name: "size"}, {Name: "color"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity": gorm.Expr("cart_items.quantity + excluded.quantity"),
		}),
	}).Create(item).Error
	if err != nil {
		return nil, false, fmt.Errorf("failed to add cart item: %w", err)
	}

	var stored models.CartItem
	err = db.Where("user_id = ? AND product_id = ? AND size = ? AND color = ?",
		item.UserID, item.ProductID, item.Size, item.Color).
		First(&stored).Error
	if err != nil {
		return nil, false, wrapErr(err, "Cart item", "failed to reload cart item")
	}
	// A merged line keeps the id it was first inserted with.
	return &stored, stored.ID == item.ID, nil
}

// ListByUser retrieves the cart of a user.
func (r *GORMCartRepository) ListByUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get cart of user %s: %w", userID, err)
	}
	return items, nil
}

// UpdateQuantity sets the quantity of the first line matching key.
func (r *GORMCartRepository) UpdateQuantity(ctx context.Context, key CartLineKey, quantity int) (*models.CartItem, error) {
	item, err := r.findLine(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(item).Update("quantity", quantity).Error; err != nil {
		return nil, fmt.Errorf("failed to update cart item %s: %w", item.ID, err)
	}
	item.Quantity = quantity
	return item, nil
}

// DeleteLine deletes the first line matching key.
func (r *GORMCartRepository) DeleteLine(ctx context.Context, key CartLineKey) error {
	item, err := r.findLine(ctx, key)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", item.ID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart item %s: %w", item.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("Cart item not found")
	}
	return nil
}

// DeleteByUserAndProducts deletes every line of userID for the given products.
func (r *GORMCartRepository) DeleteByUserAndProducts(ctx context.Context, userID string, productIDs []string) (int64, error) {
	if len(productIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id IN ?", userID, productIDs).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete paid cart items of user %s: %w", userID, res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteByUser empties the cart of userID.
func (r *GORMCartRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete cart of user %s: %w", userID, res.Error)
	}
	return res.RowsAffected, nil
}

func (r *GORMCartRepository) findLine(ctx context.Context, key CartLineKey) (*models.CartItem, error) {
	q := r.db.WithContext(ctx).Where("user_id = ? AND product_id = ?", key.UserID, key.ProductID)
	if key.Size != "" {
		q = q.Where("size = ?", key.Size)
	}
	if key.Color != "" {
		q = q.Where("color = ?", key.Color)
	}

	var item models.CartItem
	if err := q.First(&item).Error; err != nil {
		return nil, wrapErr(err, "Cart item", "failed to find cart item")
	}
	return &item, nil
}
