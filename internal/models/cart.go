package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartItem is one line of a user's cart. (UserID, ProductID, Size, Color) is
// unique, so adding the same line twice merges quantities.
type CartItem struct {
	ID          string          `json:"_id" gorm:"primaryKey;type:varchar(24)"`
	UserID      string          `json:"userId" gorm:"type:varchar(24);not null;uniqueIndex:idx_cart_line,priority:1"`
	ProductID   string          `json:"productId" gorm:"type:varchar(24);not null;uniqueIndex:idx_cart_line,priority:2"`
	ProductName string          `json:"productName" gorm:"type:varchar(255);not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Quantity    int             `json:"quantity" gorm:"not null"`
	Size        string          `json:"size" gorm:"type:varchar(32);not null;uniqueIndex:idx_cart_line,priority:3"`
	Color       string          `json:"color" gorm:"type:varchar(64);not null;uniqueIndex:idx_cart_line,priority:4"`
	Image       string          `json:"image" gorm:"type:text"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	return nil
}
