package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatusCompleted is the only status an order takes: payment is simulated
// by the checkout itself.
const OrderStatusCompleted = "completed"

// OrderItem is a snapshot of a cart line at checkout time.
type OrderItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Size        string          `json:"size"`
	Color       string          `json:"color"`
	Image       string          `json:"image"`
}

// Order is a completed checkout. Items are embedded by value and never change
// after the order is written.
type Order struct {
	ID          string          `json:"_id" gorm:"primaryKey;type:varchar(24)"`
	UserID      string          `json:"userId" gorm:"type:varchar(24);not null;index"`
	Items       []OrderItem     `json:"items" gorm:"type:text;serializer:json"`
	TotalAmount decimal.Decimal `json:"totalAmount" gorm:"type:decimal(12,2);not null"`
	OrderDate   time.Time       `json:"orderDate" gorm:"not null;index"`
	Status      string          `json:"status" gorm:"type:varchar(32);not null"`
	Phone       string          `json:"phone" gorm:"type:varchar(32);not null"`
	Address     string          `json:"address" gorm:"type:text;not null"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = NewID()
	}
	if o.OrderDate.IsZero() {
		o.OrderDate = time.Now()
	}
	if o.Status == "" {
		o.Status = OrderStatusCompleted
	}
	return nil
}

// ProductIDs returns the ids of the products in the order.
func (o *Order) ProductIDs() []string {
	ids := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}
