package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderCreatedEvent is published after a checkout commits.
type OrderCreatedEvent struct {
	OrderID     string          `json:"orderId"`
	UserID      string          `json:"userId"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ItemCount   int             `json:"itemCount"`
	OrderDate   time.Time       `json:"orderDate"`
}

// NewOrderCreatedEvent builds the event for order.
func NewOrderCreatedEvent(order *Order) OrderCreatedEvent {
	count := 0
	for _, item := range order.Items {
		count += item.Quantity
	}
	return OrderCreatedEvent{
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		ItemCount:   count,
		OrderDate:   order.OrderDate,
	}
}
