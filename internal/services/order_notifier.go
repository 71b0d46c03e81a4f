package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"shoestore/internal/mailer"
	"shoestore/internal/models"
	"shoestore/internal/repositories"
)

// OrderNotifier emails a confirmation for every created order.
type OrderNotifier struct {
	users  repositories.UserRepository
	orders repositories.OrderRepository
	mailer mailer.Mailer
	logger *zap.Logger
}

// NewOrderNotifier creates a new OrderNotifier.
func NewOrderNotifier(users repositories.UserRepository, orders repositories.OrderRepository, m mailer.Mailer, logger *zap.Logger) *OrderNotifier {
	return &OrderNotifier{users: users, orders: orders, mailer: m, logger: logger.Named("notifier")}
}

// HandleOrderCreated sends the confirmation email for event. Orders or users
// deleted since the event was published are skipped.
func (n *OrderNotifier) HandleOrderCreated(ctx context.Context, event models.OrderCreatedEvent) error {
	log := logFrom(ctx, n.logger).With(zap.String("order_id", event.OrderID))

	user, err := n.users.GetByID(ctx, event.UserID)
	if err != nil {
		if isNotFound(err) {
			log.Info("skipping confirmation, user no longer exists")
			return nil
		}
		return err
	}
	order, err := n.orders.GetForUser(ctx, event.UserID, event.OrderID)
	if err != nil {
		if isNotFound(err) {
			log.Info("skipping confirmation, order no longer exists")
			return nil
		}
		return err
	}

	if err := n.mailer.Send(ctx, confirmationMessage(user, order)); err != nil {
		return err
	}
	log.Info("order confirmation sent")
	return nil
}

func confirmationMessage(user *models.User, order *models.Order) mailer.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThanks for your order %s placed on %s.\n\n",
		user.Username, order.ID, order.OrderDate.Format("2006-01-02 15:04"))
	for _, item := range order.Items {
		fmt.Fprintf(&b, "- %s", item.ProductName)
		if item.Size != "" {
			fmt.Fprintf(&b, " size %s", item.Size)
		}
		if item.Color != "" {
			fmt.Fprintf(&b, " %s", item.Color)
		}
		fmt.Fprintf(&b, " x%d  %s\n", item.Quantity, item.Price.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: %s\nDelivery to: %s\nPhone: %s\n",
		order.TotalAmount.StringFixed(2), order.Address, order.Phone)

	return mailer.Message{
		To:       user.Email,
		Subject:  "Your order " + order.ID,
		TextBody: b.String(),
	}
}
