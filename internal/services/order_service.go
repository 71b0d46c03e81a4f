package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"shoestore/internal/apperrors"
	"shoestore/internal/models"
	"shoestore/internal/repositories"
)

// MinPhoneLength is the shortest phone number checkout accepts.
const MinPhoneLength = 10

// OrderEventPublisher announces committed orders.
type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, event models.OrderCreatedEvent) error
}

// CheckoutRequest is the payment of some or all of a user's cart lines.
type CheckoutRequest struct {
	Items       []models.OrderItem
	TotalAmount decimal.Decimal
	Phone       string
	Address     string
}

// OrderService handles checkout and order history.
type OrderService struct {
	store     *repositories.Store
	publisher OrderEventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(store *repositories.Store, publisher OrderEventPublisher, logger *zap.Logger) *OrderService {
	return &OrderService{
		store:     store,
		publisher: publisher,
		logger:    logger.Named("orders"),
	}
}

// ProcessPayment turns the paid items into an order and removes every cart
// line of the user for the paid products, atomically.
func (s *OrderService) ProcessPayment(ctx context.Context, userID string, req CheckoutRequest) (*models.Order, error) {
	order, err := newOrder(userID, req)
	if err != nil {
		return nil, err
	}

	err = s.store.InTransaction(ctx, func(repos repositories.Repositories) error {
		if err := repos.Orders.Create(ctx, order); err != nil {
			return err
		}
		_, err := repos.Cart.DeleteByUserAndProducts(ctx, userID, order.ProductIDs())
		return err
	})
	if err != nil {
		logFrom(ctx, s.logger).Error("payment processing failed", zap.String("user_id", userID), zap.Error(err))
		return nil, storeError(err, "Payment processing failed")
	}

	s.publish(ctx, order)
	return order, nil
}

// ProcessSinglePayment pays for one cart line and removes exactly that line.
// When no line matches the item's size and color, the first line of the
// product is removed instead.
// req must hold a single item.
func (s *OrderService) ProcessSinglePayment(ctx context.Context, userID string, req CheckoutRequest) (*models.Order, error) {
	order, err := newOrder(userID, req)
	if err != nil {
		return nil, err
	}
	if len(order.Items) != 1 {
		return nil, apperrors.Validation("Exactly one item is required")
	}
	item := order.Items[0]

	err = s.store.InTransaction(ctx, func(repos repositories.Repositories) error {
		if err := repos.Orders.Create(ctx, order); err != nil {
			return err
		}
		err := repos.Cart.DeleteLine(ctx, repositories.CartLineKey{
			UserID:    userID,
			ProductID: item.ProductID,
			Size:      item.Size,
			Color:     item.Color,
		})
		// The variant may differ from the stored line; match on product alone.
		if isNotFound(err) && (item.Size != "" || item.Color != "") {
			err = repos.Cart.DeleteLine(ctx, repositories.CartLineKey{UserID: userID, ProductID: item.ProductID})
		}
		// Buying an item that is no longer in the cart is fine.
		if isNotFound(err) {
			return nil
		}
		return err
	})
	if err != nil {
		logFrom(ctx, s.logger).Error("single item payment failed", zap.String("user_id", userID), zap.Error(err))
		return nil, storeError(err, "Single item payment processing failed")
	}

	s.publish(ctx, order)
	return order, nil
}

// ListByUser returns the orders of a user, newest first.
func (s *OrderService) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := s.store.Orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeError(err, "Error fetching orders")
	}
	return orders, nil
}

// GetForUser returns one order of a user.
func (s *OrderService) GetForUser(ctx context.Context, userID, orderID string) (*models.Order, error) {
	order, err := s.store.Orders.GetForUser(ctx, userID, orderID)
	if err != nil {
		return nil, storeError(err, "Error fetching order details")
	}
	return order, nil
}

// publish announces a committed order. A broker failure never fails the
// checkout that already committed.
func (s *OrderService) publish(ctx context.Context, order *models.Order) {
	if s.publisher == nil {
		return
	}
	log := logFrom(ctx, s.logger).With(zap.String("order_id", order.ID))
	if err := s.publisher.PublishOrderCreated(ctx, models.NewOrderCreatedEvent(order)); err != nil {
		log.Warn("failed to publish order created event", zap.Error(err))
		return
	}
	log.Debug("order created event published")
}

// newOrder validates a checkout request and builds the order it creates.
func newOrder(userID string, req CheckoutRequest) (*models.Order, error) {
	phone := strings.TrimSpace(req.Phone)
	if len(phone) < MinPhoneLength {
		return nil, apperrors.Validation("Invalid phone number")
	}
	if blank(userID) {
		return nil, apperrors.Validation("User ID is required")
	}
	if len(req.Items) == 0 {
		return nil, apperrors.Validation("No items to pay for")
	}
	for _, item := range req.Items {
		if blank(item.ProductID) {
			return nil, apperrors.Validation("Every item needs a product ID")
		}
		if item.Quantity < 1 {
			return nil, apperrors.Validation("Invalid quantity for product %s", item.ProductID)
		}
	}
	if req.TotalAmount.IsNegative() {
		return nil, apperrors.Validation("Invalid total amount")
	}
	if blank(req.Address) {
		return nil, apperrors.Validation("Address is required")
	}

	items := make([]models.OrderItem, len(req.Items))
	copy(items, req.Items)
	return &models.Order{
		UserID:      userID,
		Items:       items,
		TotalAmount: req.TotalAmount,
		Status:      models.OrderStatusCompleted,
		Phone:       phone,
		Address:     strings.TrimSpace(req.Address),
	}, nil
}
