package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shoestore/internal/mailer"
	"shoestore/internal/models"
	"shoestore/internal/repositories"
	"shoestore/internal/services"
	"shoestore/internal/testutil"
)

func newStore(t *testing.T) (*repositories.Store, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	return repositories.NewStore(db), db
}

func seedCart(t *testing.T, store *repositories.Store, userID string, productIDs ...string) {
	t.Helper()
	for _, productID := range productIDs {
		_, _, err := store.Cart.Upsert(context.Background(), &models.CartItem{
			UserID:      userID,
			ProductID:   productID,
			ProductName: "Shoe " + productID,
			Price:       decimal.NewFromInt(10),
			Quantity:    1,
			Size:        "9",
			Color:       "red",
		})
		require.NoError(t, err)
	}
}

func createProduct(t *testing.T, store *repositories.Store) *models.Product {
	t.Helper()
	product := &models.Product{ProductName: "Runner", ShoeType: "sneaker", Price: decimal.NewFromInt(50), Description: "d"}
	require.NoError(t, store.Products.Create(context.Background(), product))
	return product
}

// rate comments on productID as user through CommentService so the product's
// rating aggregate is updated.
func rate(t *testing.T, store *repositories.Store, productID string, user *models.User, rating int) {
	t.Helper()
	_, err := services.NewCommentService(store, zap.NewNop()).Add(context.Background(), services.AddCommentInput{
		ProductID: productID,
		UserID:    user.ID,
		Username:  user.Username,
		Comment:   "review",
		Rating:    rating,
	})
	require.NoError(t, err)
}

func productRating(t *testing.T, store *repositories.Store, productID string) string {
	t.Helper()
	product, err := store.Products.GetByID(context.Background(), productID)
	require.NoError(t, err)
	return product.Rating.StringFixed(1)
}

func count(t *testing.T, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

// MockMailer is a mock implementation of mailer.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg mailer.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockPublisher is a mock implementation of services.OrderEventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderCreated(ctx context.Context, event models.OrderCreatedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
