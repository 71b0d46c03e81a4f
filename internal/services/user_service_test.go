package services_test

import (
	"context"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shoestore/internal/apperrors"
	"shoestore/internal/auth"
	"shoestore/internal/mailer"
	"shoestore/internal/models"
	"shoestore/internal/repositories"
	"shoestore/internal/services"
	"shoestore/internal/testutil"
)

func newUserService(t *testing.T, m mailer.Mailer) (*services.UserService, *repositories.Store) {
	t.Helper()
	store, _ := newStore(t)
	if m == nil {
		m = mailer.NewLogMailer(zap.NewNop())
	}
	tokens := auth.NewResetTokens("test-secret", time.Hour)
	return services.NewUserService(store, tokens, m, "http://shop.test/reset-password", zap.NewNop()), store
}

func register(t *testing.T, service *services.UserService, username, email, password string) *models.User {
	t.Helper()
	user, err := service.Register(context.Background(), services.RegisterInput{
		Username: username,
		Password: password,
		Email:    email,
	})
	require.NoError(t, err)
	return user
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	service, _ := newUserService(t, nil)

	user := register(t, service, "alice", "alice@example.com", "s3cret")
	assert.NotEqual(t, "s3cret", user.Password, "password is stored hashed")
	assert.Empty(t, user.Address)

	_, err := service.Register(ctx, services.RegisterInput{Username: "other", Password: "x", Email: "alice@example.com"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = service.Register(ctx, services.RegisterInput{Username: "bob"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	service, _ := newUserService(t, nil)
	user := register(t, service, "alice", "alice@example.com", "s3cret")

	byName, err := service.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byEmail, err := service.Login(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = service.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, "Invalid username or password", apperrors.Message(err))

	_, err = service.Login(ctx, "nobody", "s3cret")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUserService_DeleteAccount(t *testing.T) {
	ctx := context.Background()
	store, db := newStore(t)
	service := services.NewUserService(store, auth.NewResetTokens("s", time.Hour), mailer.NewLogMailer(zap.NewNop()), "", zap.NewNop())

	alice := register(t, service, "alice", "alice@example.com", "s3cret")
	bob := register(t, service, "bob", "bob@example.com", "hunter2")
	product := createProduct(t, store)

	for u, rating := range map[*models.User]int{alice: 1, bob: 4} {
		seedCart(t, store, u.ID, "p1", "p2")
		rate(t, store, product.ID, u, rating)
		require.NoError(t, store.Orders.Create(ctx, &models.Order{UserID: u.ID, TotalAmount: decimal.NewFromInt(10), Phone: "0123456789", Address: "x"}))
	}
	require.Equal(t, "2.5", productRating(t, store, product.ID))

	t.Run("wrong password touches nothing", func(t *testing.T) {
		err := service.DeleteAccount(ctx, alice.ID, "wrong")
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

		assert.Equal(t, int64(1), count(t, db, &models.User{}, "id = ?", alice.ID))
		assert.Equal(t, int64(2), count(t, db, &models.CartItem{}, "user_id = ?", alice.ID))
		assert.Equal(t, int64(1), count(t, db, &models.Comment{}, "user_id = ?", alice.ID))
		assert.Equal(t, int64(1), count(t, db, &models.Order{}, "user_id = ?", alice.ID))
		assert.Equal(t, "2.5", productRating(t, store, product.ID))
	})

	t.Run("unknown user", func(t *testing.T) {
		err := service.DeleteAccount(ctx, models.NewID(), "s3cret")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("correct password removes everything of the user", func(t *testing.T) {
		require.NoError(t, service.DeleteAccount(ctx, alice.ID, "s3cret"))

		assert.Zero(t, count(t, db, &models.User{}, "id = ?", alice.ID))
		assert.Zero(t, count(t, db, &models.CartItem{}, "user_id = ?", alice.ID))
		assert.Zero(t, count(t, db, &models.Comment{}, "user_id = ?", alice.ID))
		assert.Zero(t, count(t, db, &models.Order{}, "user_id = ?", alice.ID))

		assert.Equal(t, int64(1), count(t, db, &models.User{}, "id = ?", bob.ID))
		assert.Equal(t, int64(2), count(t, db, &models.CartItem{}, "user_id = ?", bob.ID))

		got, err := store.Products.GetByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, "4.0", got.Rating.StringFixed(1), "only bob's rating is left")
		assert.Equal(t, int64(1), got.RatingCount)
		assert.Equal(t, int64(4), got.RatingSum)
	})
}

func TestUserService_DeleteAccount_LaterRatingsIgnoreDeletedComments(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	service := services.NewUserService(store, auth.NewResetTokens("s", time.Hour), mailer.NewLogMailer(zap.NewNop()), "", zap.NewNop())

	troll := register(t, service, "troll", "troll@example.com", "s3cret")
	fan := register(t, service, "fan", "fan@example.com", "s3cret")
	product := createProduct(t, store)

	rate(t, store, product.ID, troll, 1)
	require.NoError(t, service.DeleteAccount(ctx, troll.ID, "s3cret"))
	assert.Equal(t, "0.0", productRating(t, store, product.ID))

	rate(t, store, product.ID, fan, 5)
	assert.Equal(t, "5.0", productRating(t, store, product.ID))
}

func TestUserService_DeleteAccount_RollsBack(t *testing.T) {
	ctx := context.Background()
	store, db := newStore(t)
	service := services.NewUserService(store, auth.NewResetTokens("s", time.Hour), mailer.NewLogMailer(zap.NewNop()), "", zap.NewNop())

	alice := register(t, service, "alice", "alice@example.com", "s3cret")
	seedCart(t, store, alice.ID, "p1")
	require.NoError(t, store.Orders.Create(ctx, &models.Order{UserID: alice.ID, TotalAmount: decimal.NewFromInt(10), Phone: "0123456789", Address: "x"}))

	testutil.FailDeletesOn(t, db, "users")

	err := service.DeleteAccount(ctx, alice.ID, "s3cret")
	assert.ErrorIs(t, err, apperrors.ErrStore)

	assert.Equal(t, int64(1), count(t, db, &models.User{}, "id = ?", alice.ID))
	assert.Equal(t, int64(1), count(t, db, &models.CartItem{}, "user_id = ?", alice.ID))
	assert.Equal(t, int64(1), count(t, db, &models.Order{}, "user_id = ?", alice.ID))
}

func TestUserService_Profile(t *testing.T) {
	ctx := context.Background()
	service, _ := newUserService(t, nil)
	alice := register(t, service, "alice", "alice@example.com", "s3cret")
	register(t, service, "bob", "bob@example.com", "hunter2")

	phone := "0987654321"
	updated, err := service.UpdateProfile(ctx, alice.ID, services.ProfileUpdate{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, updated.Phone)
	assert.Equal(t, "alice", updated.Username)

	taken := "bob@example.com"
	_, err = service.UpdateProfile(ctx, alice.ID, services.ProfileUpdate{Email: &taken})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = service.GetProfile(ctx, models.NewID())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	status, err := service.CheckAddress(ctx, alice.ID)
	require.NoError(t, err)
	assert.False(t, status.HasAddress)

	_, err = service.UpdateAddress(ctx, alice.ID, "12 Shoe Lane", "0123456789")
	require.NoError(t, err)
	status, err = service.CheckAddress(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, status.HasAddress)
	assert.Equal(t, "12 Shoe Lane", status.CurrentAddress)
	assert.Equal(t, "0123456789", status.CurrentPhone)

	withImage, err := service.SetImage(ctx, alice.ID, "/uploads/me.png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/me.png", withImage.Img)

	id, err := service.CheckUser(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, id)
	_, err = service.CheckUser(ctx, "carol")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	service, _ := newUserService(t, nil)
	alice := register(t, service, "alice", "alice@example.com", "s3cret")

	err := service.ChangePassword(ctx, alice.ID, "wrong", "new-pass")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	err = service.ChangePassword(ctx, models.NewID(), "s3cret", "new-pass")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, service.ChangePassword(ctx, alice.ID, "s3cret", "new-pass"))
	_, err = service.Login(ctx, "alice", "new-pass")
	assert.NoError(t, err)
}

var tokenPattern = regexp.MustCompile(`http://shop\.test/reset-password\?token=\S+`)

func TestUserService_ForgotAndResetPassword(t *testing.T) {
	ctx := context.Background()
	m := new(MockMailer)
	service, _ := newUserService(t, m)
	register(t, service, "alice", "alice@example.com", "s3cret")

	var sent mailer.Message
	m.On("Send", mock.Anything, mock.MatchedBy(func(msg mailer.Message) bool {
		return msg.To == "alice@example.com"
	})).Run(func(args mock.Arguments) {
		sent = args.Get(1).(mailer.Message)
	}).Return(nil).Once()

	require.NoError(t, service.ForgotPassword(ctx, "alice@example.com"))
	m.AssertExpectations(t)

	link := tokenPattern.FindString(sent.TextBody)
	require.NotEmpty(t, link)
	u, err := url.Parse(link)
	require.NoError(t, err)
	token := u.Query().Get("token")

	require.NoError(t, service.ResetPassword(ctx, token, "brand-new"))
	_, err = service.Login(ctx, "alice", "brand-new")
	assert.NoError(t, err)

	err = service.ResetPassword(ctx, token, "again")
	assert.ErrorIs(t, err, apperrors.ErrValidation, "a token works once")

	err = service.ResetPassword(ctx, "garbage", "again")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	err = service.ForgotPassword(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserService_BulkClears(t *testing.T) {
	ctx := context.Background()
	store, db := newStore(t)
	service := services.NewUserService(store, auth.NewResetTokens("s", time.Hour), mailer.NewLogMailer(zap.NewNop()), "", zap.NewNop())

	seedCart(t, store, "u1", "p1", "p2")
	product := createProduct(t, store)
	rate(t, store, product.ID, &models.User{ID: "u1", Username: "alice"}, 3)
	rate(t, store, product.ID, &models.User{ID: "u2", Username: "bob"}, 5)
	require.NoError(t, store.Comments.Create(ctx, &models.Comment{ProductID: "gone", UserID: "u1", Comment: "ok", Rating: 2}))
	require.Equal(t, "4.0", productRating(t, store, product.ID))

	n, err := service.ClearCart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = service.ClearComments(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, "5.0", productRating(t, store, product.ID))

	n, err = service.ClearComments(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, "0.0", productRating(t, store, product.ID))

	n, err = service.ClearOrders(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.Zero(t, count(t, db, &models.CartItem{}, "user_id = ?", "u1"))
}

func TestUserService_ClearComments_RollsBack(t *testing.T) {
	ctx := context.Background()
	store, db := newStore(t)
	service := services.NewUserService(store, auth.NewResetTokens("s", time.Hour), mailer.NewLogMailer(zap.NewNop()), "", zap.NewNop())

	product := createProduct(t, store)
	rate(t, store, product.ID, &models.User{ID: "u1", Username: "alice"}, 2)
	rate(t, store, product.ID, &models.User{ID: "u2", Username: "bob"}, 5)

	testutil.FailDeletesOn(t, db, "comments")

	_, err := service.ClearComments(ctx, "u1")
	assert.ErrorIs(t, err, apperrors.ErrStore)

	assert.Equal(t, int64(1), count(t, db, &models.Comment{}, "user_id = ?", "u1"))
	assert.Equal(t, "3.5", productRating(t, store, product.ID), "the rating is restored with the comments")
}
