package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"shoestore/internal/apperrors"
	"shoestore/internal/auth"
	"shoestore/internal/mailer"
	"shoestore/internal/models"
	"shoestore/internal/repositories"
)

// RegisterInput holds the fields of a new account.
type RegisterInput struct {
	Username string
	Password string
	Email    string
	Img      string
	Phone    string
	Address  string
}

// ProfileUpdate holds profile fields to change. Nil fields are left as they are.
type ProfileUpdate struct {
	Username *string
	Email    *string
	Phone    *string
	Address  *string
	Img      *string
}

// AddressStatus tells the checkout page whether a delivery address is on file.
type AddressStatus struct {
	HasAddress     bool   `json:"hasAddress"`
	CurrentAddress string `json:"currentAddress"`
	CurrentPhone   string `json:"currentPhone"`
}

// UserService handles accounts, profiles and passwords.
type UserService struct {
	store    *repositories.Store
	tokens   *auth.ResetTokens
	mailer   mailer.Mailer
	resetURL string
	logger   *zap.Logger
}

// NewUserService creates a new UserService. Reset links point at resetURL.
func NewUserService(store *repositories.Store, tokens *auth.ResetTokens, m mailer.Mailer, resetURL string, logger *zap.Logger) *UserService {
	return &UserService{
		store:    store,
		tokens:   tokens,
		mailer:   m,
		resetURL: resetURL,
		logger:   logger.Named("users"),
	}
}

// Register creates an account with a bcrypt-hashed password.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if blank(in.Username) || blank(in.Email) || in.Password == "" {
		return nil, apperrors.Validation("Username, password and email are required")
	}

	email := strings.TrimSpace(in.Email)
	if existing, err := s.store.Users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, apperrors.Conflict("Email already registered")
	} else if err != nil && !isNotFound(err) {
		return nil, storeError(err, "Error registering user")
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: strings.TrimSpace(in.Username),
		Password: hash,
		Email:    email,
		Img:      in.Img,
		Phone:    in.Phone,
		Address:  in.Address,
	}
	if err := s.store.Users.Create(ctx, user); err != nil {
		return nil, storeError(err, "Error registering user")
	}

	logFrom(ctx, s.logger).Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}

// Login authenticates by username or email.
func (s *UserService) Login(ctx context.Context, login, password string) (*models.User, error) {
	invalid := apperrors.Validation("Invalid username or password")

	user, err := s.store.Users.GetByLogin(ctx, strings.TrimSpace(login))
	if isNotFound(err) {
		return nil, invalid
	}
	if err != nil {
		return nil, storeError(err, "Login failed")
	}
	if !checkPassword(user.Password, password) {
		return nil, invalid
	}
	return user, nil
}

// GetProfile returns a user by id.
func (s *UserService) GetProfile(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.Users.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Error fetching user profile")
	}
	return user, nil
}

// UpdateProfile changes the provided profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (*models.User, error) {
	updates := map[string]any{}
	if in.Username != nil {
		if blank(*in.Username) {
			return nil, apperrors.Validation("Username cannot be empty")
		}
		updates["username"] = strings.TrimSpace(*in.Username)
	}
	if in.Email != nil {
		if blank(*in.Email) {
			return nil, apperrors.Validation("Email cannot be empty")
		}
		updates["email"] = strings.TrimSpace(*in.Email)
	}
	if in.Phone != nil {
		updates["phone"] = *in.Phone
	}
	if in.Address != nil {
		updates["address"] = *in.Address
	}
	if in.Img != nil {
		updates["img"] = *in.Img
	}
	if len(updates) == 0 {
		return s.GetProfile(ctx, id)
	}

	user, err := s.store.Users.Update(ctx, id, updates)
	if err != nil {
		return nil, storeError(err, "Error updating user profile")
	}
	return user, nil
}

// ChangePassword replaces the password after checking the old one.
func (s *UserService) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	if newPassword == "" {
		return apperrors.Validation("New password is required")
	}

	user, err := s.store.Users.GetByID(ctx, id)
	if err != nil {
		return storeError(err, "Error changing password")
	}
	if !checkPassword(user.Password, oldPassword) {
		return apperrors.Unauthorized("Old password is incorrect")
	}
	return s.setPassword(ctx, id, newPassword, "Error changing password")
}

// CheckAddress reports the delivery details on file for a user.
func (s *UserService) CheckAddress(ctx context.Context, id string) (*AddressStatus, error) {
	user, err := s.store.Users.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Error checking address status")
	}
	return &AddressStatus{
		HasAddress:     user.Address != "",
		CurrentAddress: user.Address,
		CurrentPhone:   user.Phone,
	}, nil
}

// UpdateAddress stores new delivery details.
func (s *UserService) UpdateAddress(ctx context.Context, id, address, phone string) (*models.User, error) {
	user, err := s.store.Users.Update(ctx, id, map[string]any{"address": address, "phone": phone})
	if err != nil {
		return nil, storeError(err, "Error updating address and phone")
	}
	return user, nil
}

// CheckUser returns the id of the account with the given email or username.
func (s *UserService) CheckUser(ctx context.Context, emailOrUsername string) (string, error) {
	user, err := s.store.Users.GetByLogin(ctx, strings.TrimSpace(emailOrUsername))
	if isNotFound(err) {
		return "", apperrors.NotFound("No account found")
	}
	if err != nil {
		return "", storeError(err, "Error checking account")
	}
	return user.ID, nil
}

// ForgotPassword emails a signed password reset link to the account owner.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.store.Users.GetByEmail(ctx, strings.TrimSpace(email))
	if isNotFound(err) {
		return apperrors.NotFound("No user found")
	}
	if err != nil {
		return storeError(err, "Error processing request")
	}

	token, err := s.tokens.Issue(user.ID, user.Password)
	if err != nil {
		return storeError(err, "Error processing request")
	}

	link := s.resetLink(token)
	err = s.mailer.Send(ctx, mailer.Message{
		To:      user.Email,
		Subject: "Reset your password",
		TextBody: fmt.Sprintf("Hi %s,\n\nOpen the link below to choose a new password. It expires in %s.\n\n%s\n\nIf you did not ask for this, ignore this email.\n",
			user.Username, s.tokens.TTL(), link),
	})
	if err != nil {
		logFrom(ctx, s.logger).Error("failed to send reset email", zap.String("user_id", user.ID), zap.Error(err))
		return storeError(err, "Error processing request")
	}
	return nil
}

// ResetPassword sets a new password using a token from a reset link. A token
// works once: the new password hash invalidates it.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return apperrors.Validation("New password is required")
	}

	userID, err := s.tokens.Subject(token)
	if err != nil {
		return apperrors.Validation("Invalid or expired reset token")
	}
	user, err := s.store.Users.GetByID(ctx, userID)
	if err != nil {
		return storeError(err, "Error resetting password")
	}
	if _, err := s.tokens.Verify(token, user.Password); err != nil {
		return apperrors.Validation("Invalid or expired reset token")
	}
	return s.setPassword(ctx, user.ID, newPassword, "Error resetting password")
}

// SetImage stores the URL of an uploaded profile picture.
func (s *UserService) SetImage(ctx context.Context, id, imageURL string) (*models.User, error) {
	user, err := s.store.Users.Update(ctx, id, map[string]any{"img": imageURL})
	if err != nil {
		return nil, storeError(err, "Error uploading image")
	}
	return user, nil
}

// DeleteAccount removes the user and everything they own after checking the
// password. The lookup, the check and the four deletions share one
// transaction, so a failure leaves the account intact.
func (s *UserService) DeleteAccount(ctx context.Context, id, password string) error {
	err := s.store.InTransaction(ctx, func(repos repositories.Repositories) error {
		user, err := repos.Users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !checkPassword(user.Password, password) {
			return apperrors.Unauthorized("Invalid password")
		}

		if _, err := repos.Cart.DeleteByUser(ctx, id); err != nil {
			return err
		}
		if _, err := removeComments(ctx, repos, id); err != nil {
			return err
		}
		if _, err := repos.Orders.DeleteByUser(ctx, id); err != nil {
			return err
		}
		return repos.Users.Delete(ctx, id)
	})
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindStore {
			logFrom(ctx, s.logger).Error("account deletion failed", zap.String("user_id", id), zap.Error(err))
		}
		return storeError(err, "Error deleting account")
	}

	logFrom(ctx, s.logger).Info("account deleted", zap.String("user_id", id))
	return nil
}

// ClearComments deletes every comment of a user and takes their ratings out
// of the products they rated.
func (s *UserService) ClearComments(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := s.store.InTransaction(ctx, func(repos repositories.Repositories) error {
		var err error
		n, err = removeComments(ctx, repos, userID)
		return err
	})
	if err != nil {
		return 0, storeError(err, "Error deleting comments")
	}
	return n, nil
}

// removeComments deletes the comments of userID after subtracting their
// ratings from each product's aggregate. repos must be transaction-bound.
func removeComments(ctx context.Context, repos repositories.Repositories, userID string) (int64, error) {
	ratings, err := repos.Comments.RatingsByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	for _, r := range ratings {
		if err := repos.Products.RemoveRatings(ctx, r); err != nil {
			return 0, err
		}
	}
	return repos.Comments.DeleteByUser(ctx, userID)
}

// ClearOrders deletes every order of a user.
func (s *UserService) ClearOrders(ctx context.Context, userID string) (int64, error) {
	n, err := s.store.Orders.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, storeError(err, "Error deleting orders")
	}
	return n, nil
}

// ClearCart deletes every cart line of a user.
func (s *UserService) ClearCart(ctx context.Context, userID string) (int64, error) {
	n, err := s.store.Cart.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, storeError(err, "Error deleting cart items")
	}
	return n, nil
}

func (s *UserService) setPassword(ctx context.Context, id, password, failure string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	if _, err := s.store.Users.Update(ctx, id, map[string]any{"password": hash}); err != nil {
		return storeError(err, failure)
	}
	return nil
}

func (s *UserService) resetLink(token string) string {
	u, err := url.Parse(s.resetURL)
	if err != nil {
		return s.resetURL + "?token=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

func hashPassword(password string) (string, error) {
	if len(password) > 72 {
		return "", apperrors.Validation("Password must be at most 72 bytes")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.Store(err, "failed to hash password")
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
