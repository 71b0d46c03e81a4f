package repositories

import (
	"context"

	"shoestore/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByLogin finds a user whose username or email equals login.
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	Update(ctx context.Context, id string, updates map[string]any) (*models.User, error)
	Delete(ctx context.Context, id string) error
}
