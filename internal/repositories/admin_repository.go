package repositories

import (
	"context"

	"shoestore/internal/models"
)

// AdminRepository defines the interface for admin data access.
type AdminRepository interface {
	GetByName(ctx context.Context, name string) (*models.Admin, error)
	List(ctx context.Context) ([]models.Admin, error)
}
