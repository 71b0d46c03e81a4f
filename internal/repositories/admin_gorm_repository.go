package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"shoestore/internal/models"
)

// GORMAdminRepository is a GORM implementation of AdminRepository.
type GORMAdminRepository struct {
	db *gorm.DB
}

// NewGORMAdminRepository creates a new instance of GORMAdminRepository.
func NewGORMAdminRepository(db *gorm.DB) *GORMAdminRepository {
	return &GORMAdminRepository{
		db: db,
	}
}

func (r *GORMAdminRepository) GetByName(ctx context.Context, name string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).First(&admin, "adminname = ?", name).Error; err != nil {
		return nil, wrapErr(err, "Admin", "failed to get admin %s", name)
	}
	return &admin, nil
}

func (r *GORMAdminRepository) List(ctx context.Context) ([]models.Admin, error) {
	var admins []models.Admin
	if err := r.db.WithContext(ctx).Order("adminname").Find(&admins).Error; err != nil {
		return nil, fmt.Errorf("failed to get admins: %w", err)
	}
	return admins, nil
}
