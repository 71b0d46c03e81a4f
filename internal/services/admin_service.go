package services

import (
	"context"

	"shoestore/internal/apperrors"
	"shoestore/internal/models"
	"shoestore/internal/repositories"
)

// AdminService authenticates back-office accounts.
type AdminService struct {
	adminRepo repositories.AdminRepository
}

// NewAdminService creates a new AdminService.
func NewAdminService(adminRepo repositories.AdminRepository) *AdminService {
	return &AdminService{adminRepo: adminRepo}
}

// Login checks admin credentials.
func (s *AdminService) Login(ctx context.Context, name, password string) (*models.Admin, error) {
	admin, err := s.adminRepo.GetByName(ctx, name)
	if isNotFound(err) {
		return nil, apperrors.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, storeError(err, "Login failed")
	}
	if !checkPassword(admin.Adminpass, password) {
		return nil, apperrors.Unauthorized("Invalid credentials")
	}
	return admin, nil
}

// List returns every admin. Password hashes are never serialized.
func (s *AdminService) List(ctx context.Context) ([]models.Admin, error) {
	admins, err := s.adminRepo.List(ctx)
	if err != nil {
		return nil, storeError(err, "Error fetching admins")
	}
	return admins, nil
}
