package repositories

import (
	"context"

	"gorm.io/gorm"

	"shoestore/internal/apperrors"
)

// Repositories groups the repositories bound to one database handle.
type Repositories struct {
	Users    UserRepository
	Products ProductRepository
	Cart     CartRepository
	Comments CommentRepository
	Orders   OrderRepository
	Admins   AdminRepository
}

// NewRepositories binds every GORM repository to db.
func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:    NewGORMUserRepository(db),
		Products: NewGORMProductRepository(db),
		Cart:     NewGORMCartRepository(db),
		Comments: NewGORMCommentRepository(db),
		Orders:   NewGORMOrderRepository(db),
		Admins:   NewGORMAdminRepository(db),
	}
}

// Store gives access to the repositories and runs units of work.
type Store struct {
	Repositories
	db *gorm.DB
}

// NewStore creates a Store over db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		Repositories: NewRepositories(db),
		db:           db,
	}
}

// InTransaction runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise. Errors that
// already carry an application kind are returned as is; anything else becomes
// a store error.
func (s *Store) InTransaction(ctx context.Context, fn func(repos Repositories) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
	if err == nil || apperrors.IsTyped(err) {
		return err
	}
	return apperrors.Store(err, "transaction failed")
}
