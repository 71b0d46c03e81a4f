package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"shoestore/internal/apperrors"
)

// wrapErr maps GORM sentinel errors to application errors for entity and
// wraps everything else with the formatted context.
func wrapErr(err error, entity, format string, args ...any) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NotFound("%s not found", entity)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.Conflict("%s already exists", entity)
	default:
		return fmt.Errorf(format+": %w", append(args, err)...)
	}
}
