// Package services holds the storefront business logic.
package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"shoestore/internal/apperrors"
	"shoestore/internal/logger"
)

// storeError gives a store failure a client-facing message. Errors that
// already carry another kind are returned unchanged.
func storeError(err error, message string) error {
	if apperrors.IsTyped(err) && apperrors.KindOf(err) != apperrors.KindStore {
		return err
	}
	return apperrors.Store(err, message)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func logFrom(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	return logger.FromContext(ctx, fallback)
}

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}
