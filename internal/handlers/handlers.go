// Package handlers exposes the storefront services over HTTP.
package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"shoestore/internal/apperrors"
	"shoestore/internal/logger"
)

// fieldErrors reports request struct validation failures per field.
type fieldErrors map[string]string

func (f fieldErrors) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(f))
}

// bind parses the request body into out and validates it.
func bind(c *fiber.Ctx, validate *validator.Validate, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.Validation("Invalid request body")
	}
	if err := validate.Struct(out); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return apperrors.Validation("Invalid request body")
		}
		fields := make(fieldErrors, len(validationErrors))
		for _, e := range validationErrors {
			fields[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return fields
	}
	return nil
}

// respondError writes err as a JSON error response. Store failures are logged
// and never leak their cause to the client.
func respondError(c *fiber.Ctx, err error) error {
	var fields fieldErrors
	if errors.As(err, &fields) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  fields,
		})
	}

	status := apperrors.HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		requestLog(c).Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return c.Status(status).JSON(fiber.Map{
		"message": apperrors.Message(err),
		"error":   apperrors.KindOf(err),
	})
}

func requestLog(c *fiber.Ctx) *zap.Logger {
	return logger.FromContext(c.UserContext(), nil)
}
