// Package middleware configures the HTTP middleware chain.
package middleware

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"shoestore/internal/apperrors"
	"shoestore/internal/config"
	"shoestore/internal/logger"
)

const requestIDLocal = "requestid"

// SetupMiddleware configures all application middleware
func SetupMiddleware(app *fiber.App, cfg config.CORSConfig, log *zap.Logger) {
	// Request ID middleware - adds unique ID to each request
	app.Use(requestid.New(requestid.Config{
		ContextKey: requestIDLocal,
	}))

	// Logger middleware - logs all requests
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${locals:requestid} ${status} - ${method} ${path} - ${ip} - ${latency}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
	}))

	// Recover middleware - recovers from panics
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	// Security middleware
	app.Use(helmet.New(helmet.Config{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
		// Uploaded images are embedded by storefront pages on other origins.
		CrossOriginResourcePolicy: "cross-origin",
	}))

	allowOrigins := cfg.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: false,
		ExposeHeaders:    "X-Request-ID",
		MaxAge:           86400,
	}))

	app.Use(RequestContext(log))
}

// RequestContext puts a logger tagged with the request id into the request's
// user context, where services pick it up.
func RequestContext(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, _ := c.Locals(requestIDLocal).(string)
		c.SetUserContext(logger.WithRequestID(c.UserContext(), log, id))
		return c.Next()
	}
}

// ErrorHandler answers errors that escape the handlers, including routing
// errors and recovered panics.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "Internal Server Error"

		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
			msg = fiberErr.Message
		case apperrors.IsTyped(err):
			code = apperrors.HTTPStatus(err)
			msg = apperrors.Message(err)
		}

		if code >= fiber.StatusInternalServerError {
			logger.FromContext(c.UserContext(), log).Error("unhandled error",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}
		return c.Status(code).JSON(fiber.Map{
			"message": msg,
			"error":   http.StatusText(code),
		})
	}
}

// NotFound answers requests no route matched. Register it last.
func NotFound() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "The requested resource was not found",
			"error":   "Not Found",
		})
	}
}
