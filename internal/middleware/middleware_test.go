package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"shoestore/internal/apperrors"
	"shoestore/internal/config"
	"shoestore/internal/logger"
)

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestErrorHandler(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.New(core))})
	app.Get("/typed", func(c *fiber.Ctx) error { return apperrors.NotFound("Order not found") })
	app.Get("/fiber", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })
	app.Get("/plain", func(c *fiber.Ctx) error { return errors.New("boom") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/typed", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Order not found", decode(t, resp)["message"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/fiber", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.Equal(t, "short and stout", decode(t, resp)["message"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/plain", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "Internal Server Error", body["message"])
	assert.Equal(t, 1, logs.FilterMessage("unhandled error").Len())
}

func TestSetupMiddleware_RequestContext(t *testing.T) {
	app := fiber.New()
	SetupMiddleware(app, config.CORSConfig{}, zap.NewNop())

	var seen string
	app.Get("/ping", func(c *fiber.Ctx) error {
		seen = logger.RequestID(c.UserContext())
		return c.SendString("pong")
	})
	app.Use(NotFound())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-7")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "req-7", seen)
	assert.Equal(t, "req-7", resp.Header.Get(fiber.HeaderXRequestID))
	assert.Equal(t, "nosniff", resp.Header.Get(fiber.HeaderXContentTypeOptions))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not Found", decode(t, resp)["error"])
}

func TestRecoverUsesErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
	SetupMiddleware(app, config.CORSConfig{AllowOrigins: "http://shop.test"}, zap.NewNop())
	app.Get("/panic", func(c *fiber.Ctx) error { panic("kaboom") })

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set(fiber.HeaderOrigin, "http://shop.test")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "http://shop.test", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
}
