// Package server assembles the HTTP application.
package server

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shoestore/internal/config"
	"shoestore/internal/handlers"
	"shoestore/internal/middleware"
	"shoestore/internal/services"
	"shoestore/internal/storage"
)

// Services bundles the business services the routes call.
type Services struct {
	Users    *services.UserService
	Orders   *services.OrderService
	Products *services.ProductService
	Cart     *services.CartService
	Comments *services.CommentService
	Admins   *services.AdminService
}

// Deps holds everything New needs to build the app.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Storage  storage.Storage
	Services Services
	Logger   *zap.Logger
}

// New builds the fiber app with middleware, static uploads and every route
// under /api.
func New(d Deps) *fiber.App {
	rules := storage.NewRules(d.Config.Upload)

	app := fiber.New(fiber.Config{
		AppName:      d.Config.App.Name,
		BodyLimit:    bodyLimit(rules),
		ErrorHandler: middleware.ErrorHandler(d.Logger),
	})

	middleware.SetupMiddleware(app, d.Config.CORS, d.Logger)

	if local, ok := d.Storage.(*storage.LocalStorage); ok {
		app.Static("/uploads", local.Dir())
	}

	handlers.NewHealthHandler(d.DB).RegisterRoutes(app)

	api := app.Group("/api")
	handlers.NewAuthHandler(d.Services.Users).RegisterRoutes(api)
	handlers.NewUserHandler(d.Services.Users, d.Storage, rules).RegisterRoutes(api)
	handlers.NewOrderHandler(d.Services.Orders, d.Services.Users).RegisterRoutes(api)
	handlers.NewProductHandler(d.Services.Products).RegisterRoutes(api)
	handlers.NewCartHandler(d.Services.Cart).RegisterRoutes(api)
	handlers.NewCommentHandler(d.Services.Comments).RegisterRoutes(api)
	handlers.NewAdminHandler(d.Services.Admins).RegisterRoutes(api)
	handlers.NewUploadHandler(d.Storage, rules).RegisterRoutes(api)

	app.Use(middleware.NotFound())
	return app
}

// bodyLimit leaves room for a full batch of maximum-size images plus form
// overhead.
func bodyLimit(rules storage.Rules) int {
	const overhead = 1 << 20
	limit := int(rules.MaxFileSize)*rules.MaxFiles + overhead
	if limit < fiber.DefaultBodyLimit {
		return fiber.DefaultBodyLimit
	}
	return limit
}
