package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"shoestore/internal/auth"
	"shoestore/internal/config"
	"shoestore/internal/database"
	"shoestore/internal/logger"
	"shoestore/internal/mailer"
	"shoestore/internal/repositories"
	"shoestore/internal/server"
	"shoestore/internal/services"
	"shoestore/internal/storage"
	"shoestore/pkg/rabbitmq"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		logger.New(config.LogConfig{}).Fatal("failed to load configuration", zap.Error(err))
	}

	log := logger.New(cfg.Log)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

// run serves until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	app, cleanup, err := setup(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	// --- Start HTTP Server ---
	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("port", cfg.App.Port), zap.String("env", cfg.App.Env))
		serveErr <- app.Listen(cfg.App.Port)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Error("error during shutdown", zap.Error(err))
	}
	log.Info("server gracefully stopped")
	return nil
}

// setup opens the database and wires every component into the fiber app.
// cleanup releases what setup opened.
func setup(ctx context.Context, cfg *config.Config, log *zap.Logger) (*fiber.App, func(), error) {
	if cfg.IsProduction() && cfg.Reset.Secret == "change-me" {
		log.Warn("RESET_SECRET uses the default value")
	}

	// --- Database ---
	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return nil, nil, err
	}
	closers := []func() error{func() error { return database.Close(db) }}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Warn("cleanup failed", zap.Error(err))
			}
		}
	}

	if err := database.Migrate(db); err != nil {
		cleanup()
		return nil, nil, err
	}
	if err := database.SeedAdmin(ctx, db, cfg.Admin); err != nil {
		cleanup()
		return nil, nil, err
	}

	// --- Collaborators ---
	files, err := storage.New(ctx, cfg.Upload, cfg.S3, log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	mail := mailer.New(cfg.Mail, log)
	store := repositories.NewStore(db)

	// --- Order events (optional) ---
	var publisher services.OrderEventPublisher
	if mq := connectRabbitMQ(ctx, cfg.RabbitMQ, store, mail, log); mq != nil {
		publisher = mq
		closers = append(closers, mq.Close)
	}

	// --- Services and routes ---
	tokens := auth.NewResetTokens(cfg.Reset.Secret, cfg.Reset.TTL)
	app := server.New(server.Deps{
		Config:  cfg,
		DB:      db,
		Storage: files,
		Logger:  log,
		Services: server.Services{
			Users:    services.NewUserService(store, tokens, mail, cfg.Reset.URL, log),
			Orders:   services.NewOrderService(store, publisher, log),
			Products: services.NewProductService(store.Products),
			Cart:     services.NewCartService(store.Cart),
			Comments: services.NewCommentService(store, log),
			Admins:   services.NewAdminService(store.Admins),
		},
	})
	return app, cleanup, nil
}

// connectRabbitMQ connects to the broker and starts the order confirmation
// consumer. The shop works without a broker, so failures only disable order
// events.
func connectRabbitMQ(ctx context.Context, cfg config.RabbitMQConfig, store *repositories.Store, mail mailer.Mailer, log *zap.Logger) *rabbitmq.Client {
	if cfg.URL == "" {
		log.Info("RabbitMQ disabled, order events are not published")
		return nil
	}

	mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.URL, Queue: cfg.Queue}, log)
	if err != nil {
		log.Warn("RabbitMQ unavailable, order events are not published", zap.Error(err))
		return nil
	}

	notifier := services.NewOrderNotifier(store.Users, store.Orders, mail, log)
	if err := mq.ConsumeOrderEvents(ctx, notifier.HandleOrderCreated); err != nil {
		log.Warn("failed to start order event consumer", zap.Error(err))
	}
	return mq
}
