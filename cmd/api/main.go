package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/baxoq/baxoq-store-backend/api/routes"
	authsvc "github.com/baxoq/baxoq-store-backend/internal/auth"
	cartsvc "github.com/baxoq/baxoq-store-backend/internal/cart"
	checkoutsvc "github.com/baxoq/baxoq-store-backend/internal/checkout"
	"github.com/baxoq/baxoq-store-backend/internal/contact"
	"github.com/baxoq/baxoq-store-backend/internal/newsletter"
	"github.com/baxoq/baxoq-store-backend/internal/orders"
	product "github.com/baxoq/baxoq-store-backend/internal/products"
	"github.com/baxoq/baxoq-store-backend/internal/users"
	"github.com/baxoq/baxoq-store-backend/pkg/auth/session"
	"github.com/baxoq/baxoq-store-backend/pkg/config"
	"github.com/baxoq/baxoq-store-backend/pkg/db"
	"github.com/baxoq/baxoq-store-backend/pkg/logger"
	"github.com/baxoq/baxoq-store-backend/pkg/migrate"
	"github.com/baxoq/baxoq-store-backend/pkg/redis"
)

const (
	// Abandoned carts survive a month; checkout sessions are short-lived.
	cartTTL     = 30 * 24 * time.Hour
	checkoutTTL = 2 * time.Hour
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())

	accountService, err := users.NewService(userRepo, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create account service", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	productService, err := product.NewService(product.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	pricing, err := cartsvc.PricingFromConfig(cfg.Pricing)
	if err != nil {
		logg.Error(context.Background(), "failed to parse pricing config", err)
		os.Exit(1)
	}

	cartStore, err := cartsvc.NewRedisStore(redisClient, redisClient, cartTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}
	cartService, err := cartsvc.NewService(cartStore, productService, pricing)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.NewRepository(dbClient.DB()), dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	checkoutStore, err := checkoutsvc.NewRedisStore(redisClient, redisClient, checkoutTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout store", err)
		os.Exit(1)
	}
	checkoutService, err := checkoutsvc.NewService(checkoutStore, cartService, orderService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	newsletterService, err := newsletter.NewService(newsletter.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create newsletter service", err)
		os.Exit(1)
	}

	contactService, err := contact.NewService(contact.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create contact service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:         cfg,
			Logger:         logg,
			DB:             dbClient,
			Redis:          redisClient,
			SessionChecker: sessionManager,
			Auth:           authService,
			Users:          userRepo,
			Accounts:       accountService,
			Products:       productService,
			Cart:           cartService,
			Checkout:       checkoutService,
			Orders:         orderService,
			Newsletter:     newsletterService,
			Contact:        contactService,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(drainCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
