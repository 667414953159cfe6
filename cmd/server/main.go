package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/labstack/echo/v4"
	"github.com/openkicks/storefront/internal"
	"github.com/openkicks/storefront/internal/catalog"
	"github.com/openkicks/storefront/internal/events"
	"github.com/openkicks/storefront/internal/handler/api"
	"github.com/openkicks/storefront/internal/middleware"
	"github.com/openkicks/storefront/internal/postgres"
	"github.com/openkicks/storefront/internal/routes"
	"github.com/openkicks/storefront/internal/service"
	"github.com/openkicks/storefront/internal/store"
	"github.com/openkicks/storefront/internal/telemetry"
)

func run() error {
	ctx := context.Background()

	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("catalog load failed: %w", err)
	}
	logger.Info().Int("products", len(cat.Products())).Msg("catalog loaded")

	// Persistent store when DATABASE_URL is set, in-memory otherwise.
	var st store.Store
	if cfg.DatabaseURL != "" {
		sqlDB, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		if err := sqlDB.Ping(); err != nil {
			sqlDB.Close()
			return fmt.Errorf("database ping failed: %w", err)
		}
		if err := internal.RunMigrations(sqlDB); err != nil {
			sqlDB.Close()
			return fmt.Errorf("migration failed: %w", err)
		}
		sqlDB.Close()
		logger.Info().Msg("database migrations completed")

		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to create connection pool: %w", err)
		}
		defer pool.Close()
		st = postgres.NewStore(pool)
		logger.Info().Msg("using postgres store")
	} else {
		st = store.NewMemory()
		logger.Info().Msg("using in-memory store")
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.NatsURL != "" {
		natsPub, err := events.NewNATSPublisher(cfg.NatsURL)
		if err != nil {
			return fmt.Errorf("nats connection failed: %w", err)
		}
		publisher = natsPub
		logger.Info().Str("url", cfg.NatsURL).Msg("connected to nats")
	}
	defer publisher.Close()

	business := telemetry.NewBusinessMetrics(cfg.MetricsNamespace)
	httpMetrics := middleware.NewMetrics(cfg.MetricsNamespace)

	cartService := service.NewCartService(st, cat, business)
	checkoutService := service.NewCheckoutService(st, publisher, business, logger)
	orderService := service.NewOrderService(st)
	productService := service.NewProductService(cat)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = api.NewRequestValidator()
	e.HTTPErrorHandler = api.HTTPErrorHandler

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(httpMetrics.Middleware())

	routes.Register(e, routes.Deps{
		Products: api.NewProductHandler(productService),
		Cart:     api.NewCartHandler(cartService),
		Checkout: api.NewCheckoutHandler(checkoutService),
		Orders:   api.NewOrderHandler(orderService),
		Metrics:  httpMetrics,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
