package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pricebench/internal/catalog"
	"pricebench/internal/config"
	"pricebench/internal/database"
	"pricebench/internal/handler"
	"pricebench/internal/metrics"
	"pricebench/internal/repository"
	"pricebench/internal/router"
	"pricebench/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger, "pricebench-api")
	logger.Info().
		Str("catalog_source", cfg.Catalog.Source).
		Msg("starting pricebench API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to prepare schema: %w", err)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m = metrics.New(cfg.Metrics.Namespace, reg)
	}

	customerRepo := repository.NewCustomerRepository(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	var (
		lookup   catalog.Lookup
		products repository.ProductRepository
	)

	switch cfg.Catalog.Source {
	case config.CatalogSourceSnapshot:
		mem, err := loadSnapshot(ctx, cfg, logger)
		if err != nil {
			return err
		}
		lookup, products = mem, mem
	default:
		if cfg.Catalog.SeedOnStart {
			catalogRepo := repository.NewCatalogRepository(pool, logger)
			if _, err := catalog.EnsureSeeded(ctx, catalogRepo, cfg.Catalog.SeedCustomers, cfg.Catalog.SeedProducts, logger); err != nil {
				return fmt.Errorf("failed to seed catalog: %w", err)
			}
		}
		lookup, products = catalog.NewRepositoryLookup(customerRepo, productRepo), productRepo
	}

	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, catalog cache will degrade to direct lookups")
		}
		lookup = catalog.NewCachedLookup(lookup, client, cfg.Redis.CacheTTL, logger)
	}

	loc, err := cfg.Pricing.Location()
	if err != nil {
		return fmt.Errorf("failed to load pricing time zone: %w", err)
	}
	clock := func() time.Time { return time.Now().In(loc) }

	orderService := service.NewOrderService(lookup, orderRepo, clock, m, logger)
	productService := service.NewProductService(products, logger)
	customerService := service.NewCustomerService(lookup, logger)

	handlers := router.Handlers{
		Order:   handler.NewOrderHandler(orderService, logger),
		Product: handler.NewProductHandler(productService, customerService, logger),
		Health:  handler.NewHealthHandler(pool, logger),
	}

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router.New(handlers, cfg.Auth.APIKey, m, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Bool("auth_enabled", cfg.Auth.APIKey != "").
			Bool("metrics_enabled", m != nil).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// loadSnapshot reads the catalog snapshot from S3 when enabled, falling back
// to the local file.
func loadSnapshot(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*catalog.MemoryCatalog, error) {
	fileLoader := catalog.NewFileLoader(logger)

	var s3Loader catalog.Loader
	if cfg.S3.Enabled {
		l, err := catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = l
		}
	} else {
		logger.Info().Msg("using local file system for catalog snapshot (S3 disabled)")
	}

	loader := catalog.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Key, logger)

	snapshot, err := loader.Load(ctx, cfg.Catalog.SnapshotPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog snapshot: %w", err)
	}

	mem, err := catalog.NewMemoryCatalog(*snapshot)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog snapshot: %w", err)
	}

	customers, products := mem.Size()
	logger.Info().
		Int("customers", customers).
		Int("products", products).
		Msg("catalog snapshot loaded")

	return mem, nil
}
