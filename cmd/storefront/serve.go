package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-storefront-service/config"
	"github.com/fekuna/omnipos-storefront-service/internal/auth"
	"github.com/fekuna/omnipos-storefront-service/internal/broker"
	"github.com/fekuna/omnipos-storefront-service/internal/cache"
	"github.com/fekuna/omnipos-storefront-service/internal/cart"
	"github.com/fekuna/omnipos-storefront-service/internal/database"
	"github.com/fekuna/omnipos-storefront-service/internal/product"
	"github.com/fekuna/omnipos-storefront-service/internal/search"
	"github.com/fekuna/omnipos-storefront-service/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	cartH "github.com/fekuna/omnipos-storefront-service/internal/cart/handler"
	cartListenerPkg "github.com/fekuna/omnipos-storefront-service/internal/cart/listener"
	cartRepoPkg "github.com/fekuna/omnipos-storefront-service/internal/cart/repository"
	cartUCPkg "github.com/fekuna/omnipos-storefront-service/internal/cart/usecase"

	catH "github.com/fekuna/omnipos-storefront-service/internal/category/handler"
	catRepoPkg "github.com/fekuna/omnipos-storefront-service/internal/category/repository"
	catUCPkg "github.com/fekuna/omnipos-storefront-service/internal/category/usecase"

	dashH "github.com/fekuna/omnipos-storefront-service/internal/dashboard/handler"
	dashRepoPkg "github.com/fekuna/omnipos-storefront-service/internal/dashboard/repository"
	dashUCPkg "github.com/fekuna/omnipos-storefront-service/internal/dashboard/usecase"

	prodH "github.com/fekuna/omnipos-storefront-service/internal/product/handler"
	prodRepoPkg "github.com/fekuna/omnipos-storefront-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-storefront-service/internal/product/usecase"

	wishH "github.com/fekuna/omnipos-storefront-service/internal/wishlist/handler"
	wishRepoPkg "github.com/fekuna/omnipos-storefront-service/internal/wishlist/repository"
	wishUCPkg "github.com/fekuna/omnipos-storefront-service/internal/wishlist/usecase"
)

func NewServeCommand(opts *RootOptions) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the gRPC health server and the checkout listener",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(loadConfig(opts), migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the schema before serving")
	return cmd
}

func runServe(cfg *config.Config, migrate bool) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// 1. Logger
	appLogger := newLogger(cfg)
	defer appLogger.Sync()

	policy, err := shippingPolicy(cfg.Storefront)
	if err != nil {
		return err
	}

	// 2. Database
	db, err := connectPostgres(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	if migrate {
		if err := database.Migrate(context.Background(), db); err != nil {
			return err
		}
		appLogger.Info("Schema applied")
	}

	// 3. Repositories
	catRepo := catRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)
	cartRepo := cartRepoPkg.NewPGRepository(db)
	wishRepo := wishRepoPkg.NewPGRepository(db)
	dashRepo := dashRepoPkg.NewPGRepository(db)

	// 4. Optional integrations. The service runs without any of them.
	var listCache product.Cache
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Redis, listing cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			listCache = redisClient
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	var searchIndex product.SearchIndex
	if len(cfg.Elastic.Addresses) > 0 {
		esClient, err := search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch, search served from the database", zap.Error(err))
		} else {
			searchIndex = esClient
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 5. UseCases
	catUC := catUCPkg.NewCategoryUseCase(catRepo, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, catRepo, listCache, searchIndex, cfg.Storefront.ListCacheTTL, appLogger)
	cartUC := cartUCPkg.NewCartUseCase(cartRepo, prodRepo, policy, appLogger)
	wishUC := wishUCPkg.NewWishlistUseCase(wishRepo, prodRepo, catRepo, appLogger)
	dashUC := dashUCPkg.NewDashboardUseCase(dashRepo, cfg.Storefront.LowStockThreshold, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Backfill the index so rows written outside the API are searchable.
	if searchIndex != nil {
		go func() {
			if _, err := prodUC.ReindexProducts(ctx); err != nil {
				appLogger.Error("Startup reindex failed", zap.Error(err))
			}
		}()
	}

	// 6. Checkout listener
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaConsumer := broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer kafkaConsumer.Close()

		checkoutListener := cartListenerPkg.NewCheckoutListener(kafkaConsumer, cartUC, appLogger)
		go checkoutListener.Start(ctx)
		appLogger.Info("Kafka consumer started", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	// 7. HTTP server
	if !cfg.Server.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.NewRouter(server.RouterConfig{
		CORSOrigins: cfg.Server.CORSOrigins,
		Verifier:    auth.NewTokenVerifier(cfg.JWT.SecretKey),
		Logger:      appLogger,
	}, server.Handlers{
		Category:  catH.NewCategoryHandler(catUC, appLogger),
		Product:   prodH.NewProductHandler(prodUC, appLogger),
		Cart:      cartH.NewCartHandler(cartUC, appLogger),
		Wishlist:  wishH.NewWishlistHandler(wishUC, appLogger),
		Dashboard: dashH.NewDashboardHandler(dashUC, appLogger),
	})

	httpServer := &http.Server{
		Addr:              normalizePort(cfg.Server.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 8. gRPC health server
	lis, err := net.Listen("tcp", normalizePort(cfg.Server.GRPCPort))
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	errCh := make(chan error, 2)
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		appLogger.Info("Starting gRPC health server", zap.String("addr", lis.Addr().String()))
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case <-quit:
	case runErr = <-errCh:
		appLogger.Error("Server failed", zap.Error(runErr))
	}

	appLogger.Info("Shutting down server...")
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()

	appLogger.Info("Server stopped")
	return runErr
}

func shippingPolicy(cfg config.StorefrontConfig) (cart.ShippingPolicy, error) {
	threshold, err := decimal.NewFromString(cfg.FreeShippingThreshold)
	if err != nil {
		return cart.ShippingPolicy{}, fmt.Errorf("FREE_SHIPPING_THRESHOLD: %w", err)
	}
	fee, err := decimal.NewFromString(cfg.FlatShippingFee)
	if err != nil {
		return cart.ShippingPolicy{}, fmt.Errorf("FLAT_SHIPPING_FEE: %w", err)
	}
	if threshold.IsNegative() || fee.IsNegative() {
		return cart.ShippingPolicy{}, errors.New("shipping amounts must not be negative")
	}
	return cart.ShippingPolicy{FreeShippingThreshold: threshold, FlatFee: fee}, nil
}

func normalizePort(port string) string {
	if !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}

