package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ambev-sales/sales-service/pkg/cloudevents"
	"github.com/ambev-sales/sales-service/pkg/kafka"
	"github.com/ambev-sales/sales-service/pkg/logging"
	"github.com/ambev-sales/sales-service/pkg/metrics"
	"github.com/ambev-sales/sales-service/pkg/middleware"
	salesmongo "github.com/ambev-sales/sales-service/pkg/mongodb"
	pgclient "github.com/ambev-sales/sales-service/pkg/postgres"
	"github.com/ambev-sales/sales-service/pkg/resilience"
	"github.com/ambev-sales/sales-service/pkg/tracing"

	"github.com/ambev-sales/sales-service/internal/api/handlers"
	"github.com/ambev-sales/sales-service/internal/application"
	"github.com/ambev-sales/sales-service/internal/domain"
	"github.com/ambev-sales/sales-service/internal/infrastructure/cache"
	mongoRepo "github.com/ambev-sales/sales-service/internal/infrastructure/mongodb"
	pgRepo "github.com/ambev-sales/sales-service/internal/infrastructure/postgres"
)

const serviceName = "sales-service"

func main() {
	decimal.MarshalJSONWithoutQuotes = true

	config, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	if err := run(context.Background(), config, appDependencies{}, signalCh); err != nil {
		os.Exit(1)
	}
}

type tracerProvider interface {
	Shutdown(ctx context.Context) error
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// saleStore bundles the repositories of the selected backend
type saleStore struct {
	sales domain.SaleRepository
	items domain.SaleItemRepository
	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

type appDependencies struct {
	initTracing   func(ctx context.Context, cfg *tracing.Config) (tracerProvider, error)
	openStore     func(ctx context.Context, config *Config, m *metrics.Metrics, logger *logging.Logger) (*saleStore, error)
	newProducer   func(cfg *kafka.Config, m *metrics.Metrics, logger *logging.Logger) kafka.EventProducer
	newCache      func(ctx context.Context, cfg *cache.Config) (application.SaleCache, func() error, error)
	newHTTPServer func(addr string, handler http.Handler) httpServer
}

func defaultDependencies() appDependencies {
	return appDependencies{
		initTracing: func(ctx context.Context, cfg *tracing.Config) (tracerProvider, error) {
			return tracing.Initialize(ctx, cfg)
		},
		openStore: openStore,
		newProducer: func(cfg *kafka.Config, m *metrics.Metrics, logger *logging.Logger) kafka.EventProducer {
			return kafka.NewProductionProducer(cfg, m, logger)
		},
		newCache: func(ctx context.Context, cfg *cache.Config) (application.SaleCache, func() error, error) {
			rdb, err := cache.NewClient(ctx, cfg)
			if err != nil {
				return nil, nil, err
			}
			return cache.NewSaleCache(rdb, cfg.TTL), rdb.Close, nil
		},
		newHTTPServer: func(addr string, handler http.Handler) httpServer {
			return &http.Server{
				Addr:         addr,
				Handler:      handler,
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 30 * time.Second,
			}
		},
	}
}

func (d appDependencies) withDefaults() appDependencies {
	def := defaultDependencies()
	if d.initTracing == nil {
		d.initTracing = def.initTracing
	}
	if d.openStore == nil {
		d.openStore = def.openStore
	}
	if d.newProducer == nil {
		d.newProducer = def.newProducer
	}
	if d.newCache == nil {
		d.newCache = def.newCache
	}
	if d.newHTTPServer == nil {
		d.newHTTPServer = def.newHTTPServer
	}
	return d
}

func run(ctx context.Context, config *Config, deps appDependencies, signalCh <-chan os.Signal) error {
	deps = deps.withDefaults()
	if config == nil {
		config = defaultConfig()
	}

	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(config.LogLevel)
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting sales-service API", "store", config.Store)

	// Initialize OpenTelemetry tracing
	tracingConfig := tracing.DefaultConfig(serviceName)
	tracingConfig.OTLPEndpoint = config.Tracing.Endpoint
	tracingConfig.Environment = config.Tracing.Environment
	tracingConfig.Enabled = config.Tracing.Enabled
	if config.Tracing.SampleRate > 0 {
		tracingConfig.SampleRate = config.Tracing.SampleRate
	}

	tracerProvider, err := deps.initTracing(ctx, tracingConfig)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tracing")
		// Continue without tracing
	} else if tracerProvider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("Failed to shutdown tracer")
			}
		}()
		logger.Info("Tracing initialized", "endpoint", tracingConfig.OTLPEndpoint)
	}

	m := metrics.New(metrics.DefaultConfig(serviceName))
	businessMetrics := middleware.NewBusinessMetrics(m)

	store, err := deps.openStore(ctx, config, m, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to open sale store", "store", config.Store)
		return fmt.Errorf("failed to open %s store: %w", config.Store, err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.close(closeCtx); err != nil {
			logger.WithError(err).Warn("Failed to close sale store")
		}
	}()
	logger.Info("Sale store ready", "store", config.Store)

	var saleCache application.SaleCache
	if config.Redis.Enabled {
		c, closeCache, err := deps.newCache(ctx, config.Redis)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, continuing without sale cache", "addr", config.Redis.Addr)
		} else {
			saleCache = c
			defer func() {
				_ = closeCache()
			}()
			logger.Info("Sale cache enabled", "addr", config.Redis.Addr, "ttl", config.Redis.TTL)
		}
	}

	producer := deps.newProducer(config.Kafka, m, logger)
	defer func() {
		_ = producer.Close()
	}()
	logger.Info("Kafka producer initialized", "brokers", config.Kafka.Brokers)

	eventFactory := cloudevents.NewEventFactory(cloudevents.SourceSalesService)
	publisher := application.NewEventPublisher(producer, eventFactory, logger, businessMetrics)

	saleService := application.NewSaleApplicationService(store.sales, store.items, publisher, saleCache, logger, businessMetrics)

	router := newRouter(saleService, store.ping, config.CORSOrigins, m, logger)

	srv := deps.newHTTPServer(config.ServerAddr, router)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr)

	if signalCh == nil {
		signalCh = make(chan os.Signal, 1)
	}
	select {
	case <-signalCh:
	case <-ctx.Done():
	}
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server stopped")
	return nil
}

func newRouter(service handlers.SaleService, ready func(ctx context.Context) error, corsOrigins []string, m *metrics.Metrics, logger *logging.Logger) *gin.Engine {
	router := gin.New()

	// Recovery, request and correlation ids, logging, CORS and error rendering
	middlewareConfig := middleware.DefaultConfig(serviceName, logger.Logger)
	middlewareConfig.AllowedOrigins = corsOrigins
	middleware.Setup(router, middlewareConfig)

	router.Use(middleware.MetricsMiddleware(m))
	router.Use(middleware.SimpleTracingMiddleware(serviceName))

	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, ready))
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	api := router.Group("/api")
	handlers.NewSaleHandlers(service, logger).RegisterRoutes(api)

	return router
}

// openStore connects to the backend named by config.Store, retrying while it comes up
func openStore(ctx context.Context, config *Config, m *metrics.Metrics, logger *logging.Logger) (*saleStore, error) {
	retry := resilience.DefaultRetryConfig()

	switch config.Store {
	case storeMongoDB:
		client, err := resilience.RetryWithResult(ctx, retry, func() (*salesmongo.Client, error) {
			return salesmongo.NewClient(ctx, config.MongoDB)
		})
		if err != nil {
			return nil, err
		}
		db := client.Database()
		return &saleStore{
			sales: mongoRepo.NewSaleRepository(db, m, logger),
			items: mongoRepo.NewSaleItemRepository(db, m, logger),
			ping:  client.HealthCheck,
			close: client.Close,
		}, nil

	case storePostgres:
		db, err := resilience.RetryWithResult(ctx, retry, func() (*gorm.DB, error) {
			return pgclient.Open(ctx, config.Postgres, logger)
		})
		if err != nil {
			return nil, err
		}
		if err := resilience.Retry(ctx, retry, func() error { return pgRepo.AutoMigrate(db) }); err != nil {
			_ = pgclient.Close(db)
			return nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
		return &saleStore{
			sales: pgRepo.NewSaleRepository(db, m, logger),
			items: pgRepo.NewSaleItemRepository(db, m, logger),
			ping: func(ctx context.Context) error {
				return pgclient.HealthCheck(ctx, db)
			},
			close: func(context.Context) error {
				return pgclient.Close(db)
			},
		}, nil
	}

	return nil, fmt.Errorf("unknown store %q", config.Store)
}
