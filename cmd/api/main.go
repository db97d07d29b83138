package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/facilitymanager1/fieldsync-sub006/internal/application"
	"github.com/facilitymanager1/fieldsync-sub006/internal/domain"
	kafkaInfra "github.com/facilitymanager1/fieldsync-sub006/internal/infrastructure/kafka"
	mongoRepo "github.com/facilitymanager1/fieldsync-sub006/internal/infrastructure/mongodb"
	"github.com/facilitymanager1/fieldsync-sub006/pkg/cloudevents"
	"github.com/facilitymanager1/fieldsync-sub006/pkg/kafka"
	"github.com/facilitymanager1/fieldsync-sub006/pkg/logging"
	"github.com/facilitymanager1/fieldsync-sub006/pkg/metrics"
	"github.com/facilitymanager1/fieldsync-sub006/pkg/middleware"
	"github.com/facilitymanager1/fieldsync-sub006/pkg/mongodb"
	"github.com/facilitymanager1/fieldsync-sub006/pkg/tracing"
)

const serviceName = "shift-service"

// Config holds application configuration
type Config struct {
	ServerAddr string
	MongoDB    *mongodb.Config
	Kafka      *kafka.Config
}

func loadConfig() *Config {
	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8010"),
		MongoDB: &mongodb.Config{
			URI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGODB_DATABASE", "fieldsync_shifts"),
			ConnectTimeout: 10 * time.Second,
			MaxPoolSize:    100,
			MinPoolSize:    10,
		},
		Kafka: &kafka.Config{
			Brokers:      []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			ClientID:     serviceName,
			BatchSize:    100,
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: -1,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting shift-service API")

	config := loadConfig()
	ctx := context.Background()

	// Initialize OpenTelemetry tracing
	tracingConfig := tracing.DefaultConfig(serviceName)
	tracingConfig.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	tracingConfig.Environment = getEnv("ENVIRONMENT", "development")
	tracingConfig.Enabled = getEnv("TRACING_ENABLED", "true") == "true"

	tracerProvider, err := tracing.Initialize(ctx, tracingConfig)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tracing")
		// Continue without tracing - don't exit
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

	// Initialize Prometheus metrics
	metricsConfig := metrics.DefaultConfig(serviceName)
	m := metrics.New(metricsConfig)
	logger.Info("Metrics initialized")

	// Initialize MongoDB with instrumentation
	mongoClient, err := mongodb.NewClient(ctx, config.MongoDB)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		os.Exit(1)
	}
	instrumentedMongo := mongodb.NewInstrumentedClient(mongoClient, m, logger)
	defer instrumentedMongo.Close(ctx)
	logger.Info("Connected to MongoDB", "database", config.MongoDB.Database)

	// Initialize Kafka producer behind a circuit breaker
	producer := kafka.NewProductionProducer(config.Kafka, m, logger)
	defer producer.Close()
	logger.Info("Kafka producer initialized", "brokers", config.Kafka.Brokers)

	// Initialize CloudEvents factory and audit publisher
	eventFactory := cloudevents.NewEventFactory(cloudevents.SourceShiftService)
	auditPublisher := kafkaInfra.NewAuditPublisher(producer, eventFactory, logger)

	// Initialize repositories
	shiftRepo := mongoRepo.NewShiftRepository(instrumentedMongo, logger)
	geofenceRepo := mongoRepo.NewGeofenceRepository(instrumentedMongo, logger)

	// Initialize application service
	shiftService := application.NewShiftApplicationService(
		shiftRepo,
		auditPublisher,
		geofenceRepo,
		domain.NewStandardCompliancePolicy(),
		m,
		logger,
	)

	// Setup Gin router with middleware
	router := gin.New()
	middlewareConfig := middleware.DefaultConfig(serviceName, logger.Logger)
	middleware.Setup(router, middlewareConfig)

	router.Use(middleware.MetricsMiddleware(m))
	router.Use(middleware.SimpleTracingMiddleware(serviceName))

	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	// Health check endpoints
	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, func() error {
		return instrumentedMongo.HealthCheck(ctx)
	}))

	// Metrics endpoint
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	// API v1 routes
	apiV1 := router.Group("/api/v1")

	shifts := apiV1.Group("/shifts")
	{
		shifts.POST("", startShiftHandler(shiftService, logger))
		shifts.GET("/:shiftId", getShiftHandler(shiftService, logger))
		shifts.POST("/:shiftId/transition", transitionHandler(shiftService, logger))
		shifts.POST("/:shiftId/site/enter", enterSiteHandler(shiftService, logger))
		shifts.POST("/:shiftId/site/exit", exitSiteHandler(shiftService, logger))
		shifts.POST("/:shiftId/breaks/start", startBreakHandler(shiftService, logger))
		shifts.POST("/:shiftId/breaks/end", endBreakHandler(shiftService, logger))
	}

	workers := apiV1.Group("/workers")
	{
		workers.GET("/:workerId/shifts", listShiftsHandler(shiftService, logger))
		workers.GET("/:workerId/shifts/active", getActiveShiftHandler(shiftService, logger))
	}

	// Start server
	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server stopped")
}
