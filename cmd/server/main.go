package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/markethub/payout-service/internal/adapters/database"
	kafkaadapter "github.com/markethub/payout-service/internal/adapters/kafka"
	"github.com/markethub/payout-service/internal/adapters/memory"
	postgresadapter "github.com/markethub/payout-service/internal/adapters/postgres"
	redisadapter "github.com/markethub/payout-service/internal/adapters/redis"
	"github.com/markethub/payout-service/internal/adapters/settlement"
	"github.com/markethub/payout-service/internal/auth"
	"github.com/markethub/payout-service/internal/config"
	"github.com/markethub/payout-service/internal/domain/ports"
	"github.com/markethub/payout-service/internal/handlers"
	payoutService "github.com/markethub/payout-service/internal/services/payout"
	"github.com/markethub/payout-service/pkg/logging"
	"github.com/markethub/payout-service/pkg/observability"
)

func main() {
	logger := initLogger()
	defer logger.Sync()

	logger.Info("Starting payout service",
		zap.String("version", "0.1.0"),
	)

	cfg, err := config.LoadFromEnv()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()

	// Storage backend
	var (
		db      ports.DBPort
		payouts ports.PayoutRepository
		ledgers ports.LedgerRepository
		closeDB func()
	)
	switch cfg.Database.Driver {
	case "memory":
		store := memory.NewStore()
		db, payouts, ledgers = store, store, store
		closeDB = func() {}
		logger.Warn("Using in-memory storage; data will not survive a restart")
	default:
		pgConfig := &database.PostgreSQLConfig{
			DatabaseURL: cfg.Database.ConnectionString(),
			MaxConns:    cfg.Database.MaxConns,
			MinConns:    cfg.Database.MinConns,
		}
		adapter, err := database.NewPostgreSQLAdapter(ctx, pgConfig, logger)
		if err != nil {
			logger.Fatal("Failed to initialize database", zap.Error(err))
		}
		db = adapter
		payouts = postgresadapter.NewPayoutRepository()
		ledgers = postgresadapter.NewLedgerRepository()
		closeDB = adapter.Close
		logger.Info("Database connection established",
			zap.String("database", cfg.Database.Database),
		)
	}
	defer closeDB()

	// Summary cache (optional)
	var cache ports.SummaryCache
	if cfg.Redis.Addr != "" {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		cache = redisadapter.NewSummaryCache(client, cfg.Redis.TTL, logger)
		defer client.Close()
		logger.Info("Summary cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	// Event publisher (optional)
	var events ports.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher := kafkaadapter.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		events = publisher
		defer publisher.Close()
		logger.Info("Event publishing enabled",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
	}

	gateway := settlement.NewSimulatedGateway(cfg.Settlement.FailureRate, cfg.Settlement.ProcessingTime)

	jwtManager, err := auth.NewJWTManager([]byte(cfg.JWT.Secret), cfg.JWT.Issuer, cfg.JWT.Expiry)
	if err != nil {
		logger.Fatal("Failed to initialize JWT manager", zap.Error(err))
	}

	portsLogger := logging.NewZapLogger(logger)
	commands := payoutService.NewCommandService(db, payouts, ledgers, gateway, events, cache, portsLogger)
	queries := payoutService.NewQueryService(db, payouts, ledgers, cache, portsLogger)

	router := handlers.NewRouter(handlers.RouterConfig{
		Commands:       commands,
		Queries:        queries,
		JWTManager:     jwtManager,
		Logger:         logger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	healthChecker := observability.NewHealthChecker(db)
	metricsServer := observability.StartMetricsServer(fmt.Sprintf("%d", cfg.Server.MetricsPort), healthChecker, logger)

	go func() {
		logger.Info("HTTP server listening",
			zap.String("address", httpServer.Addr),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to serve HTTP", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down servers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}
	if err := observability.ShutdownMetricsServer(metricsServer); err != nil {
		logger.Error("Metrics server shutdown error", zap.Error(err))
	}

	logger.Info("Servers stopped")
}

// initLogger creates the zap logger per LOG_LEVEL and LOG_DEVELOPMENT
func initLogger() *zap.Logger {
	level := zapcore.InfoLevel
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if parsed, err := zapcore.ParseLevel(raw); err == nil {
			level = parsed
		}
	}

	zapConfig := zap.NewProductionConfig()
	if dev := os.Getenv("LOG_DEVELOPMENT"); dev == "true" || dev == "1" {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapConfig.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	return logger
}
