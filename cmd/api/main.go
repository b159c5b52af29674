package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	alertport "github.com/sodiq-adeyemi/marketpay/internal/domain/port/alert"
	"github.com/sodiq-adeyemi/marketpay/internal/domain/port/persistence"
	"github.com/sodiq-adeyemi/marketpay/internal/domain/retry"
	"github.com/sodiq-adeyemi/marketpay/internal/domain/usecase/payment"
	"github.com/sodiq-adeyemi/marketpay/internal/domain/usecase/reconcile"
	"github.com/sodiq-adeyemi/marketpay/internal/infrastructure/adapter/alert"
	"github.com/sodiq-adeyemi/marketpay/internal/infrastructure/adapter/api/handler"
	"github.com/sodiq-adeyemi/marketpay/internal/infrastructure/adapter/api/routes"
	"github.com/sodiq-adeyemi/marketpay/internal/infrastructure/adapter/cache"
	"github.com/sodiq-adeyemi/marketpay/internal/infrastructure/adapter/database"
	"github.com/sodiq-adeyemi/marketpay/internal/infrastructure/adapter/gateway/paystack"
	"github.com/sodiq-adeyemi/marketpay/internal/infrastructure/adapter/logger"
	"github.com/sodiq-adeyemi/marketpay/internal/infrastructure/adapter/metrics"
	"github.com/sodiq-adeyemi/marketpay/internal/infrastructure/adapter/repository"
	timeProvider "github.com/sodiq-adeyemi/marketpay/internal/infrastructure/adapter/time"
	"github.com/sodiq-adeyemi/marketpay/internal/infrastructure/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(cfg.Environment == "production")
	appLogger.SetLevel(logger.ParseLevel(cfg.Logger.Level))
	defer func() { _ = appLogger.Flush() }()

	tp := timeProvider.NewRealTimeProvider()

	// Ledger store
	conn, err := database.NewConnection(&cfg.Database, cfg.Logger.Level)
	if err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer func() { _ = conn.Close() }()

	if err := conn.Migrate(); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	transactionRepo := repository.NewTransactionRepository(conn.DB, appLogger)
	walletRepo := repository.NewWalletRepository(conn.DB, appLogger)

	// Wallet cache is optional; an empty redis host disables it
	var walletCache persistence.WalletCache
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient, err = cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			appLogger.Error("Failed to connect to redis", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		defer func() { _ = redisClient.Close() }()
		walletCache = cache.NewRedisWalletCache(redisClient, cfg.Redis.TTL, appLogger)
	}

	gatewayClient := paystack.NewClient(&cfg.Gateway, appLogger)

	// Ops side channels
	recorder := metrics.NewPrometheusRecorder()
	var notifier alertport.Notifier
	{
		var sinks []alertport.Notifier
		if cfg.Alert.WebhookURL != "" {
			sinks = append(sinks, alert.NewWebhookNotifier(cfg.Alert.WebhookURL, appLogger))
		}
		if cfg.SMS.APIKey != "" && cfg.SMS.OpsPhone != "" {
			sinks = append(sinks, alert.NewSMSNotifier(&cfg.SMS, appLogger))
		}
		if len(sinks) > 0 {
			notifier = alert.NewFanoutNotifier(sinks...)
		}
	}

	executor := retry.NewExecutor(retry.Config{
		MaxAttempts:       cfg.Retry.MaxAttempts,
		InitialDelay:      cfg.Retry.InitialDelay,
		BackoffMultiplier: cfg.Retry.BackoffMultiplier,
		MaxDelay:          cfg.Retry.MaxDelay,
	}, appLogger, tp)

	highValueThreshold, err := decimal.NewFromString(cfg.Alert.HighValueThreshold)
	if err != nil {
		appLogger.Error("Invalid high-value threshold", map[string]any{
			"value": cfg.Alert.HighValueThreshold,
		})
		os.Exit(1)
	}

	reconciler := reconcile.NewReconciler(
		transactionRepo,
		walletRepo,
		walletCache,
		gatewayClient,
		executor,
		notifier,
		recorder,
		appLogger,
		tp,
		highValueThreshold,
	)

	webhookProcessor := reconcile.NewWebhookProcessor(
		cfg.Webhook.SigningSecret,
		reconciler,
		transactionRepo,
		recorder,
		appLogger,
		tp,
	)

	paymentService := payment.NewService(
		transactionRepo,
		walletRepo,
		walletCache,
		gatewayClient,
		reconciler,
		executor,
		appLogger,
		tp,
	)

	monitor := reconcile.NewMonitor(
		reconcile.MonitorConfig{
			Window:        cfg.Monitor.Window,
			RateThreshold: cfg.Alert.FailureRate,
			MinSample:     cfg.Alert.MinSample,
		},
		transactionRepo,
		notifier,
		recorder,
		appLogger,
		tp,
	)

	sweeper := reconcile.NewSweeper(
		reconcile.SweeperConfig{
			Interval:     cfg.Recovery.Interval,
			RetryCeiling: cfg.Recovery.RetryCeiling,
			StaleAfter:   cfg.Recovery.StaleAfter,
			BatchSize:    cfg.Recovery.BatchSize,
		},
		transactionRepo,
		reconciler,
		monitor,
		recorder,
		appLogger,
		tp,
	)
	sweeper.Start(context.Background())
	defer sweeper.Stop()

	paymentHandler := handler.NewPaymentHandler(paymentService, reconciler, appLogger)
	walletHandler := handler.NewWalletHandler(paymentService, appLogger)
	webhookHandler := handler.NewWebhookHandler(webhookProcessor, appLogger)
	healthHandler := handler.NewHealthHandler(conn, redisClient)

	router := gin.New()
	routes.SetupMiddlewares(router, appLogger)
	routes.SetupRoutes(router, paymentHandler, walletHandler, webhookHandler, healthHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info("Starting server", map[string]any{
			"port": cfg.Server.Port,
			"env":  cfg.Environment,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	sweeper.Stop()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}
