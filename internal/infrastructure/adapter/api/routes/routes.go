package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpmetrics "github.com/slok/go-http-metrics/metrics/prometheus"
	"github.com/slok/go-http-metrics/middleware"
	ginmiddleware "github.com/slok/go-http-metrics/middleware/gin"

	coreport "github.com/sodiq-adeyemi/marketpay/internal/domain/port/core"
	"github.com/sodiq-adeyemi/marketpay/internal/infrastructure/adapter/api/handler"
	apimiddleware "github.com/sodiq-adeyemi/marketpay/internal/infrastructure/adapter/api/middleware"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	paymentHandler *handler.PaymentHandler,
	walletHandler *handler.WalletHandler,
	webhookHandler *handler.WebhookHandler,
	healthHandler *handler.HealthHandler,
) {
	paymentRoutes := router.Group("/payments")
	{
		paymentRoutes.POST("/deposit", paymentHandler.InitializeDeposit)
		paymentRoutes.POST("/withdrawal", paymentHandler.InitializeWithdrawal)
		paymentRoutes.GET("/:reference", paymentHandler.GetTransaction)
		paymentRoutes.POST("/:reference/reconcile", paymentHandler.Reconcile)
	}

	router.GET("/wallets/:userId/balance", walletHandler.GetBalance)

	router.POST("/webhooks/paystack", webhookHandler.Receive)

	router.GET("/health", healthHandler.Liveness)
	router.GET("/health/ready", healthHandler.Readiness)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	router.Use(apimiddleware.ErrorHandler(logger))
	router.Use(apimiddleware.Logger(logger))

	mdlw := middleware.New(middleware.Config{
		Recorder: httpmetrics.NewRecorder(httpmetrics.Config{}),
	})
	router.Use(ginmiddleware.Handler("", mdlw))
}
