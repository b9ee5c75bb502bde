package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tijender7/yoga-backend/config"
	"github.com/tijender7/yoga-backend/internal/handlers"
	"github.com/tijender7/yoga-backend/internal/middleware"
	"github.com/tijender7/yoga-backend/internal/payments"
	"github.com/tijender7/yoga-backend/internal/razorpay"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	gateway := razorpay.NewClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)

	repo := payments.NewRepository(db)
	service := payments.NewService(repo)
	extractor := payments.NewExtractor(repo)

	var dispatcher *payments.Dispatcher
	if cfg.Webhook.Async {
		dispatcher = payments.NewDispatcher(service, cfg.Webhook.QueueSize, cfg.Webhook.Workers, cfg.Webhook.StoreTimeout)
		dispatcher.Start()
		log.Printf("webhook processing runs asynchronously with %d workers", cfg.Webhook.Workers)
	}

	webhookHandler := handlers.NewWebhookHandler(service, extractor, dispatcher, cfg.Razorpay.WebhookSecret, cfg.Webhook.StoreTimeout, cfg.CallbackURL())
	paymentHandler := handlers.NewPaymentHandler(gateway, cfg.CallbackURL())

	r := gin.Default()
	setupRoutes(r, cfg, webhookHandler, paymentHandler)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if dispatcher != nil {
		dispatcher.Stop()
	}
	return nil
}

func setupRoutes(r *gin.Engine, cfg *config.Config, webhookHandler *handlers.WebhookHandler, paymentHandler *handlers.PaymentHandler) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "healthy",
			"environment": cfg.Environment,
			"webhook_url": cfg.CallbackURL(),
		})
	})

	r.POST("/razorpay-webhook", webhookHandler.HandleWebhook)
	r.GET("/razorpay-webhook/health", webhookHandler.Health)

	api := r.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		api.POST("/create-payment", paymentHandler.CreatePaymentLink)
	}
}
