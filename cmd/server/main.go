package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"receipt-api/internal/api"
	"receipt-api/internal/config"
	"receipt-api/internal/database"
	"receipt-api/internal/services"
	"receipt-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatal("Failed to initialize config:", err)
	}

	// Initialize logging
	logging.InitLogging(logging.ParseLevel(config.AppConfig.LogLevel), config.AppConfig.LogVerbose)

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.CloseDatabase()

	// Receipt cache is optional
	var cache services.Cache
	if client := database.GetRedis(); client != nil {
		cache = services.NewRedisCache(client, "")
	}
	notifier := services.NewWebhookNotifier(time.Duration(config.AppConfig.WebhookTimeoutSeconds) * time.Second)
	receipts := services.NewReceiptService(cache, notifier)

	// Set Gin mode
	gin.SetMode(config.AppConfig.Mode)

	// Create Gin engine
	r := gin.Default()

	// Setup routes
	api.SetupRoutes(r, receipts)

	// Start server
	port := config.AppConfig.Port
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logging.Infof("Starting server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-ctx.Done()
	logging.Infof("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Errorf("Server shutdown failed: %v", err)
	}
}
