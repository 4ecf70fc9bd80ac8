package api

import (
	"net/http"

	"receipt-api/internal/config"
	"receipt-api/internal/middleware"
	"receipt-api/internal/services"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up all routes
func SetupRoutes(r *gin.Engine, receipts *services.ReceiptService) {
	// Initialize app registry
	middleware.InitAppRegistry()

	handler := NewReceiptHandler(receipts)

	// API route group
	api := r.Group("/api")
	{
		// Receipt routes (require app authentication)
		receiptRoutes := api.Group("/receipts")
		receiptRoutes.Use(middleware.AppAuthMiddleware())
		{
			receiptRoutes.POST("/parse", handler.ParseReceipt)
			receiptRoutes.POST("/has-transactions", handler.HasTransactions)
			receiptRoutes.POST("/entitlements", handler.Entitlements)
			receiptRoutes.GET("", handler.ListReceipts)
			receiptRoutes.GET("/:id", handler.GetReceipt)
		}

		// App management routes (for admin use)
		admin := api.Group("/admin")
		admin.Use(middleware.AdminAuthMiddleware())
		{
			admin.GET("/apps", GetApps)
			admin.POST("/apps", CreateApp)
			admin.DELETE("/apps/:id", DeactivateApp)
		}
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		service := "receipt-service"
		if config.AppConfig != nil {
			service = config.AppConfig.ServiceName
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": service,
		})
	})
}
