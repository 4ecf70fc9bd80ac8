package middleware

import (
	"crypto/subtle"
	"net/http"
	"time"

	"receipt-api/internal/config"
	"receipt-api/internal/models"
	"receipt-api/internal/response"
	"receipt-api/internal/services"

	"github.com/gin-gonic/gin"
)

const appContextKey = "app"

var AppService *services.AppService

// InitAppRegistry initializes the app registry used for authentication
func InitAppRegistry() {
	AppService = services.NewAppService()
}

// AppAuthMiddleware authenticates client apps by X-App-ID and X-API-Key
func AppAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get app ID and API key
		appID := c.GetHeader("X-App-ID")
		apiKey := c.GetHeader("X-API-Key")

		// If not passed via header, try to get from query parameters
		if appID == "" {
			appID = c.Query("app_id")
		}
		if apiKey == "" {
			apiKey = c.Query("api_key")
		}

		if appID == "" || apiKey == "" {
			response.AbortJSON(c, http.StatusUnauthorized, "Missing app_id or api_key")
			return
		}

		app, err := AppService.Authenticate(appID, apiKey)
		if err != nil {
			response.AbortJSON(c, http.StatusUnauthorized, "Invalid app_id or api_key")
			return
		}

		// Store app and additional info in context
		c.Set(appContextKey, app)
		c.Set("app_id", app.AppID)
		c.Set("request_time", time.Now())
		c.Next()
	}
}

// AdminAuthMiddleware checks X-Admin-Key against ADMIN_API_KEY. Admin
// routes are closed when no key is configured.
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := ""
		if config.AppConfig != nil {
			expected = config.AppConfig.AdminAPIKey
		}
		if expected == "" {
			response.AbortJSON(c, http.StatusForbidden, "Admin API is disabled")
			return
		}

		key := c.GetHeader("X-Admin-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(expected)) != 1 {
			response.AbortJSON(c, http.StatusUnauthorized, "Invalid admin key")
			return
		}
		c.Next()
	}
}

// CurrentApp returns the app authenticated by AppAuthMiddleware
func CurrentApp(c *gin.Context) *models.App {
	if v, ok := c.Get(appContextKey); ok {
		if app, ok := v.(*models.App); ok {
			return app
		}
	}
	return nil
}
