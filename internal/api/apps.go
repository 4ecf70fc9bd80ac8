package api

import (
	"errors"
	"net/http"

	"receipt-api/internal/models"
	"receipt-api/internal/response"
	"receipt-api/internal/services"

	"github.com/gin-gonic/gin"
)

// GetApps gets all active apps
func GetApps(c *gin.Context) {
	apps, err := services.NewAppService().GetAllApps()
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to get apps")
		return
	}
	response.SuccessJSON(c, apps)
}

// CreateApp registers a new app. The API key is only returned here.
func CreateApp(c *gin.Context) {
	var req models.CreateAppRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	app := req.ToApp()
	if err := services.NewAppService().CreateApp(app); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrAppExists) {
			status = http.StatusConflict
		}
		response.ErrorJSON(c, status, "Failed to create app: "+err.Error())
		return
	}

	response.CreatedJSON(c, "App created successfully", models.AppCredentials{App: app, APIKey: app.APIKey})
}

// DeactivateApp disables an app
func DeactivateApp(c *gin.Context) {
	if err := services.NewAppService().DeactivateApp(c.Param("id")); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrAppNotFound) {
			status = http.StatusNotFound
		}
		response.ErrorJSON(c, status, err.Error())
		return
	}
	response.SuccessJSON(c, gin.H{"app_id": c.Param("id"), "is_active": false})
}
