package services

import (
	"errors"
	"fmt"

	"receipt-api/internal/database"
	"receipt-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrAppNotFound = errors.New("app not found")
	ErrAppExists   = errors.New("app already exists")
)

// AppService provides app registry operations
type AppService struct {
	db *gorm.DB
}

// NewAppService creates a new app service
func NewAppService() *AppService {
	return &AppService{
		db: database.GetDB(),
	}
}

// GetAppByID gets an active app by ID
func (s *AppService) GetAppByID(appID string) (*models.App, error) {
	var app models.App
	result := s.db.Where("app_id = ? AND is_active = ?", appID, true).First(&app)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrAppNotFound
		}
		return nil, result.Error
	}
	return &app, nil
}

// Authenticate returns the app when the ID and API key match an active app
func (s *AppService) Authenticate(appID, apiKey string) (*models.App, error) {
	app, err := s.GetAppByID(appID)
	if err != nil {
		return nil, err
	}
	if app.APIKey != apiKey {
		return nil, ErrAppNotFound
	}
	return app, nil
}

// GetAllApps gets all active apps
func (s *AppService) GetAllApps() ([]*models.App, error) {
	var apps []*models.App
	result := s.db.Where("is_active = ?", true).Order("app_id").Find(&apps)
	if result.Error != nil {
		return nil, result.Error
	}
	return apps, nil
}

// CreateApp creates a new app, generating an API key when none is set
func (s *AppService) CreateApp(app *models.App) error {
	// Check if app ID already exists
	var existing models.App
	result := s.db.Unscoped().Where("app_id = ?", app.AppID).First(&existing)
	if result.Error == nil {
		return fmt.Errorf("%w: %s", ErrAppExists, app.AppID)
	}

	if app.APIKey == "" {
		app.APIKey = uuid.NewString()
	}

	// Check if API key already exists
	result = s.db.Unscoped().Where("api_key = ?", app.APIKey).First(&existing)
	if result.Error == nil {
		return fmt.Errorf("%w: duplicate API key", ErrAppExists)
	}

	if err := s.db.Create(app).Error; err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}
	return nil
}

// DeactivateApp stops an app from authenticating
func (s *AppService) DeactivateApp(appID string) error {
	result := s.db.Model(&models.App{}).Where("app_id = ?", appID).Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate app: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAppNotFound
	}
	return nil
}
