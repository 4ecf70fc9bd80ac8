package models

// CreateAppRequest is the admin request body for registering an app
type CreateAppRequest struct {
	AppID              string `json:"app_id" binding:"required"`
	Name               string `json:"name" binding:"required"`
	APIKey             string `json:"api_key"` // generated when empty
	BundleID           string `json:"bundle_id"`
	Description        string `json:"description"`
	WebhookCallbackURL string `json:"webhook_callback_url"`
	WebhookSecret      string `json:"webhook_secret"`
}

// AppCredentials is returned once, when an app is created
type AppCredentials struct {
	App    *App   `json:"app"`
	APIKey string `json:"api_key"`
}

// ToApp converts the request into a new active App
func (r *CreateAppRequest) ToApp() *App {
	return &App{
		AppID:              r.AppID,
		Name:               r.Name,
		APIKey:             r.APIKey,
		BundleID:           r.BundleID,
		IsActive:           true,
		Description:        r.Description,
		WebhookCallbackURL: r.WebhookCallbackURL,
		WebhookSecret:      r.WebhookSecret,
	}
}
