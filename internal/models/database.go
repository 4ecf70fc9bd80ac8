package models

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel provides common fields for all database models
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// App is a client application allowed to submit receipts
type App struct {
	BaseModel
	AppID       string `json:"app_id" gorm:"uniqueIndex;not null"`
	Name        string `json:"name" gorm:"not null"`
	APIKey      string `json:"-" gorm:"uniqueIndex;not null"`
	BundleID    string `json:"bundle_id" gorm:"index"` // empty accepts any bundle
	IsActive    bool   `json:"is_active" gorm:"default:true"`
	Description string `json:"description"`

	// Webhook notified after each stored receipt (optional)
	WebhookCallbackURL string `json:"webhook_callback_url" gorm:"type:varchar(500)"`
	WebhookSecret      string `json:"-" gorm:"type:varchar(255)"`
}

// ReceiptRecord is one stored receipt parse
type ReceiptRecord struct {
	BaseModel
	RecordID                   string     `json:"record_id" gorm:"uniqueIndex;type:varchar(36);not null"`
	AppID                      string     `json:"app_id" gorm:"index;not null"`
	ReceiptHash                string     `json:"receipt_hash" gorm:"index;type:varchar(64);not null"` // sha256 of the raw receipt
	BundleID                   string     `json:"bundle_id" gorm:"index"`
	ApplicationVersion         string     `json:"application_version"`
	OriginalApplicationVersion string     `json:"original_application_version,omitempty"`
	CreationDate               time.Time  `json:"creation_date"`
	ExpirationDate             *time.Time `json:"expiration_date,omitempty"`
	PurchaseCount              int        `json:"purchase_count"`
	ReceiptJSON                string     `json:"-" gorm:"type:text"`

	Purchases []PurchaseRecord `json:"purchases" gorm:"foreignKey:ReceiptRecordID;constraint:OnDelete:CASCADE"`
}

// PurchaseRecord is one in-app purchase of a stored receipt
type PurchaseRecord struct {
	BaseModel
	ReceiptRecordID       uint       `json:"-" gorm:"index;not null"`
	ProductID             string     `json:"product_id" gorm:"index;not null"`
	TransactionID         string     `json:"transaction_id" gorm:"index;not null"`
	OriginalTransactionID string     `json:"original_transaction_id,omitempty" gorm:"index"`
	ProductType           string     `json:"product_type"`
	Quantity              int        `json:"quantity"`
	PurchaseDate          time.Time  `json:"purchase_date"`
	ExpiresDate           *time.Time `json:"expires_date,omitempty"`
	CancellationDate      *time.Time `json:"cancellation_date,omitempty"`
	IsInTrialPeriod       bool       `json:"is_in_trial_period"`
	IsInIntroOfferPeriod  bool       `json:"is_in_intro_offer_period"`
}
