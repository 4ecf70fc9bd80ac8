package database

import (
	"context"
	"errors"
	"fmt"

	"receipt-api/internal/models"

	"gorm.io/gorm"
)

// ErrReceiptNotFound is returned when no stored receipt matches a lookup
var ErrReceiptNotFound = errors.New("receipt record not found")

// CreateReceiptRecord stores a receipt together with its purchases
func CreateReceiptRecord(ctx context.Context, record *models.ReceiptRecord) error {
	if err := DB.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create receipt record: %w", err)
	}
	return nil
}

// GetReceiptRecord gets a stored receipt by its public id (per app)
func GetReceiptRecord(ctx context.Context, appID, recordID string) (*models.ReceiptRecord, error) {
	var record models.ReceiptRecord
	err := DB.WithContext(ctx).
		Preload("Purchases").
		Where("app_id = ? AND record_id = ?", appID, recordID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReceiptNotFound
		}
		return nil, err
	}
	return &record, nil
}

// GetReceiptRecordByHash gets the latest parse of the same receipt bytes
func GetReceiptRecordByHash(ctx context.Context, appID, receiptHash string) (*models.ReceiptRecord, error) {
	var record models.ReceiptRecord
	err := DB.WithContext(ctx).
		Where("app_id = ? AND receipt_hash = ?", appID, receiptHash).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReceiptNotFound
		}
		return nil, err
	}
	return &record, nil
}

// ListReceiptRecords returns the most recent receipts of an app, newest first
func ListReceiptRecords(ctx context.Context, appID string, limit int) ([]models.ReceiptRecord, error) {
	var records []models.ReceiptRecord
	err := DB.WithContext(ctx).
		Where("app_id = ?", appID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}
