package services

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"receipt-api/internal/config"
	"receipt-api/internal/database"
	"receipt-api/internal/models"
	"receipt-api/internal/receipt"
	"receipt-api/pkg/logging"

	"github.com/google/uuid"
)

var (
	ErrEmptyReceipt    = errors.New("receipt_data is empty")
	ErrInvalidBase64   = errors.New("receipt_data is not valid base64")
	ErrReceiptTooLarge = errors.New("receipt exceeds the size limit")
	ErrInvalidReceipt  = errors.New("receipt could not be decoded")
	ErrBundleMismatch  = errors.New("receipt bundle id does not match the app")
)

const cacheKeyPrefix = "receipt:"

// ParseResult is a decoded and stored receipt
type ParseResult struct {
	RecordID string                `json:"record_id"`
	Cached   bool                  `json:"cached"`
	Receipt  *receipt.AppleReceipt `json:"receipt"`
}

// Entitlements summarizes what a receipt unlocks for a product
type Entitlements struct {
	ProductID                   string   `json:"product_id"`
	ContainsActivePurchase      bool     `json:"contains_active_purchase"`
	IntroOfferOrTrialProductIDs []string `json:"intro_offer_or_trial_product_ids"`
}

// ReceiptService decodes, caches, stores and announces receipts
type ReceiptService struct {
	parser     *receipt.Parser
	cache      Cache
	notifier   Notifier
	deliveries *DeliveryGuard
	maxBytes   int
	cacheTTL   time.Duration
}

// NewReceiptService creates a receipt service. cache and notifier may be
// nil, which disables caching and webhooks.
func NewReceiptService(cache Cache, notifier Notifier) *ReceiptService {
	cfg := config.AppConfig
	if cfg == nil {
		cfg = config.Load()
	}
	return &ReceiptService{
		parser:     receipt.NewParser(logging.Default()),
		cache:      cache,
		notifier:   notifier,
		deliveries: NewDeliveryGuard(24 * time.Hour),
		maxBytes:   cfg.MaxReceiptBytes,
		cacheTTL:   time.Duration(cfg.ReceiptCacheTTLMinute) * time.Minute,
	}
}

// DecodeReceiptData base64-decodes receipt_data as sent by StoreKit
func (s *ReceiptService) DecodeReceiptData(encoded string) ([]byte, error) {
	encoded = strings.Join(strings.Fields(encoded), "")
	if encoded == "" {
		return nil, ErrEmptyReceipt
	}
	if s.maxBytes > 0 && base64.StdEncoding.DecodedLen(len(encoded)) > s.maxBytes+2 {
		return nil, fmt.Errorf("%w (%d bytes)", ErrReceiptTooLarge, s.maxBytes)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		// some clients drop the padding
		var rawErr error
		if data, rawErr = base64.RawStdEncoding.DecodeString(strings.TrimRight(encoded, "=")); rawErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBase64, err)
		}
	}
	if s.maxBytes > 0 && len(data) > s.maxBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrReceiptTooLarge, s.maxBytes)
	}
	return data, nil
}

// ParseReceipt decodes a receipt for app, stores the result and notifies
// the app's webhook.
func (s *ReceiptService) ParseReceipt(ctx context.Context, app *models.App, encoded string) (*ParseResult, error) {
	data, err := s.DecodeReceiptData(encoded)
	if err != nil {
		return nil, err
	}

	hash := ReceiptHash(data)
	r, cached, err := s.decode(ctx, data, hash)
	if err != nil {
		return nil, err
	}
	if err := checkBundle(app, r); err != nil {
		return nil, err
	}

	record := toRecord(app.AppID, hash, r)
	if err := database.CreateReceiptRecord(ctx, record); err != nil {
		logging.Errorf("Failed to store receipt - app: %s, error: %v", app.AppID, err)
		return nil, fmt.Errorf("failed to store receipt: %w", err)
	}

	logging.Infof("Receipt stored - app: %s, record: %s, bundle_id: %s, purchases: %d, cached: %v",
		app.AppID, record.RecordID, r.BundleID, len(r.InAppPurchases), cached)

	if s.notifier != nil && app.WebhookCallbackURL != "" && s.deliveries.FirstDelivery(app.AppID+":"+hash) {
		go s.notifier.NotifyAppBackend(context.Background(), app.WebhookCallbackURL, app.WebhookSecret, webhookPayload(app.AppID, record.RecordID, r))
	}

	return &ParseResult{RecordID: record.RecordID, Cached: cached, Receipt: r}, nil
}

// HasTransactions reports whether the receipt holds any in-app purchase.
// Receipts that cannot be decoded count as having transactions.
func (s *ReceiptService) HasTransactions(encoded string) (bool, error) {
	data, err := s.DecodeReceiptData(encoded)
	if err != nil {
		return false, err
	}
	return s.parser.ReceiptHasTransactions(data), nil
}

// Entitlements decodes a receipt and evaluates it for productID. Nothing
// is stored.
func (s *ReceiptService) Entitlements(ctx context.Context, app *models.App, encoded, productID string) (*Entitlements, error) {
	data, err := s.DecodeReceiptData(encoded)
	if err != nil {
		return nil, err
	}

	r, _, err := s.decode(ctx, data, ReceiptHash(data))
	if err != nil {
		return nil, err
	}
	if err := checkBundle(app, r); err != nil {
		return nil, err
	}

	ids := make([]string, 0)
	for id := range r.PurchasedIntroOfferOrFreeTrialProductIdentifiers() {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return &Entitlements{
		ProductID:                   productID,
		ContainsActivePurchase:      r.ContainsActivePurchase(productID),
		IntroOfferOrTrialProductIDs: ids,
	}, nil
}

// GetRecord returns a stored receipt of app
func (s *ReceiptService) GetRecord(ctx context.Context, app *models.App, recordID string) (*models.ReceiptRecord, error) {
	return database.GetReceiptRecord(ctx, app.AppID, recordID)
}

// ListRecords returns the latest stored receipts of app
func (s *ReceiptService) ListRecords(ctx context.Context, app *models.App, limit int) ([]models.ReceiptRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return database.ListReceiptRecords(ctx, app.AppID, limit)
}

// decode parses data, going through the cache when one is configured
func (s *ReceiptService) decode(ctx context.Context, data []byte, hash string) (*receipt.AppleReceipt, bool, error) {
	key := cacheKeyPrefix + hash
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			var r receipt.AppleReceipt
			if err := json.Unmarshal(cached, &r); err == nil {
				logging.Debugf("Receipt cache hit - hash: %s", hash)
				return &r, true, nil
			}
			logging.Warnf("Discarding unreadable cache entry - hash: %s", hash)
		case !errors.Is(err, ErrCacheMiss):
			logging.Warnf("Receipt cache lookup failed: %v", err)
		}
	}

	r, err := s.parser.Parse(data)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrInvalidReceipt, err)
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(r); err == nil {
			if err := s.cache.Set(ctx, key, encoded, s.cacheTTL); err != nil {
				logging.Warnf("Failed to cache receipt: %v", err)
			}
		}
	}
	return r, false, nil
}

// ReceiptHash is the hex SHA-256 of the raw receipt bytes
func ReceiptHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func checkBundle(app *models.App, r *receipt.AppleReceipt) error {
	if app.BundleID != "" && app.BundleID != r.BundleID {
		return fmt.Errorf("%w: got %q, want %q", ErrBundleMismatch, r.BundleID, app.BundleID)
	}
	return nil
}

func toRecord(appID, hash string, r *receipt.AppleReceipt) *models.ReceiptRecord {
	record := &models.ReceiptRecord{
		RecordID:           uuid.NewString(),
		AppID:              appID,
		ReceiptHash:        hash,
		BundleID:           r.BundleID,
		ApplicationVersion: r.ApplicationVersion,
		CreationDate:       r.CreationDate,
		ExpirationDate:     r.ExpirationDate,
		PurchaseCount:      len(r.InAppPurchases),
		ReceiptJSON:        r.String(),
	}
	if r.OriginalApplicationVersion != nil {
		record.OriginalApplicationVersion = *r.OriginalApplicationVersion
	}

	for _, p := range r.InAppPurchases {
		purchase := models.PurchaseRecord{
			ProductID:            p.ProductID,
			TransactionID:        p.TransactionID,
			ProductType:          p.ProductType.String(),
			Quantity:             p.Quantity,
			PurchaseDate:         p.PurchaseDate,
			ExpiresDate:          p.ExpiresDate,
			CancellationDate:     p.CancellationDate,
			IsInTrialPeriod:      p.IsInTrialPeriod != nil && *p.IsInTrialPeriod,
			IsInIntroOfferPeriod: p.IsInIntroOfferPeriod != nil && *p.IsInIntroOfferPeriod,
		}
		if p.OriginalTransactionID != nil {
			purchase.OriginalTransactionID = *p.OriginalTransactionID
		}
		record.Purchases = append(record.Purchases, purchase)
	}
	return record
}

func webhookPayload(appID, recordID string, r *receipt.AppleReceipt) WebhookPayload {
	payload := WebhookPayload{
		Event:               "receipt.parsed",
		AppID:               appID,
		RecordID:            recordID,
		BundleID:            r.BundleID,
		PurchaseCount:       len(r.InAppPurchases),
		ProductIDs:          []string{},
		ReceiptCreationDate: r.CreationDate.Format(time.RFC3339),
	}
	seen := make(map[string]bool)
	for _, p := range r.InAppPurchases {
		if p.IsActiveSubscription() {
			payload.HasActiveSubscription = true
		}
		if !seen[p.ProductID] {
			seen[p.ProductID] = true
			payload.ProductIDs = append(payload.ProductIDs, p.ProductID)
		}
	}
	return payload
}
