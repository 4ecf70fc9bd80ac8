package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"receipt-api/pkg/logging"

	"github.com/google/uuid"
)

// Notifier delivers receipt events to an app backend
type Notifier interface {
	NotifyAppBackend(ctx context.Context, callbackURL, secret string, payload WebhookPayload)
}

// WebhookNotifier handles webhook notifications to App Backend
type WebhookNotifier struct {
	httpClient  *http.Client
	retryDelays []time.Duration
}

// NewWebhookNotifier creates a new webhook notifier
func NewWebhookNotifier(timeout time.Duration) *WebhookNotifier {
	return &WebhookNotifier{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retryDelays: []time.Duration{1 * time.Second, 5 * time.Second, 30 * time.Second},
	}
}

// WebhookPayload represents the payload sent to App Backend
type WebhookPayload struct {
	Event                 string   `json:"event"`       // "receipt.parsed"
	DeliveryID            string   `json:"delivery_id"` // set on send
	AppID                 string   `json:"app_id"`
	RecordID              string   `json:"record_id"`
	BundleID              string   `json:"bundle_id"`
	PurchaseCount         int      `json:"purchase_count"`
	ProductIDs            []string `json:"product_ids"`
	HasActiveSubscription bool     `json:"has_active_subscription"`
	ReceiptCreationDate   string   `json:"receipt_creation_date"` // ISO 8601 format
	Timestamp             string   `json:"timestamp"`             // ISO 8601 format
}

// NotifyAppBackend sends webhook notification to App Backend.
// It blocks through the retries, callers run it in a goroutine.
func (wn *WebhookNotifier) NotifyAppBackend(ctx context.Context, callbackURL, secret string, payload WebhookPayload) {
	if callbackURL == "" {
		// No webhook configured, skip
		return
	}

	payload.DeliveryID = uuid.NewString()
	payload.Timestamp = time.Now().UTC().Format(time.RFC3339)

	// Send with retry mechanism
	wn.sendWithRetry(ctx, callbackURL, secret, payload)
}

// sendWithRetry sends webhook with retry mechanism
// Retry schedule: 1s, 5s, 30s (3 attempts total)
func (wn *WebhookNotifier) sendWithRetry(ctx context.Context, callbackURL, secret string, payload WebhookPayload) bool {
	maxRetries := len(wn.retryDelays)

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := wn.sendWebhook(ctx, callbackURL, secret, payload)
		if err == nil {
			logging.Infof("Webhook notification sent successfully - url: %s, record: %s, attempt: %d",
				callbackURL, payload.RecordID, attempt+1)
			return true
		}

		logging.Errorf("Webhook notification failed - url: %s, record: %s, attempt: %d, error: %v",
			callbackURL, payload.RecordID, attempt+1, err)

		// If not the last attempt, wait before retry
		if attempt < maxRetries-1 {
			select {
			case <-ctx.Done():
				logging.Warnf("Webhook notification cancelled - url: %s, record: %s", callbackURL, payload.RecordID)
				return false
			case <-time.After(wn.retryDelays[attempt]):
			}
		}
	}

	logging.Errorf("Webhook notification failed after %d attempts - url: %s, record: %s",
		maxRetries, callbackURL, payload.RecordID)
	return false
}

// sendWebhook sends a single webhook request
func (wn *WebhookNotifier) sendWebhook(ctx context.Context, callbackURL, secret string, payload WebhookPayload) error {
	// Marshal payload to JSON
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	// Create HTTP request
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, callbackURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "ReceiptAPI-Webhook/1.0")
	req.Header.Set("X-Receipt-Delivery", payload.DeliveryID)

	// Add signature if secret is provided
	if secret != "" {
		req.Header.Set("X-Receipt-Signature", GenerateSignature(jsonData, secret))
	}

	// Send request
	resp, err := wn.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	// Check response status
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}

// GenerateSignature generates HMAC-SHA256 signature for webhook payload
func GenerateSignature(payload []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}
