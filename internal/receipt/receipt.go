// Package receipt decodes App Store receipts into AppleReceipt values.
package receipt

import (
	"bytes"
	"encoding/json"
	"time"
)

// AppleReceipt is the content of a parsed App Store receipt.
type AppleReceipt struct {
	BundleID                   string          `json:"bundleId"`
	ApplicationVersion         string          `json:"applicationVersion"`
	OriginalApplicationVersion *string         `json:"originalApplicationVersion,omitempty"`
	OpaqueValue                []byte          `json:"opaqueValue"`
	SHA1Hash                   []byte          `json:"sha1Hash"`
	CreationDate               time.Time       `json:"creationDate"`
	ExpirationDate             *time.Time      `json:"expirationDate,omitempty"`
	InAppPurchases             []InAppPurchase `json:"inAppPurchases"`
}

// PurchasedIntroOfferOrFreeTrialProductIdentifiers returns the product ids
// of purchases made in an introductory offer or trial period.
func (r *AppleReceipt) PurchasedIntroOfferOrFreeTrialProductIdentifiers() map[string]struct{} {
	ids := make(map[string]struct{})
	for _, purchase := range r.InAppPurchases {
		if isTrue(purchase.IsInIntroOfferPeriod) || isTrue(purchase.IsInTrialPeriod) {
			ids[purchase.ProductID] = struct{}{}
		}
	}
	return ids
}

// ContainsActivePurchase reports whether the receipt has any active
// subscription, or a non-subscription purchase of productID.
func (r *AppleReceipt) ContainsActivePurchase(productID string) bool {
	return r.containsActivePurchaseAt(productID, time.Now())
}

func (r *AppleReceipt) containsActivePurchaseAt(productID string, now time.Time) bool {
	for _, purchase := range r.InAppPurchases {
		if purchase.IsActiveSubscriptionAt(now) {
			return true
		}
	}
	for _, purchase := range r.InAppPurchases {
		if !purchase.IsSubscription() && purchase.ProductID == productID {
			return true
		}
	}
	return false
}

// Equal reports whether both receipts hold the same values.
func (r *AppleReceipt) Equal(other *AppleReceipt) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.BundleID != other.BundleID ||
		r.ApplicationVersion != other.ApplicationVersion ||
		!equalStringPtr(r.OriginalApplicationVersion, other.OriginalApplicationVersion) ||
		!bytes.Equal(r.OpaqueValue, other.OpaqueValue) ||
		!bytes.Equal(r.SHA1Hash, other.SHA1Hash) ||
		!r.CreationDate.Equal(other.CreationDate) ||
		!equalTimePtr(r.ExpirationDate, other.ExpirationDate) ||
		len(r.InAppPurchases) != len(other.InAppPurchases) {
		return false
	}
	for i := range r.InAppPurchases {
		if !r.InAppPurchases[i].Equal(other.InAppPurchases[i]) {
			return false
		}
	}
	return true
}

// String returns the receipt as indented JSON.
func (r *AppleReceipt) String() string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "<null>"
	}
	return string(data)
}

func isTrue(b *bool) bool {
	return b != nil && *b
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
