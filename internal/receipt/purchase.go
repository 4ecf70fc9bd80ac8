package receipt

import "time"

// ProductType is the in-app purchase product type (field 1707).
type ProductType int

const (
	ProductTypeUnknown                   ProductType = -1
	ProductTypeNonConsumable             ProductType = 0
	ProductTypeConsumable                ProductType = 1
	ProductTypeNonRenewingSubscription   ProductType = 2
	ProductTypeAutoRenewableSubscription ProductType = 3
)

func (t ProductType) String() string {
	switch t {
	case ProductTypeNonConsumable:
		return "non_consumable"
	case ProductTypeConsumable:
		return "consumable"
	case ProductTypeNonRenewingSubscription:
		return "non_renewing_subscription"
	case ProductTypeAutoRenewableSubscription:
		return "auto_renewable_subscription"
	}
	return "unknown"
}

func productTypeFrom(value int64) ProductType {
	switch t := ProductType(value); t {
	case ProductTypeNonConsumable, ProductTypeConsumable,
		ProductTypeNonRenewingSubscription, ProductTypeAutoRenewableSubscription:
		return t
	}
	return ProductTypeUnknown
}

// InAppPurchase is one in-app purchase record of a receipt.
type InAppPurchase struct {
	Quantity                   int         `json:"quantity"`
	ProductID                  string      `json:"productId"`
	TransactionID              string      `json:"transactionId"`
	OriginalTransactionID      *string     `json:"originalTransactionId,omitempty"`
	ProductType                ProductType `json:"productType"`
	PurchaseDate               time.Time   `json:"purchaseDate"`
	OriginalPurchaseDate       *time.Time  `json:"originalPurchaseDate,omitempty"`
	ExpiresDate                *time.Time  `json:"expiresDate,omitempty"`
	CancellationDate           *time.Time  `json:"cancellationDate,omitempty"`
	IsInTrialPeriod            *bool       `json:"isInTrialPeriod,omitempty"`
	IsInIntroOfferPeriod       *bool       `json:"isInIntroOfferPeriod,omitempty"`
	WebOrderLineItemID         *int64      `json:"webOrderLineItemId,omitempty"`
	PromotionalOfferIdentifier *string     `json:"promotionalOfferIdentifier,omitempty"`
}

// IsSubscription reports whether the purchase is a subscription. Receipts
// without a product type fall back to the presence of an expiration date.
func (p InAppPurchase) IsSubscription() bool {
	switch p.ProductType {
	case ProductTypeNonRenewingSubscription, ProductTypeAutoRenewableSubscription:
		return true
	case ProductTypeUnknown:
		return p.ExpiresDate != nil
	}
	return false
}

// IsActiveSubscription reports whether the purchase is a subscription that
// has not expired yet.
func (p InAppPurchase) IsActiveSubscription() bool {
	return p.IsActiveSubscriptionAt(time.Now())
}

// IsActiveSubscriptionAt is IsActiveSubscription evaluated at now.
func (p InAppPurchase) IsActiveSubscriptionAt(now time.Time) bool {
	if !p.IsSubscription() || p.ExpiresDate == nil {
		return false
	}
	return p.ExpiresDate.After(now)
}

func (p InAppPurchase) Equal(other InAppPurchase) bool {
	return p.Quantity == other.Quantity &&
		p.ProductID == other.ProductID &&
		p.TransactionID == other.TransactionID &&
		equalStringPtr(p.OriginalTransactionID, other.OriginalTransactionID) &&
		p.ProductType == other.ProductType &&
		p.PurchaseDate.Equal(other.PurchaseDate) &&
		equalTimePtr(p.OriginalPurchaseDate, other.OriginalPurchaseDate) &&
		equalTimePtr(p.ExpiresDate, other.ExpiresDate) &&
		equalTimePtr(p.CancellationDate, other.CancellationDate) &&
		equalBoolPtr(p.IsInTrialPeriod, other.IsInTrialPeriod) &&
		equalBoolPtr(p.IsInIntroOfferPeriod, other.IsInIntroOfferPeriod) &&
		equalInt64Ptr(p.WebOrderLineItemID, other.WebOrderLineItemID) &&
		equalStringPtr(p.PromotionalOfferIdentifier, other.PromotionalOfferIdentifier)
}

func equalBoolPtr(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalInt64Ptr(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
