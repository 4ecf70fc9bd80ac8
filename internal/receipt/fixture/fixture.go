// Package fixture encodes synthetic App Store receipts. The output is a
// DER PKCS#7 envelope without certificates or signatures, good enough for
// the decoder and for local testing.
package fixture

import (
	encoding_asn1 "encoding/asn1"
	"time"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"

	"receipt-api/internal/receipt"
)

var (
	oidSignedData = encoding_asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 7, 2}
	oidData       = encoding_asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 7, 1}
	oidSHA1       = encoding_asn1.ObjectIdentifier{1, 3, 14, 3, 2, 26}
)

// Attribute is one receipt attribute record. Value is the DER encoding
// stored inside the record's OCTET STRING.
type Attribute struct {
	Type    int
	Version int
	Value   []byte
}

// Raw encodes a primitive TLV with the given universal tag.
func Raw(tag cbasn1.Tag, content []byte) []byte {
	var b cryptobyte.Builder
	b.AddASN1(tag, func(b *cryptobyte.Builder) {
		b.AddBytes(content)
	})
	return b.BytesOrPanic()
}

// UTF8 encodes s as a UTF8String.
func UTF8(s string) []byte {
	return Raw(cbasn1.UTF8String, []byte(s))
}

// IA5 encodes s as an IA5String.
func IA5(s string) []byte {
	return Raw(cbasn1.IA5String, []byte(s))
}

// Date encodes t the way receipts store dates.
func Date(t time.Time) []byte {
	return IA5(t.UTC().Format(time.RFC3339))
}

// Integer encodes n as an INTEGER.
func Integer(n int64) []byte {
	var b cryptobyte.Builder
	b.AddASN1Int64(n)
	return b.BytesOrPanic()
}

// Bool encodes a receipt flag.
func Bool(v bool) []byte {
	if v {
		return Integer(1)
	}
	return Integer(0)
}

// Set encodes attributes as a receipt attribute SET.
func Set(attrs []Attribute) []byte {
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SET, func(b *cryptobyte.Builder) {
		for _, attr := range attrs {
			b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
				b.AddASN1Int64(int64(attr.Type))
				b.AddASN1Int64(int64(attr.Version))
				b.AddASN1OctetString(attr.Value)
			})
		}
	})
	return b.BytesOrPanic()
}

// Envelope wraps an attribute SET in a PKCS#7 signedData ContentInfo.
func Envelope(payload []byte) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1ObjectIdentifier(oidSignedData)
		b.AddASN1(cbasn1.Tag(0).ContextSpecific().Constructed(), func(b *cryptobyte.Builder) {
			b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
				b.AddASN1Int64(1)
				b.AddASN1(cbasn1.SET, func(b *cryptobyte.Builder) {
					b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
						b.AddASN1ObjectIdentifier(oidSHA1)
						b.AddASN1NULL()
					})
				})
				b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
					b.AddASN1ObjectIdentifier(oidData)
					b.AddASN1(cbasn1.Tag(0).ContextSpecific().Constructed(), func(b *cryptobyte.Builder) {
						b.AddASN1OctetString(payload)
					})
				})
				b.AddASN1(cbasn1.SET, func(b *cryptobyte.Builder) {})
			})
		})
	})
	return b.Bytes()
}

// Purchase describes an in-app purchase record.
type Purchase struct {
	Quantity                   int64
	ProductID                  string
	TransactionID              string
	OriginalTransactionID      string
	ProductType                *receipt.ProductType
	PurchaseDate               time.Time
	OriginalPurchaseDate       *time.Time
	ExpiresDate                *time.Time
	CancellationDate           *time.Time
	IsInTrialPeriod            *bool
	IsInIntroOfferPeriod       *bool
	WebOrderLineItemID         *int64
	PromotionalOfferIdentifier string
	Extra                      []Attribute
}

// Attributes returns the attribute records of p.
func (p Purchase) Attributes() []Attribute {
	attrs := []Attribute{
		{Type: receipt.FieldQuantity, Version: 1, Value: Integer(p.Quantity)},
		{Type: receipt.FieldProductID, Version: 1, Value: UTF8(p.ProductID)},
		{Type: receipt.FieldTransactionID, Version: 1, Value: UTF8(p.TransactionID)},
		{Type: receipt.FieldPurchaseDate, Version: 1, Value: Date(p.PurchaseDate)},
	}
	if p.OriginalTransactionID != "" {
		attrs = append(attrs, Attribute{Type: receipt.FieldOriginalTransactionID, Version: 1, Value: UTF8(p.OriginalTransactionID)})
	}
	if p.ProductType != nil {
		attrs = append(attrs, Attribute{Type: receipt.FieldProductType, Version: 1, Value: Integer(int64(*p.ProductType))})
	}
	attrs = appendDate(attrs, receipt.FieldOriginalPurchaseDate, p.OriginalPurchaseDate)
	attrs = appendDate(attrs, receipt.FieldExpiresDate, p.ExpiresDate)
	attrs = appendDate(attrs, receipt.FieldCancellationDate, p.CancellationDate)
	if p.IsInTrialPeriod != nil {
		attrs = append(attrs, Attribute{Type: receipt.FieldIsInTrialPeriod, Version: 1, Value: Bool(*p.IsInTrialPeriod)})
	}
	if p.IsInIntroOfferPeriod != nil {
		attrs = append(attrs, Attribute{Type: receipt.FieldIsInIntroOfferPeriod, Version: 1, Value: Bool(*p.IsInIntroOfferPeriod)})
	}
	if p.WebOrderLineItemID != nil {
		attrs = append(attrs, Attribute{Type: receipt.FieldWebOrderLineItemID, Version: 1, Value: Integer(*p.WebOrderLineItemID)})
	}
	if p.PromotionalOfferIdentifier != "" {
		attrs = append(attrs, Attribute{Type: receipt.FieldPromotionalOfferIdentifier, Version: 1, Value: UTF8(p.PromotionalOfferIdentifier)})
	}
	return append(attrs, p.Extra...)
}

// Receipt describes a receipt to encode.
type Receipt struct {
	BundleID                   string
	ApplicationVersion         string
	OriginalApplicationVersion string
	OpaqueValue                []byte
	SHA1Hash                   []byte
	CreationDate               time.Time
	ExpirationDate             *time.Time
	Purchases                  []Purchase
	Extra                      []Attribute
}

// Attributes returns the attribute records of r.
func (r Receipt) Attributes() []Attribute {
	attrs := []Attribute{
		{Type: receipt.FieldBundleID, Version: 1, Value: UTF8(r.BundleID)},
		{Type: receipt.FieldCreationDate, Version: 1, Value: Date(r.CreationDate)},
	}
	if r.ApplicationVersion != "" {
		attrs = append(attrs, Attribute{Type: receipt.FieldApplicationVersion, Version: 1, Value: UTF8(r.ApplicationVersion)})
	}
	if r.OriginalApplicationVersion != "" {
		attrs = append(attrs, Attribute{Type: receipt.FieldOriginalApplicationVersion, Version: 1, Value: UTF8(r.OriginalApplicationVersion)})
	}
	if r.OpaqueValue != nil {
		attrs = append(attrs, Attribute{Type: receipt.FieldOpaqueValue, Version: 1, Value: r.OpaqueValue})
	}
	if r.SHA1Hash != nil {
		attrs = append(attrs, Attribute{Type: receipt.FieldSHA1Hash, Version: 1, Value: r.SHA1Hash})
	}
	attrs = appendDate(attrs, receipt.FieldExpirationDate, r.ExpirationDate)
	for _, p := range r.Purchases {
		attrs = append(attrs, Attribute{Type: receipt.FieldInAppPurchase, Version: 1, Value: Set(p.Attributes())})
	}
	return append(attrs, r.Extra...)
}

// Encode returns the DER envelope of r.
func (r Receipt) Encode() ([]byte, error) {
	return Envelope(Set(r.Attributes()))
}

func appendDate(attrs []Attribute, field int, t *time.Time) []Attribute {
	if t == nil {
		return attrs
	}
	return append(attrs, Attribute{Type: field, Version: 1, Value: Date(*t)})
}
