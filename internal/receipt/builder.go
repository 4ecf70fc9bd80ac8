package receipt

import (
	"bytes"
	"fmt"
	"time"
	"unicode/utf8"

	"receipt-api/internal/asn1"
)

// attribute is one (type, version, value) record of a receipt or in-app
// purchase SET.
type attribute struct {
	number  int
	version int
	value   []byte
}

// BuildReceipt projects the container that follows the receipt data object
// identifier into an AppleReceipt. The container is either the attribute
// SET itself, the OCTET STRING holding it, or the explicit [0] wrapper of
// that OCTET STRING.
func BuildReceipt(c *asn1.Container) (*AppleReceipt, error) {
	set, err := attributeSet(c)
	if err != nil {
		return nil, err
	}

	r := &AppleReceipt{InAppPurchases: []InAppPurchase{}}
	seen := make(map[int]bool)
	for _, attr := range attributes(set) {
		field, ok := receiptFields[attr.number]
		if !ok {
			continue
		}
		if err := field.decode(r, attr.value); err != nil {
			return nil, &FieldError{Field: field.name, Number: attr.number, Err: err}
		}
		seen[attr.number] = true
	}

	for _, number := range requiredReceiptFields {
		if !seen[number] {
			return nil, &FieldError{Field: receiptFields[number].name, Number: number, Err: ErrMissingField}
		}
	}
	return r, nil
}

// BuildInAppPurchase decodes an in-app purchase attribute SET.
func BuildInAppPurchase(set *asn1.Container) (*InAppPurchase, error) {
	if !set.Constructed || !set.IsUniversal(asn1.TagSet) {
		return nil, fmt.Errorf("%w, got %v", ErrNotSet, set)
	}

	p := &InAppPurchase{ProductType: ProductTypeUnknown}
	seen := make(map[int]bool)
	for _, attr := range attributes(set) {
		field, ok := purchaseFields[attr.number]
		if !ok {
			continue
		}
		if err := field.decode(p, attr.value); err != nil {
			return nil, &FieldError{Field: field.name, Number: attr.number, Err: err}
		}
		seen[attr.number] = true
	}

	for _, number := range requiredPurchaseFields {
		if !seen[number] {
			return nil, &FieldError{Field: purchaseFields[number].name, Number: number, Err: ErrMissingField}
		}
	}
	return p, nil
}

func attributeSet(c *asn1.Container) (*asn1.Container, error) {
	if c == nil {
		return nil, ErrMissingPayload
	}
	if c.IsUniversal(asn1.TagSet) {
		return c, nil
	}

	octets := c
	if !octets.IsUniversal(asn1.TagOctetString) {
		octets = c.Child(0)
	}
	if !octets.IsUniversal(asn1.TagOctetString) {
		return nil, fmt.Errorf("%w: expected OCTET STRING, got %v", ErrMissingPayload, octets)
	}

	set, err := asn1.Build(octetContent(octets))
	if err != nil {
		return nil, err
	}
	if !set.IsUniversal(asn1.TagSet) || !set.Constructed {
		return nil, fmt.Errorf("%w: expected attribute SET, got %v", ErrMissingPayload, set)
	}
	return set, nil
}

// octetContent returns the content of an OCTET STRING. Constructed
// encodings, as written by Xcode StoreKit testing, are concatenated.
func octetContent(c *asn1.Container) []byte {
	if !c.Constructed {
		return c.Payload
	}
	var buf bytes.Buffer
	for _, segment := range c.Children {
		buf.Write(octetContent(segment))
	}
	return buf.Bytes()
}

// attributes returns the well-formed attribute records of set in order.
// Records that are not (INTEGER, INTEGER, OCTET STRING) sequences are
// skipped.
func attributes(set *asn1.Container) []attribute {
	attrs := make([]attribute, 0, len(set.Children))
	for _, record := range set.Children {
		if !record.IsUniversal(asn1.TagSequence) || len(record.Children) < 3 {
			continue
		}
		typ, version, value := record.Child(0), record.Child(1), record.Child(2)
		if !typ.IsUniversal(asn1.TagInteger) || !value.IsUniversal(asn1.TagOctetString) {
			continue
		}
		number, err := typ.Int()
		if err != nil {
			continue
		}
		attr := attribute{number: int(number), value: octetContent(value)}
		if v, err := version.Int(); err == nil {
			attr.version = int(v)
		}
		attrs = append(attrs, attr)
	}
	return attrs
}

// primitiveValue decodes the TLV inside an attribute value and returns its
// content octets.
func primitiveValue(value []byte) ([]byte, error) {
	c, err := asn1.Build(value)
	if err != nil {
		return nil, err
	}
	if c.Constructed {
		return nil, asn1.ErrNotPrimitive
	}
	return c.Payload, nil
}

func decodeString(value []byte) (string, error) {
	content, err := primitiveValue(value)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(content) {
		return "", ErrInvalidUTF8
	}
	return string(content), nil
}

func decodeOptionalString(value []byte) (*string, error) {
	s, err := decodeString(value)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func decodeBytes(value []byte) []byte {
	return bytes.Clone(value)
}

func decodeInteger(value []byte) (int64, error) {
	content, err := primitiveValue(value)
	if err != nil {
		return 0, err
	}
	n, err := asn1.ParseInt64(content)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInteger, err)
	}
	return n, nil
}

func decodeFlag(value []byte) (*bool, error) {
	n, err := decodeInteger(value)
	if err != nil {
		return nil, err
	}
	flag := n != 0
	return &flag, nil
}

// parseDate parses the RFC 3339 text of a date attribute. Empty text yields
// a nil time.
func parseDate(value []byte) (*time.Time, error) {
	content, err := primitiveValue(value)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(content) {
		return nil, ErrInvalidUTF8
	}
	if len(content) == 0 {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, content)
	}
	t = t.UTC()
	return &t, nil
}

func decodeOptionalDate(value []byte) (*time.Time, error) {
	return parseDate(value)
}

func decodeRequiredDate(value []byte) (time.Time, error) {
	t, err := parseDate(value)
	if err != nil {
		return time.Time{}, err
	}
	if t == nil {
		return time.Time{}, fmt.Errorf("%w: empty date", ErrInvalidDate)
	}
	return *t, nil
}

func decodeInAppPurchase(value []byte) (*InAppPurchase, error) {
	set, err := asn1.Build(value)
	if err != nil {
		return nil, err
	}
	return BuildInAppPurchase(set)
}
