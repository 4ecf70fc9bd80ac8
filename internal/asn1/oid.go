package asn1

import (
	"strconv"
	"strings"
)

// Arc values are capped so a single arc fits in 56 bits.
const maxArcOctets = 8

// ObjectIdentifier is a decoded OBJECT IDENTIFIER.
type ObjectIdentifier []uint64

var (
	// OIDData is the PKCS#7 data content type. The receipt payload follows it.
	OIDData = ObjectIdentifier{1, 2, 840, 113549, 1, 7, 1}
	// OIDSignedData is the PKCS#7 signedData content type of the envelope.
	OIDSignedData = ObjectIdentifier{1, 2, 840, 113549, 1, 7, 2}
)

// Equal reports whether both identifiers have the same arcs.
func (oid ObjectIdentifier) Equal(other ObjectIdentifier) bool {
	if len(oid) != len(other) {
		return false
	}
	for i := range oid {
		if oid[i] != other[i] {
			return false
		}
	}
	return true
}

func (oid ObjectIdentifier) String() string {
	parts := make([]string, len(oid))
	for i, arc := range oid {
		parts[i] = strconv.FormatUint(arc, 10)
	}
	return strings.Join(parts, ".")
}

// ParseObjectIdentifier decodes the content octets of an OBJECT IDENTIFIER.
// The first subidentifier carries the first two arcs as 40*X+Y.
func ParseObjectIdentifier(payload []byte) (ObjectIdentifier, error) {
	if len(payload) == 0 {
		return nil, &ObjectIdentifierError{Offset: 0, Err: ErrEmptyIdentifier}
	}

	first, n, err := readArc(payload, 0)
	if err != nil {
		return nil, err
	}

	oid := make(ObjectIdentifier, 0, len(payload)+1)
	switch {
	case first < 40:
		oid = append(oid, 0, first)
	case first < 80:
		oid = append(oid, 1, first-40)
	default:
		oid = append(oid, 2, first-80)
	}

	for off := n; off < len(payload); {
		arc, n, err := readArc(payload, off)
		if err != nil {
			return nil, err
		}
		oid = append(oid, arc)
		off += n
	}

	return oid, nil
}

// readArc decodes one base-128 subidentifier starting at off.
func readArc(payload []byte, off int) (uint64, int, error) {
	var arc uint64
	for i := off; i < len(payload); i++ {
		if i-off >= maxArcOctets {
			return 0, 0, &ObjectIdentifierError{Offset: off, Err: ErrArcTooLarge}
		}
		octet := payload[i]
		arc = arc<<7 | uint64(octet&0x7F)
		if octet&0x80 == 0 {
			return arc, i - off + 1, nil
		}
	}
	return 0, 0, &ObjectIdentifierError{Offset: off, Err: ErrTruncatedArc}
}
