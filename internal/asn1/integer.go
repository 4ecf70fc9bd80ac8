package asn1

import "errors"

var (
	ErrEmptyInteger    = errors.New("empty integer")
	ErrIntegerTooLarge = errors.New("integer too large")
	ErrNotPrimitive    = errors.New("constructed container where primitive expected")
)

// ParseInt64 decodes big-endian two's complement INTEGER content octets.
func ParseInt64(payload []byte) (int64, error) {
	if len(payload) == 0 {
		return 0, ErrEmptyInteger
	}
	if len(payload) > 8 {
		return 0, ErrIntegerTooLarge
	}
	var value int64
	for _, octet := range payload {
		value = value<<8 | int64(octet)
	}
	// sign extend
	shift := 64 - uint(len(payload))*8
	return value << shift >> shift, nil
}

// Int decodes the container payload as an INTEGER.
func (c *Container) Int() (int64, error) {
	if c.Constructed {
		return 0, ErrNotPrimitive
	}
	return ParseInt64(c.Payload)
}
