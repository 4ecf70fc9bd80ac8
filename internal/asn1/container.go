// Package asn1 decodes the restricted BER/DER subset used by App Store
// receipts into a tree of tag-length-value containers.
//
// Only definite lengths of up to four octets are accepted. Universal types
// are not interpreted beyond what the receipt format needs (INTEGER,
// OBJECT IDENTIFIER, strings).
package asn1

import "fmt"

// Class is the identifier class of a container.
type Class uint8

const (
	ClassUniversal Class = iota
	ClassApplication
	ClassContextSpecific
	ClassPrivate
)

func (c Class) String() string {
	switch c {
	case ClassUniversal:
		return "universal"
	case ClassApplication:
		return "application"
	case ClassContextSpecific:
		return "context-specific"
	case ClassPrivate:
		return "private"
	}
	return fmt.Sprintf("class(%d)", uint8(c))
}

// Universal tag numbers used by receipts.
const (
	TagBoolean          = 1
	TagInteger          = 2
	TagBitString        = 3
	TagOctetString      = 4
	TagNull             = 5
	TagObjectIdentifier = 6
	TagUTF8String       = 12
	TagSequence         = 16
	TagSet              = 17
	TagPrintableString  = 19
	TagIA5String        = 22
	TagUTCTime          = 23
	TagGeneralizedTime  = 24
)

// Container is one decoded TLV node. Primitive containers carry Payload;
// constructed containers carry Children in encoding order. Payload always
// holds the raw content octets, for constructed containers too.
type Container struct {
	Class        Class
	Tag          int
	Constructed  bool
	Length       int
	HeaderLength int
	Payload      []byte
	Children     []*Container
}

// Is reports whether the container has the given class and tag.
func (c *Container) Is(class Class, tag int) bool {
	return c != nil && c.Class == class && c.Tag == tag
}

// IsUniversal reports whether the container is the universal type tag.
func (c *Container) IsUniversal(tag int) bool {
	return c.Is(ClassUniversal, tag)
}

// TotalLength is the number of input octets the container occupies.
func (c *Container) TotalLength() int {
	return c.HeaderLength + c.Length
}

// Child returns the i-th child, or nil when out of range.
func (c *Container) Child(i int) *Container {
	if c == nil || i < 0 || i >= len(c.Children) {
		return nil
	}
	return c.Children[i]
}

func (c *Container) String() string {
	form := "primitive"
	if c.Constructed {
		form = "constructed"
	}
	return fmt.Sprintf("{Class: %s, Tag: %d, Form: %s, Length: %d, Children: %d}",
		c.Class, c.Tag, form, c.Length, len(c.Children))
}
