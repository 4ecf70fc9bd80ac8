package asn1

const (
	highTagNumber   = 0x1F
	maxTagOctets    = 4
	maxLengthOctets = 4
	maxInt          = int(^uint(0) >> 1)
)

// Build decodes the TLV node at the start of data together with its
// subtree. Octets after the first node are ignored.
func Build(data []byte) (*Container, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Offset: 0, Err: ErrEmptyInput}
	}
	return build(data, 0, len(data))
}

// BuildAll decodes consecutive TLV nodes until data is exhausted.
func BuildAll(data []byte) ([]*Container, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Offset: 0, Err: ErrEmptyInput}
	}
	return buildChildren(data, 0, len(data))
}

// build decodes one node from data[off:end]. Offsets in errors are
// absolute positions in data.
func build(data []byte, off, end int) (*Container, error) {
	pos := off

	class, constructed, tag, n, err := readIdentifier(data[pos:end])
	if err != nil {
		return nil, &DecodeError{Offset: pos, Err: err}
	}
	pos += n

	length, n, err := readLength(data[pos:end])
	if err != nil {
		return nil, &DecodeError{Offset: pos, Err: err}
	}
	pos += n

	if length > end-pos {
		return nil, &DecodeError{Offset: pos, Err: ErrOutOfBounds}
	}

	c := &Container{
		Class:        class,
		Tag:          tag,
		Constructed:  constructed,
		Length:       length,
		HeaderLength: pos - off,
		Payload:      data[pos : pos+length : pos+length],
	}

	if constructed {
		children, err := buildChildren(data, pos, pos+length)
		if err != nil {
			return nil, err
		}
		c.Children = children
	}

	return c, nil
}

func buildChildren(data []byte, off, end int) ([]*Container, error) {
	var children []*Container
	for off < end {
		child, err := build(data, off, end)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
		off += child.TotalLength()
	}
	return children, nil
}

// readIdentifier decodes the identifier octets and returns the number of
// octets consumed.
func readIdentifier(b []byte) (Class, bool, int, int, error) {
	if len(b) == 0 {
		return 0, false, 0, 0, ErrOutOfBounds
	}
	first := b[0]

	class, err := ValueInRange(first, 0, 1)
	if err != nil {
		return 0, false, 0, 0, err
	}
	form, err := BitAt(first, 2)
	if err != nil {
		return 0, false, 0, 0, err
	}
	tag, err := ValueInRange(first, 3, 7)
	if err != nil {
		return 0, false, 0, 0, err
	}

	if tag != highTagNumber {
		return Class(class), form == 1, int(tag), 1, nil
	}

	number := 0
	for i := 1; i < len(b); i++ {
		if i > maxTagOctets {
			return 0, false, 0, 0, ErrTagTooLarge
		}
		octet := b[i]
		number = number<<7 | int(octet&0x7F)
		more, err := BitAt(octet, 0)
		if err != nil {
			return 0, false, 0, 0, err
		}
		if more == 0 {
			return Class(class), form == 1, number, i + 1, nil
		}
	}
	return 0, false, 0, 0, ErrTruncatedTag
}

// readLength decodes the length octets and returns the number of octets
// consumed.
func readLength(b []byte) (int, int, error) {
	if len(b) == 0 {
		return 0, 0, ErrOutOfBounds
	}
	first := b[0]

	longForm, err := BitAt(first, 0)
	if err != nil {
		return 0, 0, err
	}
	value, err := ValueInRange(first, 1, 7)
	if err != nil {
		return 0, 0, err
	}

	if longForm == 0 {
		return int(value), 1, nil
	}

	count := int(value)
	switch {
	case count == 0:
		return 0, 0, ErrIndefiniteLength
	case count > maxLengthOctets:
		return 0, 0, ErrLengthTooLarge
	case 1+count > len(b):
		return 0, 0, ErrOutOfBounds
	}

	var length uint64
	for _, octet := range b[1 : 1+count] {
		length = length<<8 | uint64(octet)
	}
	if length > uint64(maxInt) {
		return 0, 0, ErrLengthTooLarge
	}
	return int(length), 1 + count, nil
}
