package asn1

// rangeMasks holds the mask for a bit range of width i+1.
var rangeMasks = [8]uint8{
	0b1,
	0b11,
	0b111,
	0b1111,
	0b11111,
	0b111111,
	0b1111111,
	0b11111111,
}

// BitAt returns the bit of b at index, where index 0 is the most
// significant bit.
func BitAt(b byte, index uint8) (uint8, error) {
	if index > 7 {
		return 0, &BitIndexError{From: index, To: index, Err: ErrInvalidIndex}
	}
	return (b >> (7 - index)) & 0b1, nil
}

// ValueInRange returns the unsigned value of the inclusive bit range
// [from, to] of b, right aligned. Bit 0 is the most significant bit.
func ValueInRange(b byte, from, to uint8) (uint8, error) {
	if to > 7 {
		return 0, &BitIndexError{From: from, To: to, Err: ErrInvalidIndex}
	}
	if from > to {
		return 0, &BitIndexError{From: from, To: to, Err: ErrRangeFlipped}
	}
	mask, err := maskForWidth(to - from + 1)
	if err != nil {
		return 0, err
	}
	return (b >> (7 - to)) & mask, nil
}

func maskForWidth(width uint8) (uint8, error) {
	if width < 1 || width > 8 {
		return 0, &BitIndexError{Err: ErrRangeWidth}
	}
	return rangeMasks[width-1], nil
}
