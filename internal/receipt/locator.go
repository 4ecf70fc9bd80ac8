package receipt

import "receipt-api/internal/asn1"

// FindContainer searches the tree under container depth first for an
// OBJECT IDENTIFIER node equal to oid and returns its next sibling. The
// first match in left-to-right order wins. A nil container and nil error
// are returned when the identifier never appears with a sibling after it.
func FindContainer(container *asn1.Container, oid asn1.ObjectIdentifier) (*asn1.Container, error) {
	if container == nil || !container.Constructed {
		return nil, nil
	}

	for i, child := range container.Children {
		if child.IsUniversal(asn1.TagObjectIdentifier) {
			found, err := asn1.ParseObjectIdentifier(child.Payload)
			if err != nil {
				return nil, err
			}
			if found.Equal(oid) && i < len(container.Children)-1 {
				// the payload comes right after its identifier
				return container.Children[i+1], nil
			}
			continue
		}

		match, err := FindContainer(child, oid)
		if err != nil {
			return nil, err
		}
		if match != nil {
			return match, nil
		}
	}
	return nil, nil
}
