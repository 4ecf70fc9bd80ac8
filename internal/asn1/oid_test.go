package asn1

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var dataOIDBytes = []byte{0x2A, 0x86, 0x48, 0x86, 0xF7, 0x0D, 0x01, 0x07, 0x01}

func TestParseObjectIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  ObjectIdentifier
	}{
		{name: "pkcs7 data", input: dataOIDBytes, want: OIDData},
		{name: "pkcs7 signed data", input: []byte{0x2A, 0x86, 0x48, 0x86, 0xF7, 0x0D, 0x01, 0x07, 0x02}, want: OIDSignedData},
		{name: "first arc zero", input: []byte{0x27}, want: ObjectIdentifier{0, 39}},
		{name: "first arc two", input: []byte{0x88, 0x37, 0x03}, want: ObjectIdentifier{2, 999, 3}},
		{name: "sha1", input: []byte{0x2B, 0x0E, 0x03, 0x02, 0x1A}, want: ObjectIdentifier{1, 3, 14, 3, 2, 26}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseObjectIdentifier(tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.True(t, got.Equal(tt.want))
		})
	}
}

func TestParseObjectIdentifierErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		wantErr error
	}{
		{name: "empty", input: nil, wantErr: ErrEmptyIdentifier},
		{name: "truncated first arc", input: []byte{0x86}, wantErr: ErrTruncatedArc},
		{name: "truncated last arc", input: []byte{0x2A, 0x86, 0x48, 0x86, 0xF7}, wantErr: ErrTruncatedArc},
		{name: "arc too large", input: []byte{0x2A, 0x81, 0x81, 0x81, 0x81, 0x81, 0x81, 0x81, 0x81, 0x01}, wantErr: ErrArcTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseObjectIdentifier(tt.input)
			require.ErrorIs(t, err, tt.wantErr)
			var oidErr *ObjectIdentifierError
			require.True(t, errors.As(err, &oidErr))
		})
	}
}

func TestObjectIdentifierString(t *testing.T) {
	require.Equal(t, "1.2.840.113549.1.7.1", OIDData.String())
	require.Equal(t, "1.2.840.113549.1.7.2", OIDSignedData.String())
}

func TestObjectIdentifierEqual(t *testing.T) {
	require.True(t, OIDData.Equal(ObjectIdentifier{1, 2, 840, 113549, 1, 7, 1}))
	require.False(t, OIDData.Equal(OIDSignedData))
	require.False(t, OIDData.Equal(OIDData[:6]))
}

func TestObjectIdentifierInsideContainer(t *testing.T) {
	encoded := tlv([]byte{0x06}, dataOIDBytes)
	nested := tlv([]byte{0x30}, tlv([]byte{0xA0}, encoded))

	for _, input := range [][]byte{encoded, nested} {
		root, err := Build(input)
		require.NoError(t, err)
		node := root
		for node.Constructed {
			node = node.Child(0)
		}
		require.True(t, node.IsUniversal(TagObjectIdentifier))
		oid, err := ParseObjectIdentifier(node.Payload)
		require.NoError(t, err)
		require.True(t, oid.Equal(OIDData))
	}
}
