package cli

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"
)

// readInput reads a receipt from a file path, or from stdin for "-" and "".
func readInput(input string, stdin io.Reader) ([]byte, error) {
	input = strings.TrimSpace(input)

	if input == "-" || input == "" {
		if f, ok := stdin.(*os.File); ok {
			stat, err := f.Stat()
			if err != nil {
				return nil, fmt.Errorf("cannot read stdin: %w", err)
			}
			if (stat.Mode() & os.ModeCharDevice) != 0 {
				return nil, fmt.Errorf("no input provided (use a file path or pipe to stdin)")
			}
		}
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return b, nil
	}

	b, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", input, err)
	}
	return b, nil
}

// decodeInput returns raw receipt bytes. DER receipts start with a
// SEQUENCE identifier; anything else is taken as base64 text.
func decodeInput(b []byte) ([]byte, error) {
	if len(b) > 0 && b[0] == 0x30 {
		return b, nil
	}

	text := strings.Join(strings.Fields(string(b)), "")
	if text == "" {
		return nil, fmt.Errorf("empty receipt input")
	}
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		if raw, err := enc.DecodeString(text); err == nil {
			return raw, nil
		}
	}
	if bytes.ContainsAny(b, "{}") {
		return nil, fmt.Errorf("input looks like JSON, pass the receipt_data value instead")
	}
	return nil, fmt.Errorf("input is neither DER nor base64")
}
