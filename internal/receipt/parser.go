package receipt

import (
	"receipt-api/internal/asn1"
	"receipt-api/pkg/logging"
)

// Logger is the diagnostics sink used by Parser.
type Logger interface {
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
}

// Parser decodes receipts. It holds no mutable state and is safe for
// concurrent use.
type Parser struct {
	logger Logger
}

var defaultParser = NewParser(nil)

// NewParser creates a parser logging to logger, or to the process logger
// when logger is nil.
func NewParser(logger Logger) *Parser {
	if logger == nil {
		logger = logging.Default()
	}
	return &Parser{logger: logger}
}

// Parse decodes a receipt with the default parser.
func Parse(data []byte) (*AppleReceipt, error) {
	return defaultParser.Parse(data)
}

// Parse decodes raw receipt bytes (already base64-decoded) into an
// AppleReceipt.
func (p *Parser) Parse(data []byte) (*AppleReceipt, error) {
	p.logger.Infof("Parsing receipt (%d bytes)", len(data))

	root, err := asn1.Build(data)
	if err != nil {
		p.logger.Errorf("Failed to decode receipt envelope: %v", err)
		return nil, err
	}

	container, err := FindContainer(root, asn1.OIDData)
	if err != nil {
		p.logger.Errorf("Failed to search receipt envelope: %v", err)
		return nil, err
	}
	if container == nil {
		p.logger.Errorf("Data object identifier %s not found in receipt", asn1.OIDData)
		return nil, ErrMissingPayload
	}

	receipt, err := BuildReceipt(container)
	if err != nil {
		p.logger.Errorf("Failed to build receipt: %v", err)
		return nil, err
	}

	p.logger.Infof("Receipt parsed successfully - bundle_id: %s, in_app_purchases: %d",
		receipt.BundleID, len(receipt.InAppPurchases))
	return receipt, nil
}

// ReceiptHasTransactions reports whether the receipt holds any in-app
// purchase. Receipts that cannot be parsed count as having transactions so
// callers do not drop them.
func (p *Parser) ReceiptHasTransactions(data []byte) bool {
	receipt, err := p.Parse(data)
	if err != nil {
		p.logger.Warnf("Could not parse receipt, assuming it has transactions: %v", err)
		return true
	}
	return len(receipt.InAppPurchases) > 0
}
