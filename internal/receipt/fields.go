package receipt

// Receipt attribute field numbers.
const (
	FieldBundleID                   = 2
	FieldApplicationVersion         = 3
	FieldOpaqueValue                = 4
	FieldSHA1Hash                   = 5
	FieldCreationDate               = 12
	FieldInAppPurchase              = 17
	FieldOriginalApplicationVersion = 19
	FieldExpirationDate             = 21
)

// In-app purchase attribute field numbers.
const (
	FieldQuantity                   = 1701
	FieldProductID                  = 1702
	FieldTransactionID              = 1703
	FieldPurchaseDate               = 1704
	FieldOriginalTransactionID      = 1705
	FieldOriginalPurchaseDate       = 1706
	FieldProductType                = 1707
	FieldExpiresDate                = 1708
	FieldWebOrderLineItemID         = 1711
	FieldCancellationDate           = 1712
	FieldIsInTrialPeriod            = 1713
	FieldIsInIntroOfferPeriod       = 1719
	FieldPromotionalOfferIdentifier = 1721
)

type receiptField struct {
	name   string
	decode func(r *AppleReceipt, value []byte) error
}

type purchaseField struct {
	name   string
	decode func(p *InAppPurchase, value []byte) error
}

// receiptFields maps receipt field numbers to decoders. Numbers missing
// from the table are skipped.
var receiptFields = map[int]receiptField{
	FieldBundleID: {"bundle_id", func(r *AppleReceipt, v []byte) (err error) {
		r.BundleID, err = decodeString(v)
		return err
	}},
	FieldApplicationVersion: {"application_version", func(r *AppleReceipt, v []byte) (err error) {
		r.ApplicationVersion, err = decodeString(v)
		return err
	}},
	FieldOpaqueValue: {"opaque_value", func(r *AppleReceipt, v []byte) error {
		r.OpaqueValue = decodeBytes(v)
		return nil
	}},
	FieldSHA1Hash: {"sha1_hash", func(r *AppleReceipt, v []byte) error {
		r.SHA1Hash = decodeBytes(v)
		return nil
	}},
	FieldCreationDate: {"creation_date", func(r *AppleReceipt, v []byte) error {
		date, err := decodeRequiredDate(v)
		r.CreationDate = date
		return err
	}},
	FieldInAppPurchase: {"in_app_purchase", func(r *AppleReceipt, v []byte) error {
		purchase, err := decodeInAppPurchase(v)
		if err != nil {
			return err
		}
		r.InAppPurchases = append(r.InAppPurchases, *purchase)
		return nil
	}},
	FieldOriginalApplicationVersion: {"original_application_version", func(r *AppleReceipt, v []byte) (err error) {
		r.OriginalApplicationVersion, err = decodeOptionalString(v)
		return err
	}},
	FieldExpirationDate: {"expiration_date", func(r *AppleReceipt, v []byte) (err error) {
		r.ExpirationDate, err = decodeOptionalDate(v)
		return err
	}},
}

// purchaseFields maps in-app purchase field numbers to decoders.
var purchaseFields = map[int]purchaseField{
	FieldQuantity: {"quantity", func(p *InAppPurchase, v []byte) error {
		n, err := decodeInteger(v)
		p.Quantity = int(n)
		return err
	}},
	FieldProductID: {"product_id", func(p *InAppPurchase, v []byte) (err error) {
		p.ProductID, err = decodeString(v)
		return err
	}},
	FieldTransactionID: {"transaction_id", func(p *InAppPurchase, v []byte) (err error) {
		p.TransactionID, err = decodeString(v)
		return err
	}},
	FieldPurchaseDate: {"purchase_date", func(p *InAppPurchase, v []byte) (err error) {
		p.PurchaseDate, err = decodeRequiredDate(v)
		return err
	}},
	FieldOriginalTransactionID: {"original_transaction_id", func(p *InAppPurchase, v []byte) (err error) {
		p.OriginalTransactionID, err = decodeOptionalString(v)
		return err
	}},
	FieldOriginalPurchaseDate: {"original_purchase_date", func(p *InAppPurchase, v []byte) (err error) {
		p.OriginalPurchaseDate, err = decodeOptionalDate(v)
		return err
	}},
	FieldProductType: {"product_type", func(p *InAppPurchase, v []byte) error {
		n, err := decodeInteger(v)
		p.ProductType = productTypeFrom(n)
		return err
	}},
	FieldExpiresDate: {"expires_date", func(p *InAppPurchase, v []byte) (err error) {
		p.ExpiresDate, err = decodeOptionalDate(v)
		return err
	}},
	FieldWebOrderLineItemID: {"web_order_line_item_id", func(p *InAppPurchase, v []byte) error {
		n, err := decodeInteger(v)
		if err == nil {
			p.WebOrderLineItemID = &n
		}
		return err
	}},
	FieldCancellationDate: {"cancellation_date", func(p *InAppPurchase, v []byte) (err error) {
		p.CancellationDate, err = decodeOptionalDate(v)
		return err
	}},
	FieldIsInTrialPeriod: {"is_in_trial_period", func(p *InAppPurchase, v []byte) (err error) {
		p.IsInTrialPeriod, err = decodeFlag(v)
		return err
	}},
	FieldIsInIntroOfferPeriod: {"is_in_intro_offer_period", func(p *InAppPurchase, v []byte) (err error) {
		p.IsInIntroOfferPeriod, err = decodeFlag(v)
		return err
	}},
	FieldPromotionalOfferIdentifier: {"promotional_offer_identifier", func(p *InAppPurchase, v []byte) (err error) {
		p.PromotionalOfferIdentifier, err = decodeOptionalString(v)
		return err
	}},
}

// Fields that must be present for a record to decode.
var (
	requiredReceiptFields  = []int{FieldBundleID, FieldCreationDate}
	requiredPurchaseFields = []int{FieldProductID, FieldTransactionID, FieldPurchaseDate}
)
