package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"receipt-api/internal/receipt"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	labelColor   = color.New(color.FgYellow)
	valueColor   = color.New(color.FgWhite)
	dimColor     = color.New(color.Faint)
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)

	// timeNow is overridden in tests.
	timeNow = time.Now
)

// printReceipt writes a human readable view of r.
func printReceipt(w io.Writer, r *receipt.AppleReceipt) {
	headerColor.Fprintln(w, "App Store Receipt")
	headerColor.Fprintln(w, strings.Repeat("─", 50))

	printSection(w, "Receipt")
	printKV(w, "Bundle ID", r.BundleID, 1)
	printKV(w, "Application Version", orDash(r.ApplicationVersion), 1)
	if r.OriginalApplicationVersion != nil {
		printKV(w, "Original Application Version", *r.OriginalApplicationVersion, 1)
	}
	printKV(w, "Created", formatTime(r.CreationDate), 1)
	if r.ExpirationDate != nil {
		printKV(w, "Expires", formatTime(*r.ExpirationDate), 1)
	}
	if len(r.SHA1Hash) > 0 {
		printKV(w, "SHA-1 Hash", hex.EncodeToString(r.SHA1Hash), 1)
	}
	if len(r.OpaqueValue) > 0 {
		printKV(w, "Opaque Value", fmt.Sprintf("%d bytes", len(r.OpaqueValue)), 1)
	}

	printSection(w, fmt.Sprintf("In-App Purchases (%d)", len(r.InAppPurchases)))
	if len(r.InAppPurchases) == 0 {
		dimColor.Fprintln(w, "  (none)")
	}
	for i, p := range r.InAppPurchases {
		if i > 0 {
			fmt.Fprintln(w)
		}
		printPurchase(w, p)
	}
}

func printPurchase(w io.Writer, p receipt.InAppPurchase) {
	labelColor.Fprintf(w, "  %s", p.ProductID)
	switch {
	case p.IsActiveSubscriptionAt(timeNow()):
		successColor.Fprintln(w, " (active)")
	case p.IsSubscription():
		errorColor.Fprintln(w, " (expired)")
	default:
		fmt.Fprintln(w)
	}

	printKV(w, "Transaction ID", p.TransactionID, 2)
	if p.OriginalTransactionID != nil && *p.OriginalTransactionID != p.TransactionID {
		printKV(w, "Original Transaction ID", *p.OriginalTransactionID, 2)
	}
	printKV(w, "Type", p.ProductType.String(), 2)
	printKV(w, "Quantity", fmt.Sprintf("%d", p.Quantity), 2)
	printKV(w, "Purchased", formatTime(p.PurchaseDate), 2)
	if p.ExpiresDate != nil {
		printKV(w, "Expires", formatTime(*p.ExpiresDate), 2)
	}
	if p.CancellationDate != nil {
		printKV(w, "Cancelled", formatTime(*p.CancellationDate), 2)
	}
	if flag(p.IsInTrialPeriod) {
		printKV(w, "Trial Period", "yes", 2)
	}
	if flag(p.IsInIntroOfferPeriod) {
		printKV(w, "Intro Offer", "yes", 2)
	}
	if p.PromotionalOfferIdentifier != nil {
		printKV(w, "Promotional Offer", *p.PromotionalOfferIdentifier, 2)
	}
}

type entitlementView struct {
	ProductID              string   `json:"productId"`
	ContainsActivePurchase bool     `json:"containsActivePurchase"`
	IntroOfferOrTrial      []string `json:"introOfferOrTrialProductIds"`
}

func buildEntitlements(r *receipt.AppleReceipt, productID string) entitlementView {
	ids := make([]string, 0)
	for id := range r.PurchasedIntroOfferOrFreeTrialProductIdentifiers() {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return entitlementView{
		ProductID:              productID,
		ContainsActivePurchase: r.ContainsActivePurchase(productID),
		IntroOfferOrTrial:      ids,
	}
}

func printEntitlements(w io.Writer, e entitlementView) {
	printSection(w, "Entitlements")
	printKV(w, "Product", e.ProductID, 1)
	labelColor.Fprintf(w, "  Active Purchase: ")
	if e.ContainsActivePurchase {
		successColor.Fprintln(w, "yes")
	} else {
		errorColor.Fprintln(w, "no")
	}
	printKV(w, "Used Intro Offer or Trial", orDash(strings.Join(e.IntroOfferOrTrial, ", ")), 1)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSection(w io.Writer, title string) {
	fmt.Fprintln(w)
	headerColor.Fprintf(w, "┌ %s\n", title)
}

func printKV(w io.Writer, key, value string, indent int) {
	prefix := strings.Repeat("  ", indent)
	labelColor.Fprintf(w, "%s%s: ", prefix, key)
	valueColor.Fprintln(w, value)
}

func formatTime(t time.Time) string {
	return fmt.Sprintf("%s (%s)", t.UTC().Format(time.RFC3339), relativeTime(t))
}

// relativeTime returns "in X units" for future times and "X units ago"
// for past ones.
func relativeTime(t time.Time) string {
	d := t.Sub(timeNow())
	if d < 0 {
		return formatDuration(-d) + " ago"
	}
	return "in " + formatDuration(d)
}

func formatDuration(d time.Duration) string {
	const day = 24 * time.Hour
	switch {
	case d >= 730*day:
		return fmt.Sprintf("%d years", int(d/(365*day)))
	case d >= 60*day:
		return fmt.Sprintf("%d months", int(d/(30*day)))
	case d >= 2*day:
		return fmt.Sprintf("%d days", int(d/day))
	case d >= day:
		return "1 day"
	case d >= 2*time.Hour:
		return fmt.Sprintf("%d hours", int(d.Hours()))
	case d >= time.Hour:
		return "1 hour"
	case d >= 2*time.Minute:
		return fmt.Sprintf("%d minutes", int(d.Minutes()))
	default:
		return "1 minute"
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func flag(b *bool) bool {
	return b != nil && *b
}
