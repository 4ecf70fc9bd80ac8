package cli

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"receipt-api/internal/receipt"
	"receipt-api/internal/receipt/fixture"
)

type sampleOptions struct {
	bundleID  string
	productID string
	raw       bool
	trial     bool
	days      int
	noExpiry  bool
}

func newSampleCommand() *cobra.Command {
	opts := &sampleOptions{}

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Emit a synthetic unsigned receipt",
		Long:  "Writes a synthetic receipt with one auto-renewable subscription purchase, base64 encoded unless --raw is set. Useful to exercise the decoder and the HTTP API locally.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := buildSample(opts, timeNow())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.raw {
				_, err = out.Write(data)
				return err
			}
			_, err = fmt.Fprintln(out, base64.StdEncoding.EncodeToString(data))
			return err
		},
	}

	cmd.Flags().StringVar(&opts.bundleID, "bundle", "com.example.app", "Bundle identifier")
	cmd.Flags().StringVar(&opts.productID, "product", "com.example.monthly", "Product identifier of the purchase")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Write raw DER instead of base64")
	cmd.Flags().BoolVar(&opts.trial, "trial", false, "Mark the purchase as a free trial")
	cmd.Flags().IntVar(&opts.days, "days", 30, "Subscription length in days, negative for an expired one")
	cmd.Flags().BoolVar(&opts.noExpiry, "no-expiry", false, "Emit a non-consumable purchase without expiry")
	return cmd
}

func buildSample(opts *sampleOptions, now time.Time) ([]byte, error) {
	now = now.UTC().Truncate(time.Second)
	purchased := now.Add(-time.Hour)

	purchase := fixture.Purchase{
		Quantity:              1,
		ProductID:             opts.productID,
		TransactionID:         fmt.Sprintf("%d", now.Unix()),
		OriginalTransactionID: fmt.Sprintf("%d", now.Unix()),
		PurchaseDate:          purchased,
		OriginalPurchaseDate:  &purchased,
	}
	if opts.noExpiry {
		productType := receipt.ProductTypeNonConsumable
		purchase.ProductType = &productType
	} else {
		productType := receipt.ProductTypeAutoRenewableSubscription
		expires := purchased.Add(time.Duration(opts.days) * 24 * time.Hour)
		purchase.ProductType = &productType
		purchase.ExpiresDate = &expires
	}
	if opts.trial {
		trial := true
		purchase.IsInTrialPeriod = &trial
	}

	return fixture.Receipt{
		BundleID:                   opts.bundleID,
		ApplicationVersion:         "1",
		OriginalApplicationVersion: "1.0",
		SHA1Hash:                   make([]byte, 20),
		CreationDate:               now,
		Purchases:                  []fixture.Purchase{purchase},
	}.Encode()
}
