package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"receipt-api/internal/receipt"
	"receipt-api/pkg/logging"
)

func newParseCommand(opts *globalOptions) *cobra.Command {
	var productID string

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Decode an App Store receipt",
		Long:  "Decodes a receipt given as raw DER or base64 text. Input is a file path, or stdin when omitted or \"-\".",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) > 0 {
				input = args[0]
			}

			b, err := readInput(input, cmd.InOrStdin())
			if err != nil {
				return err
			}
			data, err := decodeInput(b)
			if err != nil {
				return err
			}

			level := logging.LevelWarn
			if opts.verbose {
				level = logging.LevelDebug
			}
			logger := logging.New(cmd.ErrOrStderr(), cmd.ErrOrStderr(), level, false)

			r, err := receipt.NewParser(logger).Parse(data)
			if err != nil {
				return fmt.Errorf("parsing receipt: %w", err)
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				if productID == "" {
					return printJSON(out, r)
				}
				return printJSON(out, map[string]any{
					"receipt":      r,
					"entitlements": buildEntitlements(r, productID),
				})
			}

			printReceipt(out, r)
			if productID != "" {
				printEntitlements(out, buildEntitlements(r, productID))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&productID, "product", "", "Evaluate entitlements for this product id")
	return cmd
}
