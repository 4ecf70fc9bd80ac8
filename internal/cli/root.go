// Package cli implements the receiptctl command line tool.
package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	jsonOutput bool
	noColor    bool
	verbose    bool
}

// NewRootCommand builds the receiptctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "receiptctl",
		Short: "Decode and inspect App Store receipts",
		Long:  "A local tool for decoding App Store receipts. Reads raw DER or base64 receipts from a file or stdin and prints the receipt fields, in-app purchases and entitlements.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log decoder diagnostics to stderr")

	root.AddCommand(newParseCommand(opts))
	root.AddCommand(newSampleCommand())
	return root
}

// Execute runs receiptctl with the process arguments.
func Execute() error {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
