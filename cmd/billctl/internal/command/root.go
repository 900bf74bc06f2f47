// Package command implements billctl, an offline calculator for document totals and payment reconciliation.
package command

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/billbook/internal/logger"
)

var version = "0.1.0"

type Options struct {
	// DefaultTaxRate applies to items that leave tax_rate_percent out.
	DefaultTaxRate decimal.Decimal
}

func NewRootCmd(opts Options) *cobra.Command {
	root := &cobra.Command{
		Use:   "billctl",
		Short: "Compute invoice totals and reconcile payments from JSON files",
		Long: `billctl runs the billbook ledger on local files without a database.

Input files describe a document as JSON:

  {
    "items": [
      {"description": "Design", "quantity": 2, "unit_price": "1,250.00", "discount_percent": 10, "tax_rate_percent": 18}
    ],
    "payments": [
      {"amount": 500, "method": "upi", "date": "2026-03-01"}
    ]
  }

Pass "-" as the file to read from stdin.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			format, _ := cmd.Flags().GetString("log-format")

			return logger.Setup(cmd.ErrOrStderr(), logger.Config{Level: level, Format: format})
		},
	}

	root.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "text", "Log format (text, json)")

	root.AddCommand(newTotalsCmd(opts), newReconcileCmd(opts))

	return root
}
