package command

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/billbook/internal/http/payload"
	"github.com/MrJamesThe3rd/billbook/internal/ledger"
	"github.com/MrJamesThe3rd/billbook/internal/logger"
)

type reconcileOutput struct {
	AmountDue     string `json:"amount_due"`
	AmountPaid    string `json:"amount_paid"`
	BalanceDue    string `json:"balance_due"`
	PaymentStatus string `json:"payment_status"`
	Payments      int    `json:"payments"`
}

type reconcileFlags struct {
	file      string
	pay       string
	method    string
	reference string
	date      string
	asJSON    bool
}

func newReconcileCmd(opts Options) *cobra.Command {
	var flags reconcileFlags

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile an invoice against its payments",
		Long: `Reconcile replays the payments listed in the file against the invoice total
and prints what remains due. With --pay, one more payment is validated and
applied on top; the file itself is not modified.`,
		Example: `  billctl reconcile -f invoice.json
  billctl reconcile -f invoice.json --pay 250 --method bank_transfer --reference NEFT-1182`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReconcile(cmd, opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.file, "file", "f", "-", "Invoice JSON file")
	cmd.Flags().StringVar(&flags.pay, "pay", "", "Record an additional payment of this amount")
	cmd.Flags().StringVar(&flags.method, "method", string(ledger.MethodCash), "Payment method for --pay")
	cmd.Flags().StringVar(&flags.reference, "reference", "", "Payment reference for --pay")
	cmd.Flags().StringVar(&flags.date, "date", "", "Payment date for --pay (YYYY-MM-DD, default: today)")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "Print JSON")

	return cmd
}

func runReconcile(cmd *cobra.Command, opts Options, flags reconcileFlags) error {
	log := logger.WithComponent("reconcile")

	doc, err := readDocument(flags.file, cmd.InOrStdin())
	if err != nil {
		return err
	}

	items, err := doc.lineItems(opts.DefaultTaxRate)
	if err != nil {
		return err
	}

	account, err := doc.account(ledger.ComputeTotals(items))
	if err != nil {
		return err
	}

	if flags.pay != "" {
		params, err := flags.paymentParams()
		if err != nil {
			return err
		}

		if _, err := account.RecordPayment(params); err != nil {
			return err
		}

		log.Info("payment applied",
			slog.String("amount", ledger.Format(params.Amount)),
			slog.String("method", string(params.Method)),
		)
	}

	rec := account.Reconcile()
	out := reconcileOutput{
		AmountDue:     ledger.Format(rec.AmountDue),
		AmountPaid:    ledger.Format(rec.AmountPaid),
		BalanceDue:    ledger.Format(rec.BalanceDue),
		PaymentStatus: string(rec.Status),
		Payments:      len(account.Payments),
	}

	if flags.asJSON {
		return writeJSON(cmd.OutOrStdout(), out)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Amount due:  %s\n", out.AmountDue)
	fmt.Fprintf(w, "Amount paid: %s (%d payments)\n", out.AmountPaid, out.Payments)
	fmt.Fprintf(w, "Balance due: %s\n", out.BalanceDue)
	fmt.Fprintf(w, "Status:      %s\n", out.PaymentStatus)

	return nil
}

func (f reconcileFlags) paymentParams() (ledger.PaymentParams, error) {
	amount, err := ledger.ParseAmount(f.pay)
	if err != nil {
		return ledger.PaymentParams{}, fmt.Errorf("--pay: %w", err)
	}

	date := time.Now()

	parsed, err := payload.ParseDate(f.date)
	if err != nil {
		return ledger.PaymentParams{}, fmt.Errorf("--date: %w", err)
	}

	if parsed != nil {
		date = *parsed
	}

	return ledger.PaymentParams{
		Amount:    amount,
		Method:    ledger.Method(f.method),
		Reference: f.reference,
		Date:      date,
	}, nil
}
