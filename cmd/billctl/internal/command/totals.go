package command

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/billbook/internal/ledger"
	"github.com/MrJamesThe3rd/billbook/internal/logger"
)

type lineOutput struct {
	Description string `json:"description"`
	Taxable     string `json:"taxable"`
	Tax         string `json:"tax"`
	Total       string `json:"total"`
}

type totalsOutput struct {
	Items      []lineOutput `json:"items"`
	Subtotal   string       `json:"subtotal"`
	TaxTotal   string       `json:"tax_total"`
	GrandTotal string       `json:"grand_total"`
}

func newTotalsCmd(opts Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Print line and document totals",
		Example: `  billctl totals -f quotation.json
  cat invoice.json | billctl totals -f - --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, _ := cmd.Flags().GetString("file")
			asJSON, _ := cmd.Flags().GetBool("json")

			return runTotals(cmd, opts, file, asJSON)
		},
	}

	cmd.Flags().StringP("file", "f", "-", "Document JSON file")
	cmd.Flags().Bool("json", false, "Print JSON instead of a table")

	return cmd
}

func runTotals(cmd *cobra.Command, opts Options, file string, asJSON bool) error {
	log := logger.WithComponent("totals")

	doc, err := readDocument(file, cmd.InOrStdin())
	if err != nil {
		return err
	}

	items, err := doc.lineItems(opts.DefaultTaxRate)
	if err != nil {
		return err
	}

	totals := ledger.ComputeTotals(items)
	out := buildTotalsOutput(items, totals)

	log.Debug("computed totals", slog.Int("items", len(items)), slog.String("grand_total", out.GrandTotal))

	if asJSON {
		return writeJSON(cmd.OutOrStdout(), out)
	}

	rows := make([][]string, len(out.Items))
	for i, line := range out.Items {
		rows[i] = []string{strconv.Itoa(i + 1), line.Description, line.Taxable, line.Tax, line.Total}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Description", "Taxable", "Tax", "Total").
		Rows(rows...)

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, t.String())
	fmt.Fprintf(w, "Subtotal:    %s\n", out.Subtotal)
	fmt.Fprintf(w, "Tax:         %s\n", out.TaxTotal)
	fmt.Fprintf(w, "Grand total: %s\n", out.GrandTotal)

	return nil
}

func buildTotalsOutput(items []ledger.LineItem, totals ledger.Totals) totalsOutput {
	out := totalsOutput{
		Items:      make([]lineOutput, len(items)),
		Subtotal:   ledger.Format(totals.Subtotal),
		TaxTotal:   ledger.Format(totals.TaxTotal),
		GrandTotal: ledger.Format(totals.GrandTotal),
	}

	for i, item := range items {
		out.Items[i] = lineOutput{
			Description: item.Description,
			Taxable:     ledger.Format(item.TaxableAmount()),
			Tax:         ledger.Format(item.TaxAmount()),
			Total:       ledger.Format(item.Total()),
		}
	}

	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
