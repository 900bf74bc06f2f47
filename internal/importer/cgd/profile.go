package cgd

import "github.com/MrJamesThe3rd/billbook/internal/ledger"

type amountMode int

const (
	// amountSingle is one signed column, negative for debits ("Montante" = "-10,00").
	amountSingle amountMode = iota
	// amountSplit is a pair of unsigned debit and credit columns.
	amountSplit
)

// Profile describes the column layout of one CGD export format and how its rows map onto expenses.
type Profile struct {
	Name       string
	DateCol    string
	DescCol    string
	AmountMode amountMode
	AmountCol  string
	DebitCol   string
	CreditCol  string

	// RefCol is optional; its value becomes the expense reference.
	RefCol string
	Method ledger.Method
}

func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	if p.AmountMode == amountSplit {
		return append(cols, p.DebitCol, p.CreditCol)
	}

	return append(cols, p.AmountCol)
}

// profiles are tried in order; more specific layouts first.
var profiles = []Profile{
	{
		Name:       "cartão",
		DateCol:    "Data",
		DescCol:    "Descrição",
		AmountMode: amountSplit,
		DebitCol:   "Débito",
		CreditCol:  "Crédito",
		Method:     ledger.MethodCard,
	},
	{
		Name:       "extrato",
		DateCol:    "Data mov.",
		DescCol:    "Descrição",
		AmountMode: amountSingle,
		AmountCol:  "Movimento",
		RefCol:     "Origem",
		Method:     ledger.MethodBankTransfer,
	},
	{
		Name:       "conta",
		DateCol:    "Data mov.",
		DescCol:    "Descrição",
		AmountMode: amountSingle,
		AmountCol:  "Montante",
		Method:     ledger.MethodBankTransfer,
	},
}
