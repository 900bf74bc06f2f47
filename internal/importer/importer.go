// Package importer turns bank statements into expenses.
package importer

import (
	"io"

	"github.com/MrJamesThe3rd/billbook/internal/expense"
)

type Bank string

const (
	BankCGD Bank = "cgd"
)

// Importer parses one bank's statement format.
type Importer interface {
	Parse(r io.Reader) ([]expense.CreateParams, error)
}
