package importer

import (
	"errors"
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/billbook/internal/expense"
	"github.com/MrJamesThe3rd/billbook/internal/importer/cgd"
)

var ErrUnknownBank = errors.New("unknown bank")

type Service struct {
	importers map[Bank]Importer
}

func NewService() *Service {
	return &Service{
		importers: map[Bank]Importer{
			BankCGD: cgd.NewParser(),
		},
	}
}

// Banks lists the statement formats the service can read.
func (s *Service) Banks() []Bank {
	return []Bank{BankCGD}
}

func (s *Service) Import(bank Bank, r io.Reader) ([]expense.CreateParams, error) {
	importer, ok := s.importers[bank]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBank, bank)
	}

	params, err := importer.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse %s statement: %w", bank, err)
	}

	return params, nil
}
