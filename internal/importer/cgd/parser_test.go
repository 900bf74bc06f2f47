package cgd_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/billbook/internal/importer/cgd"
	"github.com/MrJamesThe3rd/billbook/internal/ledger"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestParser_Conta(t *testing.T) {
	csv := `Consultar saldos e movimentos à ordem - 31-01-2026;"=""0000"""
Nome cliente;JOHN DOE
NIF;"=""123"""

Dados da conta
Conta;0000 - EUR - Conta Extracto
Saldo contabilístico;1.000,00 EUR

Data mov.;Data-valor;Descrição;Montante;Saldo contabilístico após movimento
30-01-2026;30-01-2026;INSTITUTO GESTAO FINA;-588,74;48.825,46
09-01-2026;09-01-2026;TFI Wise;8.608,52;52.532,78
`

	got, err := cgd.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, date(2026, 1, 30), got[0].Date)
	assert.Equal(t, "INSTITUTO GESTAO FINA", got[0].Description)
	assert.Equal(t, "588.74", ledger.Format(got[0].Amount))
	assert.Equal(t, ledger.MethodBankTransfer, got[0].Method)
	assert.Empty(t, got[0].Reference)
}

func TestParser_Extrato(t *testing.T) {
	csv := `Consultar extrato - 15-02-2026 : 0829015676030
Nome empresa ;VIBRANTGARDEN UNIPESSOAL,LDA
Intervalo de ;01-02-2026 a 14-02-2026

Data mov. ;Data valor ;Origem ;Descrição ;Movimento ;Estorno ;Saldo contabilístico após movimento ;
13-02-2026;13-02-2026;"=""0003""";PAGAMENTO TSU ;-608,13;  ;41.393,66;
04-02-2026;04-02-2026;SIBS ;TFI Wise ;4.324,06;  ;51.302,85;
02-02-2026;02-02-2026;SIBS ;RENDA ESCRITORIO ;-1.200,00;  ;46.978,79;
`

	got, err := cgd.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, date(2026, 2, 13), got[0].Date)
	assert.Equal(t, "PAGAMENTO TSU", got[0].Description)
	assert.Equal(t, "608.13", ledger.Format(got[0].Amount))
	assert.Equal(t, "0003", got[0].Reference)
	assert.Equal(t, ledger.MethodBankTransfer, got[0].Method)

	assert.Equal(t, "RENDA ESCRITORIO", got[1].RawDescription)
	assert.Equal(t, "1200.00", ledger.Format(got[1].Amount))
	assert.Equal(t, "SIBS", got[1].Reference)
}

func TestParser_Cartao(t *testing.T) {
	csv := `Consultar saldos e movimentos de cartões - 15-02-2026
Conta cartão ;4163 **** **** 8016 - EUR - Business Débito

Data ;Data valor ;Descrição ;Débito ;Crédito ;
16-12-2025 ;14-12-2025 ;PA GONDOMAR         GONDOMAR ;64,00 ; ;
31-12-2025 ;29-12-2025 ;UBER   *TRIP             HELP.UBER.COMNL ;47,91 ; ;
18-12-2025 ;17-12-2025 ;REFUND AMAZON ;  ;25,00 ;
 ; ; ; ;Página 1/2 ;
`

	got, err := cgd.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, date(2025, 12, 16), got[0].Date)
	assert.Equal(t, "PA GONDOMAR         GONDOMAR", got[0].Description)
	assert.Equal(t, "64.00", ledger.Format(got[0].Amount))
	assert.Equal(t, ledger.MethodCard, got[0].Method)

	assert.Equal(t, date(2025, 12, 31), got[1].Date)
	assert.Equal(t, "47.91", ledger.Format(got[1].Amount))
}

func TestParser_Latin1Encoding(t *testing.T) {
	utf8CSV := "Data mov.;Descrição;Montante\n30-01-2026;CAFÉ CENTRAL;-10,00\n"

	latin1Bytes, err := charmap.Windows1252.NewEncoder().Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	got, err := cgd.NewParser().Parse(bytes.NewReader(latin1Bytes))
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "CAFÉ CENTRAL", got[0].RawDescription)
}

func TestParser_DifferentColumnOrder(t *testing.T) {
	csv := `Random;MetaData
Montante;Descrição;Data mov.;Ignored
-10,00;TEST_ORDER;30-01-2026;XXX
`

	got, err := cgd.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "TEST_ORDER", got[0].Description)
	assert.Equal(t, "10.00", ledger.Format(got[0].Amount))
}

func TestParser_Errors(t *testing.T) {
	type testCase struct {
		name    string
		csv     string
		wantErr string
	}

	tests := []testCase{
		{name: "EmptyFile", csv: "", wantErr: "no matching CGD format"},
		{name: "UnknownHeader", csv: "Date;Amount\n2026-01-01;10\n", wantErr: "no matching CGD format"},
		{name: "MissingDescription", csv: "Data mov.;Descrição;Montante\n30-01-2026;;-10,00\n", wantErr: "row 2: missing description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cgd.NewParser().Parse(strings.NewReader(tt.csv))

			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestParser_Rows(t *testing.T) {
	type testCase struct {
		name       string
		csv        string
		wantLen    int
		wantAmount string
	}

	tests := []testCase{
		{name: "HeaderOnly", csv: "Data mov.;Data-valor;Descrição;Montante", wantLen: 0},
		{name: "LargeAmount", csv: "Data mov.;Descrição;Montante\n30-01-2026;BIG TRANSFER;-1.234.567,89\n", wantLen: 1, wantAmount: "1234567.89"},
		{name: "SkipsFooterRows", csv: "Data mov.;Descrição;Montante\n30-01-2026;TEST;-10,00\nTotais;;;;\n", wantLen: 1, wantAmount: "10.00"},
		{name: "SkipsZeroAmounts", csv: "Data mov.;Descrição;Montante\n30-01-2026;TEST;0,00\n", wantLen: 0},
		{name: "SkipsUnparseableAmounts", csv: "Data mov.;Descrição;Montante\n30-01-2026;TEST;n/a\n", wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cgd.NewParser().Parse(strings.NewReader(tt.csv))
			require.NoError(t, err)
			require.Len(t, got, tt.wantLen)

			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantAmount, ledger.Format(got[0].Amount))
				assert.Equal(t, got[0].Description, got[0].RawDescription)
			}
		})
	}
}
