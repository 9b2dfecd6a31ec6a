package http

import (
	"bytes"
	"fmt"

	ucLoan "loan-ledger/internal/usecase/loan"

	"github.com/xuri/excelize/v2"
)

const (
	xlsxMIME    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ledgerSheet = "Ledger"
	txHeaderRow = 11
)

func ledgerFileName(loanID string) string { return fmt.Sprintf("ledger_%s.xlsx", loanID) }

// ledgerWorkbook lays out the summary in A1:B9 and the transactions from
// row 11 down, oldest first.
func ledgerWorkbook(l *ucLoan.LedgerDTO) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ledgerSheet); err != nil {
		return nil, err
	}

	summary := [][]any{
		{"Loan ID", l.LoanID},
		{"Customer ID", l.CustomerID},
		{"Status", l.Status},
		{"Principal", l.Principal.InexactFloat64()},
		{"Total amount", l.TotalAmount.InexactFloat64()},
		{"Monthly EMI", l.MonthlyEMI.InexactFloat64()},
		{"Amount paid", l.AmountPaid.InexactFloat64()},
		{"Balance", l.BalanceAmount.InexactFloat64()},
		{"EMIs left", l.EMIsLeft},
	}
	for i, row := range summary {
		if err := setRow(f, i+1, row); err != nil {
			return nil, err
		}
	}

	if err := setRow(f, txHeaderRow, []any{"Transaction ID", "Date", "Amount", "Type"}); err != nil {
		return nil, err
	}
	for i, t := range l.Transactions {
		row := []any{t.TransactionID, t.Date.UTC().Format("2006-01-02 15:04:05"), t.Amount.InexactFloat64(), t.Type}
		if err := setRow(f, txHeaderRow+1+i, row); err != nil {
			return nil, err
		}
	}

	return f.WriteToBuffer()
}

// setRow writes values into the ledger sheet starting at column A of row.
func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("ledger row %d: %w", row, err)
	}
	if err := f.SetSheetRow(ledgerSheet, cell, &values); err != nil {
		return fmt.Errorf("ledger row %d: %w", row, err)
	}
	return nil
}
