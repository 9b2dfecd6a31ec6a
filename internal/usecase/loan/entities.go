package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateLoanInput struct {
	CustomerID         string
	LoanAmount         decimal.Decimal
	LoanPeriodYears    int
	InterestRateYearly decimal.Decimal
}

type CreatedLoanDTO struct {
	LoanID             string
	CustomerID         string
	TotalAmountPayable decimal.Decimal
	MonthlyEMI         decimal.Decimal
	CreatedAt          time.Time
}

type LoanDetailDTO struct {
	LoanID             string
	CustomerID         string
	CustomerName       string
	CustomerEmail      string
	LoanAmount         decimal.Decimal
	InterestRate       decimal.Decimal
	LoanPeriodYears    int
	TotalInterest      decimal.Decimal
	TotalAmountPayable decimal.Decimal
	MonthlyEMI         decimal.Decimal
	Status             string
}

type TransactionDTO struct {
	TransactionID string
	Date          time.Time
	Amount        decimal.Decimal
	Type          string
}

// LedgerDTO figures are recomputed from the payment rows, not read from the
// loan's stored aggregates.
type LedgerDTO struct {
	LoanID        string
	CustomerID    string
	Principal     decimal.Decimal
	TotalAmount   decimal.Decimal
	MonthlyEMI    decimal.Decimal
	AmountPaid    decimal.Decimal
	BalanceAmount decimal.Decimal
	EMIsLeft      int
	Status        string
	Transactions  []TransactionDTO
}

type LoanSummaryDTO struct {
	LoanID          string
	PrincipalAmount decimal.Decimal
	TotalAmount     decimal.Decimal
	TotalInterest   decimal.Decimal
	MonthlyEMI      decimal.Decimal
	AmountPaid      decimal.Decimal
	EMIsLeft        int
}

type OverviewDTO struct {
	CustomerID string
	TotalLoans int
	Loans      []LoanSummaryDTO
}
