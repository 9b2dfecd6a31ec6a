package loan

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const MonthsPerYear = 12

var hundred = decimal.NewFromInt(100)

// MaxAmount is the largest value a decimal(12,2) money column holds.
var MaxAmount = decimal.RequireFromString("9999999999.99")

// Terms are the figures fixed at origination, rounded to cents.
type Terms struct {
	TotalInterest decimal.Decimal
	TotalAmount   decimal.Decimal
	MonthlyEMI    decimal.Decimal
}

// Summary is the repayment progress of a loan given what has been paid.
type Summary struct {
	AmountPaid    decimal.Decimal
	BalanceAmount decimal.Decimal
	EMIsLeft      int
}

// ComputeTerms applies simple interest:
//
//	interest = principal * years * rate / 100
//	total    = principal + interest
//	emi      = total / (years * 12)
//
// principal and rate are taken to cents first. A total above MaxAmount is
// ErrInvalidInput.
func ComputeTerms(principal decimal.Decimal, years int, ratePercent decimal.Decimal) (Terms, error) {
	principal, ratePercent = principal.Round(2), ratePercent.Round(2)
	if years <= 0 {
		return Terms{}, fmt.Errorf("%w: loan period must be at least one year", ErrInvalidInput)
	}
	if !principal.IsPositive() {
		return Terms{}, fmt.Errorf("%w: principal must be positive", ErrInvalidInput)
	}
	if ratePercent.IsNegative() {
		return Terms{}, fmt.Errorf("%w: interest rate must not be negative", ErrInvalidInput)
	}

	n := decimal.NewFromInt(int64(years))
	interest := principal.Mul(n).Mul(ratePercent).Div(hundred).Round(2)
	total := principal.Add(interest)
	if total.GreaterThan(MaxAmount) {
		return Terms{}, fmt.Errorf("%w: total amount %s exceeds %s", ErrInvalidInput, total.StringFixed(2), MaxAmount.StringFixed(2))
	}
	emi := total.Div(decimal.NewFromInt(int64(years * MonthsPerYear))).Round(2)

	return Terms{TotalInterest: interest, TotalAmount: total, MonthlyEMI: emi}, nil
}

// EMIsLeft is the number of installments still needed to clear balance:
// ceil(balance * months / total), never negative. It divides by the
// unrounded EMI, not MonthlyEMI.
func EMIsLeft(balance, totalAmount decimal.Decimal, years int) int {
	if !balance.IsPositive() || !totalAmount.IsPositive() || years <= 0 {
		return 0
	}
	months := decimal.NewFromInt(int64(years * MonthsPerYear))
	return int(balance.Mul(months).Div(totalAmount).Ceil().IntPart())
}

// Summarize recomputes progress from a payment total; it is the read-side
// counterpart of ApplyPayment and uses the same rounding.
func Summarize(l *Loan, paid decimal.Decimal) Summary {
	balance := l.TotalAmount.Sub(paid)
	return Summary{
		AmountPaid:    paid,
		BalanceAmount: balance,
		EMIsLeft:      EMIsLeft(balance, l.TotalAmount, l.LoanPeriodYears),
	}
}

// ApplyPayment folds amount into the loan aggregates. Overpayment is
// rejected, so BalanceAmount never goes negative; a loan paid down to zero
// is closed.
func ApplyPayment(l *Loan, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: payment amount must be positive", ErrInvalidInput)
	}
	if l.Status == StatusClosed {
		return ErrLoanClosed
	}
	if amount.GreaterThan(l.Outstanding()) {
		return fmt.Errorf("%w: outstanding %s", ErrOverpayment, l.Outstanding().StringFixed(2))
	}

	l.AmountPaid = l.AmountPaid.Add(amount)
	l.BalanceAmount = l.TotalAmount.Sub(l.AmountPaid)
	l.EMIsLeft = EMIsLeft(l.BalanceAmount, l.TotalAmount, l.LoanPeriodYears)
	if !l.BalanceAmount.IsPositive() {
		l.Status = StatusClosed
	}
	return nil
}

// New builds an ACTIVE loan with derived terms. The balance starts at the
// full payable amount and every installment is still due.
func New(loanID, customerID string, principal decimal.Decimal, years int, ratePercent decimal.Decimal) (*Loan, error) {
	t, err := ComputeTerms(principal, years, ratePercent)
	if err != nil {
		return nil, err
	}
	return &Loan{
		LoanID:          loanID,
		CustomerID:      customerID,
		PrincipalAmount: principal.Round(2),
		InterestRate:    ratePercent.Round(2),
		LoanPeriodYears: years,
		TotalInterest:   t.TotalInterest,
		TotalAmount:     t.TotalAmount,
		MonthlyEMI:      t.MonthlyEMI,
		Status:          StatusActive,
		AmountPaid:      decimal.Zero,
		BalanceAmount:   t.TotalAmount,
		EMIsLeft:        years * MonthsPerYear,
	}, nil
}
