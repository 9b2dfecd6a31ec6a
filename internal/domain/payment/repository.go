package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, p *Payment) error
	// Oldest first.
	ListByLoanID(ctx context.Context, loanID string) ([]Payment, error)
	// Zero when the loan has no payments.
	SumByLoanID(ctx context.Context, loanID string) (decimal.Decimal, error)
	// Loans without payments are absent from the map.
	SumByLoanIDs(ctx context.Context, loanIDs []string) (map[string]decimal.Decimal, error)
}
