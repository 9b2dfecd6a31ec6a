package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// Row-locks the loan for the rest of the enclosing transaction.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	// Oldest first.
	ListByCustomerID(ctx context.Context, customerID string) ([]Loan, error)
	Save(ctx context.Context, l *Loan) error
}
