package uow

import (
	"context"

	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/domain/payment"
)

// Repos are bound to the transaction they were handed out in.
type Repos struct {
	Customers customer.Repository
	Loans     loan.Repository
	Payments  payment.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the loan row first, then pass it in; loan.ErrNotFound if absent
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
