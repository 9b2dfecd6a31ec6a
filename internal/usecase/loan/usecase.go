package loan

import (
	"context"
	"errors"
	"time"

	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/domain/event"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/domain/payment"
	"loan-ledger/internal/domain/uow"
	"loan-ledger/internal/infrastructure/metrics"
	"loan-ledger/internal/infrastructure/telemetry"
	"loan-ledger/pkg/id"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Usecase struct {
	customers customer.Repository
	loans     loan.Repository
	payments  payment.Repository
	uow       uow.UnitOfWork
	events    event.Publisher
	now       func() time.Time
}

// NewUsecase: reads go through the repos, origination through the UoW.
func NewUsecase(customers customer.Repository, loans loan.Repository, payments payment.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{
		customers: customers,
		loans:     loans,
		payments:  payments,
		uow:       tx,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithPublisher sets where loan.originated events go; nil disables publishing.
func (u *Usecase) WithPublisher(p event.Publisher) *Usecase {
	u.events = p
	return u
}

type OriginatedPayload struct {
	CustomerID      string          `json:"customer_id"`
	PrincipalAmount decimal.Decimal `json:"principal_amount"`
	InterestRate    decimal.Decimal `json:"interest_rate"`
	LoanPeriodYears int             `json:"loan_period_years"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	MonthlyEMI      decimal.Decimal `json:"monthly_emi"`
}

func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (_ *CreatedLoanDTO, err error) {
	ctx, span := otel.Tracer(telemetry.InstrumentationName).Start(ctx, "loan.Create",
		trace.WithAttributes(attribute.String("customer.id", in.CustomerID)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	l, err := loan.New(id.New(), in.CustomerID, in.LoanAmount, in.LoanPeriodYears, in.InterestRateYearly)
	if err != nil {
		return nil, err
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Customers.GetByCustomerID(ctx, in.CustomerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return customer.ErrNotFound
			}
			return err
		}
		return r.Loans.Create(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = u.now()
	}
	span.SetAttributes(attribute.String("loan.id", l.LoanID))

	metrics.LoansOriginated.Inc()
	metrics.PrincipalOriginated.Add(l.PrincipalAmount.InexactFloat64())
	zap.L().Info("loan originated",
		zap.String("loan_id", l.LoanID),
		zap.String("customer_id", l.CustomerID),
		zap.String("principal", l.PrincipalAmount.StringFixed(2)),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)
	u.publish(ctx, event.Event{
		Type:       event.TypeLoanOriginated,
		LoanID:     l.LoanID,
		OccurredAt: l.CreatedAt,
		Payload: OriginatedPayload{
			CustomerID:      l.CustomerID,
			PrincipalAmount: l.PrincipalAmount,
			InterestRate:    l.InterestRate,
			LoanPeriodYears: l.LoanPeriodYears,
			TotalAmount:     l.TotalAmount,
			MonthlyEMI:      l.MonthlyEMI,
		},
	})

	return &CreatedLoanDTO{
		LoanID:             l.LoanID,
		CustomerID:         l.CustomerID,
		TotalAmountPayable: l.TotalAmount,
		MonthlyEMI:         l.MonthlyEMI,
		CreatedAt:          l.CreatedAt,
	}, nil
}

// publish never fails the request: the loan is already committed.
func (u *Usecase) publish(ctx context.Context, events ...event.Event) {
	if u.events == nil {
		return
	}
	if err := u.events.Publish(ctx, events...); err != nil {
		zap.L().Warn("event publish failed", zap.String("type", events[0].Type), zap.Error(err))
	}
}

func findLoan(ctx context.Context, repo loan.Repository, loanID string) (*loan.Loan, error) {
	l, err := repo.GetByLoanID(ctx, loanID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loan.ErrNotFound
	}
	return l, err
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDetailDTO, error) {
	l, err := findLoan(ctx, u.loans, loanID)
	if err != nil {
		return nil, err
	}
	c, err := u.customers.GetByCustomerID(ctx, l.CustomerID)
	if err != nil {
		// the FK makes a missing owner a storage fault, not a 404
		return nil, err
	}
	return &LoanDetailDTO{
		LoanID:             l.LoanID,
		CustomerID:         l.CustomerID,
		CustomerName:       c.Name,
		CustomerEmail:      c.Email,
		LoanAmount:         l.PrincipalAmount,
		InterestRate:       l.InterestRate,
		LoanPeriodYears:    l.LoanPeriodYears,
		TotalInterest:      l.TotalInterest,
		TotalAmountPayable: l.TotalAmount,
		MonthlyEMI:         l.MonthlyEMI,
		Status:             string(l.Status),
	}, nil
}

// Ledger reads the loan, its payments and their sum in one transaction.
func (u *Usecase) Ledger(ctx context.Context, loanID string) (*LedgerDTO, error) {
	var out *LedgerDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := findLoan(ctx, r.Loans, loanID)
		if err != nil {
			return err
		}
		rows, err := r.Payments.ListByLoanID(ctx, loanID)
		if err != nil {
			return err
		}
		paid, err := r.Payments.SumByLoanID(ctx, loanID)
		if err != nil {
			return err
		}

		s := loan.Summarize(l, paid)
		txs := make([]TransactionDTO, 0, len(rows))
		for _, p := range rows {
			txs = append(txs, TransactionDTO{
				TransactionID: p.PaymentID,
				Date:          p.PaymentDate,
				Amount:        p.Amount,
				Type:          string(p.PaymentType),
			})
		}
		out = &LedgerDTO{
			LoanID:        l.LoanID,
			CustomerID:    l.CustomerID,
			Principal:     l.PrincipalAmount,
			TotalAmount:   l.TotalAmount,
			MonthlyEMI:    l.MonthlyEMI,
			AmountPaid:    s.AmountPaid,
			BalanceAmount: s.BalanceAmount,
			EMIsLeft:      s.EMIsLeft,
			Status:        string(l.Status),
			Transactions:  txs,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Overview lists every loan of the customer, oldest first. A customer with
// no loans yields TotalLoans == 0; turning that into a 404 is up to the caller.
func (u *Usecase) Overview(ctx context.Context, customerID string) (*OverviewDTO, error) {
	if _, err := u.customers.GetByCustomerID(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customer.ErrNotFound
		}
		return nil, err
	}

	loans, err := u.loans.ListByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(loans))
	for _, l := range loans {
		ids = append(ids, l.LoanID)
	}
	paid, err := u.payments.SumByLoanIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := &OverviewDTO{CustomerID: customerID, TotalLoans: len(loans), Loans: make([]LoanSummaryDTO, 0, len(loans))}
	for i := range loans {
		l := &loans[i]
		s := loan.Summarize(l, paid[l.LoanID])
		out.Loans = append(out.Loans, LoanSummaryDTO{
			LoanID:          l.LoanID,
			PrincipalAmount: l.PrincipalAmount,
			TotalAmount:     l.TotalAmount,
			TotalInterest:   l.TotalInterest,
			MonthlyEMI:      l.MonthlyEMI,
			AmountPaid:      s.AmountPaid,
			EMIsLeft:        s.EMIsLeft,
		})
	}
	return out, nil
}
