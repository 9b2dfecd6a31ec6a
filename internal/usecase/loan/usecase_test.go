package loan

import (
	"context"
	"errors"
	"testing"
	"time"

	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/domain/event"
	domain "loan-ledger/internal/domain/loan"
	"loan-ledger/internal/domain/payment"
	"loan-ledger/internal/domain/uow"
	"loan-ledger/internal/infrastructure/metrics"
	"loan-ledger/internal/testutil/customermock"
	"loan-ledger/internal/testutil/eventmock"
	"loan-ledger/internal/testutil/loanmock"
	"loan-ledger/internal/testutil/paymentmock"
	"loan-ledger/internal/testutil/uowmock"
	"loan-ledger/pkg/id"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	customers *customermock.Repo
	loans     *loanmock.Repo
	payments  *paymentmock.Repo
	events    *eventmock.Publisher
	uc        *Usecase
}

func newFixture() *fixture {
	f := &fixture{
		customers: &customermock.Repo{},
		loans:     &loanmock.Repo{},
		payments:  &paymentmock.Repo{},
		events:    &eventmock.Publisher{},
	}
	tx := uowmock.Passthrough(uow.Repos{Customers: f.customers, Loans: f.loans, Payments: f.payments})
	f.uc = NewUsecase(f.customers, f.loans, f.payments, tx).WithPublisher(f.events)
	return f
}

func knownCustomer(customerID string) func(context.Context, string) (*customer.Customer, error) {
	return func(_ context.Context, got string) (*customer.Customer, error) {
		if got != customerID {
			return nil, gorm.ErrRecordNotFound
		}
		return &customer.Customer{CustomerID: customerID, Name: "Asha", Email: "asha@example.com"}, nil
	}
}

func TestCreate_Success(t *testing.T) {
	f := newFixture()
	cid := id.New()
	f.customers.GetByCustomerIDFn = knownCustomer(cid)

	var stored *domain.Loan
	f.loans.CreateFn = func(_ context.Context, l *domain.Loan) error {
		stored = l
		return nil
	}
	before := testutil.ToFloat64(metrics.LoansOriginated)

	dto, err := f.uc.Create(context.Background(), CreateLoanInput{
		CustomerID:         cid,
		LoanAmount:         d("100000"),
		LoanPeriodYears:    2,
		InterestRateYearly: d("10"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !id.Valid(dto.LoanID) || dto.CustomerID != cid {
		t.Fatalf("unexpected ids: %+v", dto)
	}
	if !dto.TotalAmountPayable.Equal(d("120000")) || !dto.MonthlyEMI.Equal(d("5000")) {
		t.Fatalf("unexpected terms: total=%s emi=%s", dto.TotalAmountPayable, dto.MonthlyEMI)
	}
	if stored == nil || !stored.BalanceAmount.Equal(d("120000")) || stored.EMIsLeft != 24 || !stored.AmountPaid.IsZero() {
		t.Fatalf("loan not initialised with full balance: %+v", stored)
	}
	if got := testutil.ToFloat64(metrics.LoansOriginated) - before; got != 1 {
		t.Fatalf("LoansOriginated delta = %v, want 1", got)
	}

	evs := f.events.Events()
	if len(evs) != 1 || evs[0].Type != event.TypeLoanOriginated || evs[0].LoanID != dto.LoanID {
		t.Fatalf("unexpected events: %+v", evs)
	}
}

func TestCreate_Errors(t *testing.T) {
	cid := id.New()
	tests := []struct {
		name    string
		in      CreateLoanInput
		setup   func(f *fixture)
		wantErr error
	}{
		{
			name:    "unknown customer",
			in:      CreateLoanInput{CustomerID: id.New(), LoanAmount: d("1000"), LoanPeriodYears: 1, InterestRateYearly: d("5")},
			setup:   func(f *fixture) { f.customers.GetByCustomerIDFn = knownCustomer(cid) },
			wantErr: customer.ErrNotFound,
		},
		{
			name:    "zero period",
			in:      CreateLoanInput{CustomerID: cid, LoanAmount: d("1000"), LoanPeriodYears: 0, InterestRateYearly: d("5")},
			setup:   func(f *fixture) { f.customers.GetByCustomerIDFn = knownCustomer(cid) },
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "negative rate",
			in:      CreateLoanInput{CustomerID: cid, LoanAmount: d("1000"), LoanPeriodYears: 1, InterestRateYearly: d("-1")},
			setup:   func(f *fixture) { f.customers.GetByCustomerIDFn = knownCustomer(cid) },
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "insert fails",
			in:   CreateLoanInput{CustomerID: cid, LoanAmount: d("1000"), LoanPeriodYears: 1, InterestRateYearly: d("5")},
			setup: func(f *fixture) {
				f.customers.GetByCustomerIDFn = knownCustomer(cid)
				f.loans.CreateFn = func(context.Context, *domain.Loan) error { return errDB }
			},
			wantErr: errDB,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setup(f)
			_, err := f.uc.Create(context.Background(), tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}
			if n := len(f.events.Events()); n != 0 {
				t.Fatalf("no event expected on failure, got %d", n)
			}
		})
	}
}

var errDB = errors.New("db down")

func TestCreate_PublishFailureDoesNotFail(t *testing.T) {
	f := newFixture()
	cid := id.New()
	f.customers.GetByCustomerIDFn = knownCustomer(cid)
	f.events.PublishFn = func(context.Context, ...event.Event) error { return errors.New("broker down") }

	if _, err := f.uc.Create(context.Background(), CreateLoanInput{
		CustomerID: cid, LoanAmount: d("500"), LoanPeriodYears: 1, InterestRateYearly: d("0"),
	}); err != nil {
		t.Fatalf("Create should succeed when publishing fails: %v", err)
	}
}

func seededLoan(customerID string) *domain.Loan {
	l, _ := domain.New(id.New(), customerID, d("100000"), 2, d("10"))
	l.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return l
}

func TestGet(t *testing.T) {
	f := newFixture()
	cid := id.New()
	l := seededLoan(cid)
	f.customers.GetByCustomerIDFn = knownCustomer(cid)
	f.loans.GetByLoanIDFn = func(_ context.Context, loanID string) (*domain.Loan, error) {
		if loanID == l.LoanID {
			return l, nil
		}
		return nil, gorm.ErrRecordNotFound
	}

	dto, err := f.uc.Get(context.Background(), l.LoanID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if dto.CustomerName != "Asha" || dto.CustomerEmail != "asha@example.com" {
		t.Fatalf("customer snapshot missing: %+v", dto)
	}
	if !dto.LoanAmount.Equal(d("100000")) || !dto.TotalInterest.Equal(d("20000")) || dto.Status != "ACTIVE" {
		t.Fatalf("unexpected detail: %+v", dto)
	}

	if _, err := f.uc.Get(context.Background(), id.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want loan.ErrNotFound, got %v", err)
	}
}

func TestLedger(t *testing.T) {
	f := newFixture()
	l := seededLoan(id.New())
	// stored aggregates are stale on purpose; the ledger must not read them
	l.AmountPaid = d("1")

	t0 := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	rows := []payment.Payment{
		{PaymentID: "p1", LoanID: l.LoanID, Amount: d("5000"), PaymentType: payment.TypeEMI, PaymentDate: t0},
		{PaymentID: "p2", LoanID: l.LoanID, Amount: d("7000"), PaymentType: payment.TypeLumpSum, PaymentDate: t0.Add(time.Hour)},
	}
	f.loans.GetByLoanIDFn = func(_ context.Context, loanID string) (*domain.Loan, error) {
		if loanID == l.LoanID {
			return l, nil
		}
		return nil, gorm.ErrRecordNotFound
	}
	f.payments.ListByLoanIDFn = func(context.Context, string) ([]payment.Payment, error) { return rows, nil }
	f.payments.SumByLoanIDFn = func(context.Context, string) (decimal.Decimal, error) { return d("12000"), nil }

	dto, err := f.uc.Ledger(context.Background(), l.LoanID)
	if err != nil {
		t.Fatalf("Ledger: %v", err)
	}
	if !dto.AmountPaid.Equal(d("12000")) || !dto.BalanceAmount.Equal(d("108000")) {
		t.Fatalf("unexpected totals: paid=%s balance=%s", dto.AmountPaid, dto.BalanceAmount)
	}
	// 108000 / 5000 = 21.6 → 22 installments
	if dto.EMIsLeft != 22 {
		t.Fatalf("EMIsLeft = %d, want 22", dto.EMIsLeft)
	}
	if len(dto.Transactions) != 2 || dto.Transactions[1].Type != "LUMP_SUM" || dto.Transactions[0].TransactionID != "p1" {
		t.Fatalf("unexpected transactions: %+v", dto.Transactions)
	}

	if _, err := f.uc.Ledger(context.Background(), id.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want loan.ErrNotFound, got %v", err)
	}
}

func TestLedger_NoPayments(t *testing.T) {
	f := newFixture()
	l := seededLoan(id.New())
	f.loans.GetByLoanIDFn = func(context.Context, string) (*domain.Loan, error) { return l, nil }
	f.payments.ListByLoanIDFn = func(context.Context, string) ([]payment.Payment, error) { return nil, nil }
	f.payments.SumByLoanIDFn = func(context.Context, string) (decimal.Decimal, error) { return decimal.Zero, nil }

	dto, err := f.uc.Ledger(context.Background(), l.LoanID)
	if err != nil {
		t.Fatalf("Ledger: %v", err)
	}
	if !dto.AmountPaid.IsZero() || !dto.BalanceAmount.Equal(d("120000")) || dto.EMIsLeft != 24 {
		t.Fatalf("unexpected empty ledger: %+v", dto)
	}
	if dto.Transactions == nil || len(dto.Transactions) != 0 {
		t.Fatalf("transactions should be an empty, non-nil slice")
	}
}

func TestOverview(t *testing.T) {
	f := newFixture()
	cid := id.New()
	a, b := seededLoan(cid), seededLoan(cid)
	f.customers.GetByCustomerIDFn = knownCustomer(cid)
	f.loans.ListByCustomerIDFn = func(context.Context, string) ([]domain.Loan, error) {
		return []domain.Loan{*a, *b}, nil
	}
	f.payments.SumByLoanIDsFn = func(_ context.Context, ids []string) (map[string]decimal.Decimal, error) {
		if len(ids) != 2 {
			t.Fatalf("want 2 ids, got %v", ids)
		}
		return map[string]decimal.Decimal{a.LoanID: d("5000")}, nil
	}

	dto, err := f.uc.Overview(context.Background(), cid)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if dto.TotalLoans != 2 || len(dto.Loans) != 2 {
		t.Fatalf("unexpected count: %+v", dto)
	}
	if !dto.Loans[0].AmountPaid.Equal(d("5000")) || dto.Loans[0].EMIsLeft != 23 {
		t.Fatalf("first loan: %+v", dto.Loans[0])
	}
	if !dto.Loans[1].AmountPaid.IsZero() || dto.Loans[1].EMIsLeft != 24 {
		t.Fatalf("second loan: %+v", dto.Loans[1])
	}
}

func TestOverview_EmptyAndMissing(t *testing.T) {
	f := newFixture()
	cid := id.New()
	f.customers.GetByCustomerIDFn = knownCustomer(cid)
	f.loans.ListByCustomerIDFn = func(context.Context, string) ([]domain.Loan, error) { return nil, nil }
	f.payments.SumByLoanIDsFn = func(context.Context, []string) (map[string]decimal.Decimal, error) {
		return map[string]decimal.Decimal{}, nil
	}

	dto, err := f.uc.Overview(context.Background(), cid)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if dto.TotalLoans != 0 || len(dto.Loans) != 0 {
		t.Fatalf("expected empty overview, got %+v", dto)
	}

	if _, err := f.uc.Overview(context.Background(), id.New()); !errors.Is(err, customer.ErrNotFound) {
		t.Fatalf("want customer.ErrNotFound, got %v", err)
	}
}
