package payment

import (
	"context"
	"fmt"
	"time"

	"loan-ledger/internal/domain/event"
	domainLoan "loan-ledger/internal/domain/loan"
	domainPayment "loan-ledger/internal/domain/payment"
	"loan-ledger/internal/domain/uow"
	"loan-ledger/internal/infrastructure/metrics"
	"loan-ledger/internal/infrastructure/telemetry"
	"loan-ledger/pkg/id"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Usecase struct {
	uow    uow.UnitOfWork
	events event.Publisher
	now    func() time.Time
}

// NewUsecase: every payment goes through the UoW's per-loan lock.
func NewUsecase(tx uow.UnitOfWork) *Usecase {
	return &Usecase{uow: tx, now: func() time.Time { return time.Now().UTC() }}
}

func (u *Usecase) WithPublisher(p event.Publisher) *Usecase {
	u.events = p
	return u
}

// Record stores a payment and folds it into the loan aggregates. The loan
// row stays locked from read to save, so concurrent payments on one loan
// apply one after another.
func (u *Usecase) Record(ctx context.Context, in RecordPaymentInput) (_ *ReceiptDTO, err error) {
	ctx, span := otel.Tracer(telemetry.InstrumentationName).Start(ctx, "payment.Record",
		trace.WithAttributes(
			attribute.String("loan.id", in.LoanID),
			attribute.String("payment.type", in.PaymentType),
		))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	typ := domainPayment.Type(in.PaymentType)
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: unknown payment type %q", domainLoan.ErrInvalidInput, in.PaymentType)
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", domainLoan.ErrInvalidInput)
	}
	amount := in.Amount.Round(2)

	var dto *ReceiptDTO
	err = u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		// guards (closed loan, overpayment) run before anything is written
		if err := domainLoan.ApplyPayment(l, amount); err != nil {
			return err
		}

		p := &domainPayment.Payment{
			PaymentID:   id.New(),
			LoanID:      l.LoanID,
			Amount:      amount,
			PaymentType: typ,
		}
		if err := r.Payments.Create(ctx, p); err != nil {
			return err
		}
		if p.PaymentDate.IsZero() {
			p.PaymentDate = u.now()
		}

		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		dto = &ReceiptDTO{
			PaymentID:        p.PaymentID,
			LoanID:           l.LoanID,
			Amount:           p.Amount,
			PaymentType:      string(p.PaymentType),
			PaymentDate:      p.PaymentDate,
			RemainingBalance: l.BalanceAmount,
			EMIsLeft:         l.EMIsLeft,
			LoanStatus:       string(l.Status),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.PaymentsRecorded.WithLabelValues(dto.PaymentType).Inc()
	metrics.PaymentAmount.WithLabelValues(dto.PaymentType).Add(dto.Amount.InexactFloat64())
	if dto.LoanStatus == string(domainLoan.StatusClosed) {
		metrics.LoansClosed.Inc()
	}
	span.SetAttributes(attribute.String("payment.id", dto.PaymentID))
	zap.L().Info("payment recorded",
		zap.String("payment_id", dto.PaymentID),
		zap.String("loan_id", dto.LoanID),
		zap.String("amount", dto.Amount.StringFixed(2)),
		zap.String("remaining_balance", dto.RemainingBalance.StringFixed(2)),
		zap.Int("emis_left", dto.EMIsLeft),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)
	u.publish(ctx, event.Event{
		Type:       event.TypePaymentRecorded,
		LoanID:     dto.LoanID,
		OccurredAt: dto.PaymentDate,
		Payload: RecordedPayload{
			PaymentID:        dto.PaymentID,
			Amount:           dto.Amount,
			PaymentType:      dto.PaymentType,
			RemainingBalance: dto.RemainingBalance,
			EMIsLeft:         dto.EMIsLeft,
			LoanStatus:       dto.LoanStatus,
		},
	})
	return dto, nil
}

func (u *Usecase) publish(ctx context.Context, events ...event.Event) {
	if u.events == nil {
		return
	}
	if err := u.events.Publish(ctx, events...); err != nil {
		zap.L().Warn("event publish failed", zap.String("type", events[0].Type), zap.Error(err))
	}
}
