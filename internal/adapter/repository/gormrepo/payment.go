package gormrepo

import (
	"context"

	paymentDomain "loan-ledger/internal/domain/payment"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) Create(ctx context.Context, p *paymentDomain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) ListByLoanID(ctx context.Context, loanID string) ([]paymentDomain.Payment, error) {
	var out []paymentDomain.Payment
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("payment_date ASC, payment_id ASC").
		Find(&out)
	return out, res.Error
}

func (r *PaymentRepository) SumByLoanID(ctx context.Context, loanID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&paymentDomain.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("loan_id = ?", loanID).
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	// sqlite sums DECIMAL columns as REAL
	return total.Round(2), nil
}

func (r *PaymentRepository) SumByLoanIDs(ctx context.Context, loanIDs []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(loanIDs))
	if len(loanIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.WithContext(ctx).
		Model(&paymentDomain.Payment{}).
		Select("loan_id, COALESCE(SUM(amount), 0)").
		Where("loan_id IN ?", loanIDs).
		Group("loan_id").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			loanID string
			total  decimal.Decimal
		)
		if err := rows.Scan(&loanID, &total); err != nil {
			return nil, err
		}
		out[loanID] = total.Round(2)
	}
	return out, rows.Err()
}
