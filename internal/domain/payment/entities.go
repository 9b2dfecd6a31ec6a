package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeEMI     Type = "EMI"
	TypeLumpSum Type = "LUMP_SUM"
)

func (t Type) Valid() bool { return t == TypeEMI || t == TypeLumpSum }

// Payment rows are append-only: the repository has no update or delete.
type Payment struct {
	PaymentID   string          `gorm:"column:payment_id;type:char(36);primaryKey" json:"payment_id"`
	LoanID      string          `gorm:"column:loan_id;type:char(36);not null;index:idx_payments_loan_date" json:"loan_id"`
	Amount      decimal.Decimal `gorm:"column:amount;type:decimal(12,2);not null" json:"amount"`
	PaymentType Type            `gorm:"column:payment_type;size:10;not null" json:"payment_type"`
	PaymentDate time.Time       `gorm:"column:payment_date;autoCreateTime;index:idx_payments_loan_date" json:"payment_date"`
}

func (Payment) TableName() string { return "payments" }
