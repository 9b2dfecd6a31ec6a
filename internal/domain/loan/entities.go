package loan

import (
	"errors"
	"time"

	"loan-ledger/internal/domain/payment"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = errors.New("loan not found")
	ErrInvalidInput = errors.New("invalid loan input")
	ErrOverpayment  = errors.New("payment exceeds outstanding balance")
	ErrLoanClosed   = errors.New("loan is already fully repaid")
)

type Status string

const (
	StatusActive Status = "ACTIVE"
	StatusClosed Status = "CLOSED"
)

// Table: loans. AmountPaid, BalanceAmount and EMIsLeft only change through ApplyPayment.
type Loan struct {
	LoanID          string          `gorm:"column:loan_id;type:char(36);primaryKey" json:"loan_id"`
	CustomerID      string          `gorm:"column:customer_id;type:char(36);not null;index:idx_loans_customer_created" json:"customer_id"`
	PrincipalAmount decimal.Decimal `gorm:"column:principal_amount;type:decimal(12,2);not null" json:"principal_amount"`
	InterestRate    decimal.Decimal `gorm:"column:interest_rate;type:decimal(5,2);not null" json:"interest_rate"`
	LoanPeriodYears int             `gorm:"column:loan_period_years;not null" json:"loan_period_years"`
	TotalInterest   decimal.Decimal `gorm:"column:total_interest;type:decimal(12,2);not null" json:"total_interest"`
	TotalAmount     decimal.Decimal `gorm:"column:total_amount;type:decimal(12,2);not null" json:"total_amount"`
	MonthlyEMI      decimal.Decimal `gorm:"column:monthly_emi;type:decimal(12,2);not null" json:"monthly_emi"`
	Status          Status          `gorm:"column:status;size:20;not null;default:ACTIVE" json:"status"`
	AmountPaid      decimal.Decimal `gorm:"column:amount_paid;type:decimal(12,2);not null" json:"amount_paid"`
	BalanceAmount   decimal.Decimal `gorm:"column:balance_amount;type:decimal(12,2);not null" json:"balance_amount"`
	EMIsLeft        int             `gorm:"column:emis_left;not null" json:"emis_left"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime;index:idx_loans_customer_created" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Only declared so migrations emit the FK; never preloaded.
	Payments []payment.Payment `gorm:"foreignKey:LoanID;references:LoanID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// Months is the number of scheduled installments.
func (l *Loan) Months() int { return l.LoanPeriodYears * MonthsPerYear }

// Outstanding is TotalAmount minus AmountPaid.
func (l *Loan) Outstanding() decimal.Decimal { return l.TotalAmount.Sub(l.AmountPaid) }
