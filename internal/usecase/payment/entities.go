package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

type RecordPaymentInput struct {
	LoanID      string
	Amount      decimal.Decimal
	PaymentType string
}

// ReceiptDTO is the stored payment plus the loan snapshot right after it.
type ReceiptDTO struct {
	PaymentID        string
	LoanID           string
	Amount           decimal.Decimal
	PaymentType      string
	PaymentDate      time.Time
	RemainingBalance decimal.Decimal
	EMIsLeft         int
	LoanStatus       string
}

type RecordedPayload struct {
	PaymentID        string          `json:"payment_id"`
	Amount           decimal.Decimal `json:"amount"`
	PaymentType      string          `json:"payment_type"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	EMIsLeft         int             `json:"emis_left"`
	LoanStatus       string          `json:"loan_status"`
}
