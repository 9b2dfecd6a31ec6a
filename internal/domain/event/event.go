package event

import (
	"context"
	"time"
)

const (
	TypeLoanOriginated  = "loan.originated"
	TypePaymentRecorded = "payment.recorded"
)

// Event is a fact about a loan, published after the owning transaction commits.
type Event struct {
	Type       string    `json:"type"`
	LoanID     string    `json:"loan_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
}
