package customer

import (
	"errors"
	"time"

	"loan-ledger/internal/domain/loan"
)

var (
	ErrNotFound     = errors.New("customer not found")
	ErrInvalidInput = errors.New("invalid customer input")
)

// Table: customers
type Customer struct {
	CustomerID string    `gorm:"column:customer_id;type:char(36);primaryKey" json:"customer_id"`
	Name       string    `gorm:"column:name;size:100;not null" json:"name"`
	Email      string    `gorm:"column:email;size:254;not null" json:"email"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	// Only declared so migrations emit the FK; never preloaded.
	Loans []loan.Loan `gorm:"foreignKey:CustomerID;references:CustomerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Customer) TableName() string { return "customers" }
