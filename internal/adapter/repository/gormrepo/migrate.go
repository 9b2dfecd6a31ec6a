package gormrepo

import (
	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/domain/payment"

	"gorm.io/gorm"
)

// Migrate creates or updates the customers, loans and payments tables,
// including the cascading foreign keys.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&customer.Customer{}, &loan.Loan{}, &payment.Payment{})
}
