package gormrepo

import (
	"context"
	"path/filepath"
	"testing"

	customerDomain "loan-ledger/internal/domain/customer"
	loanDomain "loan-ledger/internal/domain/loan"
	"loan-ledger/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB creates a migrated in-memory sqlite DB.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return openSQLite(t, ":memory:")
}

// openFileTestDB uses a file so every pooled conn sees the same data; the
// pool is capped at one conn, which serialises transactions the way row
// locks do on mysql/postgres.
func openFileTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := openSQLite(t, filepath.Join(t.TempDir(), "ledger.db"))
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db
}

func openSQLite(t *testing.T, dsn string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedCustomer(t *testing.T, db *gorm.DB) *customerDomain.Customer {
	t.Helper()
	c := &customerDomain.Customer{CustomerID: id.New(), Name: "Asha", Email: "asha@example.com"}
	if err := NewCustomerRepository(db).Create(context.Background(), c); err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return c
}

// seedLoan stores 100000 over 2 years at 10%: total 120000, EMI 5000.
func seedLoan(t *testing.T, db *gorm.DB, customerID string) *loanDomain.Loan {
	t.Helper()
	l, err := loanDomain.New(id.New(), customerID, d("100000"), 2, d("10"))
	if err != nil {
		t.Fatalf("new loan: %v", err)
	}
	if err := NewLoanRepository(db).Create(context.Background(), l); err != nil {
		t.Fatalf("seed loan: %v", err)
	}
	return l
}
