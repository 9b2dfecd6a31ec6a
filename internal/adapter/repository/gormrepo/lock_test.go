package gormrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"

	loanDomain "loan-ledger/internal/domain/loan"
	"loan-ledger/internal/domain/uow"
	"loan-ledger/pkg/id"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openMockMySQL returns a gorm DB on the mysql dialect backed by sqlmock.
func openMockMySQL(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return db, mock
}

var lockQuery = regexp.QuoteMeta("SELECT * FROM `loans` WHERE loan_id = ?") + `.*FOR UPDATE$`

func TestGetByLoanIDForUpdate_EmitsForUpdate(t *testing.T) {
	db, _ := openMockMySQL(t)
	stmt := db.Session(&gorm.Session{DryRun: true}).
		Clauses(lockingUpdate()).
		Where("loan_id = ?", "x").
		First(&loanDomain.Loan{}).Statement

	if !regexp.MustCompile(lockQuery).MatchString(stmt.SQL.String()) {
		t.Fatalf("locking read not rendered, got %q", stmt.SQL.String())
	}
}

func TestGormUoW_WithinLoanTx_LocksRowInsideTx(t *testing.T) {
	db, mock := openMockMySQL(t)
	loanID := id.New()

	mock.ExpectBegin()
	mock.ExpectQuery(lockQuery).
		WithArgs(loanID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"loan_id", "customer_id", "total_amount", "status"}).
			AddRow(loanID, id.New(), "120000.00", "ACTIVE"))
	mock.ExpectCommit()

	var seen *loanDomain.Loan
	err := NewGormUoW(db).WithinLoanTx(context.Background(), loanID, func(_ uow.Repos, l *loanDomain.Loan) error {
		seen = l
		return nil
	})
	if err != nil {
		t.Fatalf("WithinLoanTx: %v", err)
	}
	if seen == nil || seen.LoanID != loanID || !seen.TotalAmount.Equal(d("120000")) {
		t.Fatalf("callback got %+v", seen)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGormUoW_WithinLoanTx_MissingRowRollsBack(t *testing.T) {
	db, mock := openMockMySQL(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockQuery).WillReturnRows(sqlmock.NewRows([]string{"loan_id"}))
	mock.ExpectRollback()

	err := NewGormUoW(db).WithinLoanTx(context.Background(), id.New(), func(uow.Repos, *loanDomain.Loan) error {
		t.Fatalf("callback must not run")
		return nil
	})
	if !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("expected loan.ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
