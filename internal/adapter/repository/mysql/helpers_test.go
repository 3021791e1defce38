package mysql

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	applicantDomain "shiksha-loan-backend/internal/domain/applicant"
	loanDomain "shiksha-loan-backend/internal/domain/loan"
	"shiksha-loan-backend/internal/infrastructure/db"
	"shiksha-loan-backend/pkg/id"
)

// openTestDB creates an in-memory sqlite DB with the full schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.OpenGormWithDialector(sqlite.Open(":memory:"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func makeLoan(loanID, applicantID string, status loanDomain.Status) *loanDomain.Loan {
	return &loanDomain.Loan{
		LoanID:          loanID,
		ApplicantID:     applicantID,
		FullName:        "Asha Rao",
		Email:           "asha@example.com",
		Principal:       decimal.NewFromInt(100000),
		Status:          status,
		FeeStatus:       loanDomain.FeePending,
		StatusUpdatedAt: time.Now().UTC(),
	}
}

func makeApplicant(email string) *applicantDomain.Applicant {
	return &applicantDomain.Applicant{
		ApplicantID:  id.NewID32(),
		Name:         "Asha Rao",
		Email:        email,
		PasswordHash: "$2a$04$hash",
		KYCStatus:    applicantDomain.KYCPending,
	}
}

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
