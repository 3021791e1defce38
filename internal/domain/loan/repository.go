package loan

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	// GetByLoanID returns the loan with its schedule ordered by seq.
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate row-locks the loan; only meaningful inside a tx.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	GetByApplicantID(ctx context.Context, applicantID string) (*Loan, error)
	List(ctx context.Context) ([]Loan, error)
	// Save persists loan columns only, never the schedule.
	Save(ctx context.Context, l *Loan) error
	ReplaceSchedule(ctx context.Context, l *Loan) error

	// Conditional installment writes; the returned count is the rows that
	// actually moved state.
	MarkInstallmentsOverdue(ctx context.Context, ids []uint64, lateFee decimal.Decimal) (int64, error)
	MarkInstallmentPaid(ctx context.Context, in *Installment) (int64, error)

	// Sweep queries
	ListOverdueCandidates(ctx context.Context, today time.Time) ([]string, error)
	ListDueOn(ctx context.Context, status Status, day time.Time) ([]Loan, error)

	// Reporting
	CountByStatus(ctx context.Context) (map[Status]int64, error)
	SumPrincipal(ctx context.Context, status Status) (decimal.Decimal, error)
}
