package loanmock

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	domain "shiksha-loan-backend/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Writes default to success, reads default to context.Canceled.
type Repo struct {
	CreateFn                  func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn             func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn    func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByApplicantIDFn        func(ctx context.Context, applicantID string) (*domain.Loan, error)
	ListFn                    func(ctx context.Context) ([]domain.Loan, error)
	SaveFn                    func(ctx context.Context, l *domain.Loan) error
	ReplaceScheduleFn         func(ctx context.Context, l *domain.Loan) error
	MarkInstallmentsOverdueFn func(ctx context.Context, ids []uint64, lateFee decimal.Decimal) (int64, error)
	MarkInstallmentPaidFn     func(ctx context.Context, in *domain.Installment) (int64, error)
	ListOverdueCandidatesFn   func(ctx context.Context, today time.Time) ([]string, error)
	ListDueOnFn               func(ctx context.Context, status domain.Status, day time.Time) ([]domain.Loan, error)
	CountByStatusFn           func(ctx context.Context) (map[domain.Status]int64, error)
	SumPrincipalFn            func(ctx context.Context, status domain.Status) (decimal.Decimal, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByApplicantID(ctx context.Context, applicantID string) (*domain.Loan, error) {
	if m.GetByApplicantIDFn != nil {
		return m.GetByApplicantIDFn(ctx, applicantID)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context) ([]domain.Loan, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) ReplaceSchedule(ctx context.Context, l *domain.Loan) error {
	if m.ReplaceScheduleFn != nil {
		return m.ReplaceScheduleFn(ctx, l)
	}
	return nil
}

// MarkInstallmentsOverdue defaults to reporting every id as updated.
func (m *Repo) MarkInstallmentsOverdue(ctx context.Context, ids []uint64, lateFee decimal.Decimal) (int64, error) {
	if m.MarkInstallmentsOverdueFn != nil {
		return m.MarkInstallmentsOverdueFn(ctx, ids, lateFee)
	}
	return int64(len(ids)), nil
}

func (m *Repo) MarkInstallmentPaid(ctx context.Context, in *domain.Installment) (int64, error) {
	if m.MarkInstallmentPaidFn != nil {
		return m.MarkInstallmentPaidFn(ctx, in)
	}
	return 1, nil
}

func (m *Repo) ListOverdueCandidates(ctx context.Context, today time.Time) ([]string, error) {
	if m.ListOverdueCandidatesFn != nil {
		return m.ListOverdueCandidatesFn(ctx, today)
	}
	return nil, context.Canceled
}

func (m *Repo) ListDueOn(ctx context.Context, status domain.Status, day time.Time) ([]domain.Loan, error) {
	if m.ListDueOnFn != nil {
		return m.ListDueOnFn(ctx, status, day)
	}
	return nil, context.Canceled
}

func (m *Repo) CountByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	if m.CountByStatusFn != nil {
		return m.CountByStatusFn(ctx)
	}
	return nil, context.Canceled
}

func (m *Repo) SumPrincipal(ctx context.Context, status domain.Status) (decimal.Decimal, error) {
	if m.SumPrincipalFn != nil {
		return m.SumPrincipalFn(ctx, status)
	}
	return decimal.Zero, context.Canceled
}
