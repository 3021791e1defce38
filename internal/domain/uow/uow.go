package uow

import (
	"context"

	"shiksha-loan-backend/internal/domain/applicant"
	"shiksha-loan-backend/internal/domain/approval"
	"shiksha-loan-backend/internal/domain/loan"
)

type Repos struct {
	Loans      loan.Repository
	Approvals  approval.Repository
	Applicants applicant.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the loan row first (schedule preloaded), then pass it in. Every
	// write to a loan's schedule goes through here.
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
