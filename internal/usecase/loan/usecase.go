package loan

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"shiksha-loan-backend/internal/domain/applicant"
	"shiksha-loan-backend/internal/domain/event"
	"shiksha-loan-backend/internal/domain/loan"
	"shiksha-loan-backend/internal/infrastructure/logger"
	"shiksha-loan-backend/pkg/id"
)

var ErrInvalidInput = errors.New("invalid input")

type Usecase struct {
	repo       loan.Repository
	applicants applicant.Repository
	events     event.Broadcaster
	now        func() time.Time
}

func NewUsecase(r loan.Repository, applicants applicant.Repository, events event.Broadcaster) *Usecase {
	if events == nil {
		events = event.Nop{}
	}
	return &Usecase{repo: r, applicants: applicants, events: events, now: time.Now}
}

// Apply creates the applicant's single loan application, awaiting the
// registration fee.
func (u *Usecase) Apply(ctx context.Context, in ApplyInput) (*LoanDTO, error) {
	if strings.TrimSpace(in.ApplicantID) == "" || !in.Principal.IsPositive() {
		return nil, ErrInvalidInput
	}

	a, err := u.applicants.GetByApplicantID(ctx, in.ApplicantID)
	if err != nil {
		return nil, err
	}

	// Block if the applicant already has a loan.
	switch _, err := u.repo.GetByApplicantID(ctx, in.ApplicantID); {
	case err == nil:
		return nil, loan.ErrLoanExists
	case !errors.Is(err, loan.ErrLoanNotFound):
		return nil, err
	}

	l := &loan.Loan{
		LoanID:          id.NewID32(),
		ApplicantID:     a.ApplicantID,
		FullName:        firstNonEmpty(in.FullName, a.Name),
		Email:           firstNonEmpty(applicant.NormalizeEmail(in.Email), a.Email),
		Phone:           in.Phone,
		CourseName:      in.CourseName,
		CollegeName:     in.CollegeName,
		LoanType:        in.LoanType,
		Principal:       in.Principal.Round(2),
		Status:          loan.StatusFeePending,
		FeeStatus:       loan.FeePending,
		DocumentURL:     null.NewString(in.DocumentURL, in.DocumentURL != ""),
		Bank:            in.Bank,
		StatusUpdatedAt: u.now().UTC(),
	}
	if err := u.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	dto := ToLoanDTO(l)
	u.events.Broadcast(event.NewApplication, dto)
	logger.Info(ctx, "loan application created", zap.String("loan_id", l.LoanID), zap.String("applicant_id", l.ApplicantID))
	return dto, nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return ToLoanDTO(l), nil
}

// List returns all applications for the admin dashboard, newest first.
func (u *Usecase) List(ctx context.Context) ([]*LoanDTO, error) {
	loans, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*LoanDTO, 0, len(loans))
	for i := range loans {
		out = append(out, ToLoanDTO(&loans[i]))
	}
	return out, nil
}

// Mine returns the caller's application together with their KYC status.
func (u *Usecase) Mine(ctx context.Context, applicantID string) (*MyApplicationDTO, error) {
	a, err := u.applicants.GetByApplicantID(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	l, err := u.repo.GetByApplicantID(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	out := &MyApplicationDTO{Loan: ToLoanDTO(l), KYCStatus: string(a.KYCStatus)}
	if next := l.NextDue(); next != nil {
		dto := ToInstallmentDTO(*next)
		out.NextDue = &dto
	}
	return out, nil
}

func (u *Usecase) Stats(ctx context.Context) (*StatsDTO, error) {
	counts, err := u.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	principal, err := u.repo.SumPrincipal(ctx, loan.StatusApproved)
	if err != nil {
		return nil, err
	}

	out := &StatsDTO{ByStatus: map[string]int64{}, ApprovedPrincipal: principal.StringFixed(2)}
	for _, s := range []loan.Status{loan.StatusFeePending, loan.StatusPendingReview, loan.StatusApproved, loan.StatusRejected} {
		out.ByStatus[string(s)] = counts[s]
	}
	for _, n := range counts {
		out.Total += n
	}
	return out, nil
}

// Recipient resolves who a loan notification goes to: the applicant's
// registered email and name, falling back to what the application carries.
func Recipient(ctx context.Context, applicants applicant.Repository, l *loan.Loan) (email, name string) {
	email, name = l.Email, l.FullName
	if applicants == nil {
		return email, name
	}
	a, err := applicants.GetByApplicantID(ctx, l.ApplicantID)
	if err != nil {
		if !errors.Is(err, applicant.ErrApplicantNotFound) {
			logger.Warn(ctx, "resolve recipient", zap.String("loan_id", l.LoanID), zap.Error(err))
		}
		return email, name
	}
	return firstNonEmpty(a.Email, email), a.DisplayName(name)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
