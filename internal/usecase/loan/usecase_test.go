package loan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiksha-loan-backend/internal/domain/applicant"
	"shiksha-loan-backend/internal/domain/event"
	"shiksha-loan-backend/internal/domain/loan"
	"shiksha-loan-backend/internal/testutil/applicantmock"
	"shiksha-loan-backend/internal/testutil/eventmock"
	"shiksha-loan-backend/internal/testutil/loanmock"
)

func knownApplicant() *applicantmock.Repo {
	return &applicantmock.Repo{
		GetByApplicantIDFn: func(_ context.Context, id string) (*applicant.Applicant, error) {
			if id != "app-1" {
				return nil, applicant.ErrApplicantNotFound
			}
			return &applicant.Applicant{ApplicantID: "app-1", Name: "Asha Rao", Email: "asha@example.com", KYCStatus: applicant.KYCVerified}, nil
		},
	}
}

func TestUsecase_Apply(t *testing.T) {
	in := ApplyInput{
		ApplicantID: "app-1",
		Phone:       "9999999999",
		CourseName:  "B.Tech",
		CollegeName: "IIT",
		LoanType:    "education",
		Principal:   decimal.RequireFromString("250000.456"),
	}

	t.Run("happy path", func(t *testing.T) {
		var created *loan.Loan
		loans := &loanmock.Repo{
			GetByApplicantIDFn: func(context.Context, string) (*loan.Loan, error) { return nil, loan.ErrLoanNotFound },
			CreateFn: func(_ context.Context, l *loan.Loan) error {
				created = l
				return nil
			},
		}
		events := &eventmock.Broadcaster{}
		uc := NewUsecase(loans, knownApplicant(), events)

		dto, err := uc.Apply(context.Background(), in)
		require.NoError(t, err)
		require.NotNil(t, created)

		assert.Len(t, created.LoanID, 32)
		assert.Equal(t, loan.StatusFeePending, created.Status)
		assert.Equal(t, loan.FeePending, created.FeeStatus)
		assert.Equal(t, "Asha Rao", created.FullName, "name falls back to the applicant record")
		assert.Equal(t, "asha@example.com", created.Email)
		assert.Equal(t, "250000.46", created.Principal.String())
		assert.False(t, created.HasSchedule())

		assert.Equal(t, created.LoanID, dto.LoanID)
		assert.Empty(t, dto.Schedule)

		evs := events.Events()
		require.Len(t, evs, 1)
		assert.Equal(t, event.NewApplication, evs[0].Name)
		assert.Same(t, dto, evs[0].Payload)
	})

	t.Run("invalid principal", func(t *testing.T) {
		uc := NewUsecase(&loanmock.Repo{}, knownApplicant(), nil)
		bad := in
		bad.Principal = decimal.Zero
		_, err := uc.Apply(context.Background(), bad)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown applicant", func(t *testing.T) {
		uc := NewUsecase(&loanmock.Repo{}, knownApplicant(), nil)
		bad := in
		bad.ApplicantID = "ghost"
		_, err := uc.Apply(context.Background(), bad)
		assert.ErrorIs(t, err, applicant.ErrApplicantNotFound)
	})

	t.Run("already has a loan", func(t *testing.T) {
		loans := &loanmock.Repo{
			GetByApplicantIDFn: func(context.Context, string) (*loan.Loan, error) { return &loan.Loan{LoanID: "x"}, nil },
			CreateFn: func(context.Context, *loan.Loan) error {
				t.Fatal("Create must not be called")
				return nil
			},
		}
		events := &eventmock.Broadcaster{}
		_, err := NewUsecase(loans, knownApplicant(), events).Apply(context.Background(), in)
		assert.ErrorIs(t, err, loan.ErrLoanExists)
		assert.Empty(t, events.Events())
	})

	t.Run("lookup error surfaces", func(t *testing.T) {
		boom := errors.New("db down")
		loans := &loanmock.Repo{GetByApplicantIDFn: func(context.Context, string) (*loan.Loan, error) { return nil, boom }}
		_, err := NewUsecase(loans, knownApplicant(), nil).Apply(context.Background(), in)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("unique index race", func(t *testing.T) {
		loans := &loanmock.Repo{
			GetByApplicantIDFn: func(context.Context, string) (*loan.Loan, error) { return nil, loan.ErrLoanNotFound },
			CreateFn:           func(context.Context, *loan.Loan) error { return loan.ErrLoanExists },
		}
		_, err := NewUsecase(loans, knownApplicant(), nil).Apply(context.Background(), in)
		assert.ErrorIs(t, err, loan.ErrLoanExists)
	})
}

func scheduledLoan() *loan.Loan {
	l := &loan.Loan{
		LoanID:      "ln-1",
		ApplicantID: "app-1",
		Principal:   decimal.NewFromInt(100000),
		Status:      loan.StatusPendingReview,
	}
	_ = l.Approve(12, decimal.NewFromInt(12), time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))
	return l
}

func TestUsecase_Get(t *testing.T) {
	loans := &loanmock.Repo{GetByLoanIDFn: func(_ context.Context, id string) (*loan.Loan, error) {
		if id != "ln-1" {
			return nil, loan.ErrLoanNotFound
		}
		return scheduledLoan(), nil
	}}
	uc := NewUsecase(loans, knownApplicant(), nil)

	dto, err := uc.Get(context.Background(), "ln-1")
	require.NoError(t, err)
	require.Len(t, dto.Schedule, 12)
	assert.Equal(t, "8884.88", dto.Schedule[0].Amount)
	assert.Equal(t, "2025-02-05", dto.Schedule[0].DueDate)
	assert.Equal(t, "pending", dto.Schedule[0].Status)
	require.NotNil(t, dto.InterestRate)
	assert.Equal(t, "12", *dto.InterestRate)

	_, err = uc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, loan.ErrLoanNotFound)
}

func TestUsecase_List(t *testing.T) {
	loans := &loanmock.Repo{ListFn: func(context.Context) ([]loan.Loan, error) {
		return []loan.Loan{*scheduledLoan(), {LoanID: "ln-2", Status: loan.StatusFeePending}}, nil
	}}
	out, err := NewUsecase(loans, knownApplicant(), nil).List(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "ln-2", out[1].LoanID)
	assert.NotNil(t, out[1].Schedule, "empty schedule encodes as []")
}

func TestUsecase_Mine(t *testing.T) {
	l := scheduledLoan()
	l.Installments[0].Status = loan.InstallmentPaid
	loans := &loanmock.Repo{GetByApplicantIDFn: func(context.Context, string) (*loan.Loan, error) { return l, nil }}

	out, err := NewUsecase(loans, knownApplicant(), nil).Mine(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, "verified", out.KYCStatus)
	require.NotNil(t, out.NextDue)
	assert.Equal(t, 2, out.NextDue.Seq)

	_, err = NewUsecase(loans, knownApplicant(), nil).Mine(context.Background(), "ghost")
	assert.ErrorIs(t, err, applicant.ErrApplicantNotFound)
}

func TestUsecase_Stats(t *testing.T) {
	loans := &loanmock.Repo{
		CountByStatusFn: func(context.Context) (map[loan.Status]int64, error) {
			return map[loan.Status]int64{loan.StatusApproved: 2, loan.StatusFeePending: 3}, nil
		},
		SumPrincipalFn: func(_ context.Context, s loan.Status) (decimal.Decimal, error) {
			if s != loan.StatusApproved {
				t.Fatalf("sum over %s", s)
			}
			return decimal.NewFromInt(350000), nil
		},
	}
	out, err := NewUsecase(loans, knownApplicant(), nil).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), out.Total)
	assert.Equal(t, int64(0), out.ByStatus["rejected"])
	assert.Equal(t, int64(2), out.ByStatus["approved"])
	assert.Equal(t, "350000.00", out.ApprovedPrincipal)
}

func TestRecipient(t *testing.T) {
	l := &loan.Loan{LoanID: "ln-1", ApplicantID: "app-1", FullName: "Form Name", Email: "form@example.com"}

	email, name := Recipient(context.Background(), knownApplicant(), l)
	assert.Equal(t, "asha@example.com", email)
	assert.Equal(t, "Asha Rao", name)

	l.ApplicantID = "ghost"
	email, name = Recipient(context.Background(), knownApplicant(), l)
	assert.Equal(t, "form@example.com", email)
	assert.Equal(t, "Form Name", name)

	email, _ = Recipient(context.Background(), nil, l)
	assert.Equal(t, "form@example.com", email)
}
