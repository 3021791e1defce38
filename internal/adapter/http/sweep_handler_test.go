package http

import (
	"context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainLoan "shiksha-loan-backend/internal/domain/loan"
	"shiksha-loan-backend/internal/domain/uow"
	"shiksha-loan-backend/internal/testutil/loanmock"
	"shiksha-loan-backend/internal/testutil/notifymock"
	"shiksha-loan-backend/internal/testutil/uowmock"
	sweepuc "shiksha-loan-backend/internal/usecase/sweep"
	"shiksha-loan-backend/pkg/token"
)

func newSweepHandler(loans *loanmock.Repo, notes *notifymock.Dispatcher) *SweepHandler {
	uc := sweepuc.NewUsecase(uowmock.Passthrough(uow.Repos{Loans: loans}), loans, nil, notes, time.UTC)
	h := NewSweepHandler(uc)
	h.run = func(fn func()) { fn() }
	return h
}

func TestRunSweeps_Accepted(t *testing.T) {
	var overdue, reminder int
	loans := &loanmock.Repo{
		ListOverdueCandidatesFn: func(context.Context, time.Time) ([]string, error) { overdue++; return nil, nil },
		ListDueOnFn: func(_ context.Context, s domainLoan.Status, _ time.Time) ([]domainLoan.Loan, error) {
			if s != domainLoan.StatusApproved {
				t.Fatalf("reminders only for approved loans, got %s", s)
			}
			reminder++
			return nil, nil
		},
	}
	h := newSweepHandler(loans, &notifymock.Dispatcher{})

	c, rec := newContext(newEchoWithValidator(), stdhttp.MethodPost, "/admin/sweeps/overdue", nil, "admin", token.RoleAdmin)
	if err := h.RunOverdue(c); err != nil {
		t.Fatalf("RunOverdue error: %v", err)
	}
	if rec.Code != stdhttp.StatusAccepted || overdue != 1 {
		t.Fatalf("status=%d overdue runs=%d", rec.Code, overdue)
	}

	c, rec = newContext(newEchoWithValidator(), stdhttp.MethodPost, "/admin/sweeps/reminder", nil, "admin", token.RoleAdmin)
	if err := h.RunReminder(c); err != nil {
		t.Fatalf("RunReminder error: %v", err)
	}
	if rec.Code != stdhttp.StatusAccepted || reminder != 1 {
		t.Fatalf("status=%d reminder runs=%d", rec.Code, reminder)
	}
}

func TestRunOverdue_OutlivesRequest(t *testing.T) {
	var sawCancel bool
	loans := &loanmock.Repo{
		ListOverdueCandidatesFn: func(ctx context.Context, _ time.Time) ([]string, error) {
			sawCancel = ctx.Err() != nil
			return nil, nil
		},
	}
	h := newSweepHandler(loans, &notifymock.Dispatcher{})
	var deferred func()
	h.run = func(fn func()) { deferred = fn }

	c, rec := newContext(newEchoWithValidator(), stdhttp.MethodPost, "/admin/sweeps/overdue", nil, "admin", token.RoleAdmin)
	ctx, cancel := context.WithCancel(c.Request().Context())
	c.SetRequest(c.Request().WithContext(ctx))
	if err := h.RunOverdue(c); err != nil {
		t.Fatalf("RunOverdue error: %v", err)
	}
	cancel()
	deferred()
	if rec.Code != stdhttp.StatusAccepted || sawCancel {
		t.Fatalf("sweep must not inherit request cancellation (status=%d)", rec.Code)
	}
}

func TestSendReminder(t *testing.T) {
	loan := &domainLoan.Loan{
		LoanID:   loanID,
		Email:    "asha@example.com",
		FullName: "Asha Rao",
		Status:   domainLoan.StatusApproved,
		Installments: []domainLoan.Installment{
			{InstallmentID: "i1", Seq: 1, Status: domainLoan.InstallmentPaid, Amount: decimal.NewFromInt(100)},
			{InstallmentID: "i2", Seq: 2, Status: domainLoan.InstallmentPending, Amount: decimal.NewFromInt(100)},
		},
	}
	loans := &loanmock.Repo{
		GetByLoanIDFn: func(_ context.Context, id string) (*domainLoan.Loan, error) {
			if id != loanID {
				return nil, domainLoan.ErrLoanNotFound
			}
			return loan, nil
		},
	}

	tests := []struct {
		name, loan, inst string
		notifyErr        error
		want             int
	}{
		{"pending installment", loanID, "i2", nil, stdhttp.StatusAccepted},
		{"paid installment", loanID, "i1", nil, stdhttp.StatusConflict},
		{"unknown installment", loanID, "i9", nil, stdhttp.StatusNotFound},
		{"unknown loan", "nope", "i2", nil, stdhttp.StatusNotFound},
		{"queue down", loanID, "i2", errors.New("redis: connection refused"), stdhttp.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			notes := &notifymock.Dispatcher{Err: tc.notifyErr}
			h := newSweepHandler(loans, notes)

			c, rec := newContext(newEchoWithValidator(), stdhttp.MethodPost, "/admin/applications/x/installments/y/reminder", nil, "admin", token.RoleAdmin)
			c.SetParamNames("loan_id", "installment_id")
			c.SetParamValues(tc.loan, tc.inst)
			if err := h.SendReminder(c); err != nil {
				t.Fatalf("SendReminder error: %v", err)
			}
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d; body=%s", rec.Code, tc.want, rec.Body.String())
			}
			if tc.want == stdhttp.StatusAccepted {
				sent := notes.Sent()
				if len(sent) != 1 || sent[0].Recipient != "asha@example.com" {
					t.Fatalf("unexpected notifications: %+v", sent)
				}
			}
			if tc.want == stdhttp.StatusInternalServerError {
				var er ErrorResponse
				_ = json.Unmarshal(rec.Body.Bytes(), &er)
				if er.Error != "internal error" {
					t.Fatalf("internal detail leaked: %q", er.Error)
				}
			}
		})
	}
}
