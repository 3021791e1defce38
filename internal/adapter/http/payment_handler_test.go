package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainLoan "shiksha-loan-backend/internal/domain/loan"
	"shiksha-loan-backend/internal/domain/uow"
	"shiksha-loan-backend/internal/testutil/loanmock"
	"shiksha-loan-backend/internal/testutil/uowmock"
	paymentuc "shiksha-loan-backend/internal/usecase/payment"
	"shiksha-loan-backend/pkg/signature"
	"shiksha-loan-backend/pkg/token"
)

const installmentID = "6f1c1c2e-8a51-4c43-9d1c-5f1f7f0e2b11"

type paymentFixture struct {
	h        *PaymentHandler
	signer   *signature.Verifier
	loan     *domainLoan.Loan
	paidRows int64
	saved    int
}

func newPaymentFixture(status domainLoan.Status) *paymentFixture {
	f := &paymentFixture{
		signer:   signature.NewVerifier("gateway-secret"),
		paidRows: 1,
		loan: &domainLoan.Loan{
			ID:          3,
			LoanID:      loanID,
			ApplicantID: applicantID,
			Principal:   decimal.NewFromInt(100000),
			Status:      status,
			FeeStatus:   domainLoan.FeePending,
			Installments: []domainLoan.Installment{{
				ID:            11,
				InstallmentID: installmentID,
				Seq:           1,
				Amount:        decimal.RequireFromString("8884.88"),
				DueDate:       time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC),
				Status:        domainLoan.InstallmentOverdue,
				LateFee:       decimal.NewNullDecimal(domainLoan.LateFee),
			}},
		},
	}
	if status != domainLoan.StatusFeePending {
		f.loan.FeeStatus = domainLoan.FeePaid
	}
	loans := &loanmock.Repo{
		GetByLoanIDForUpdateFn: func(_ context.Context, id string) (*domainLoan.Loan, error) {
			if id != loanID {
				return nil, domainLoan.ErrLoanNotFound
			}
			return f.loan, nil
		},
		SaveFn: func(context.Context, *domainLoan.Loan) error { f.saved++; return nil },
		MarkInstallmentPaidFn: func(context.Context, *domainLoan.Installment) (int64, error) {
			return f.paidRows, nil
		},
	}
	tx := uowmock.Passthrough(uow.Repos{Loans: loans})
	f.h = NewPaymentHandler(paymentuc.NewUsecase(tx, f.signer, nil))
	return f
}

func (f *paymentFixture) body(installment bool) map[string]any {
	b := map[string]any{
		"loan_id":             loanID,
		"razorpay_order_id":   "order_9A",
		"razorpay_payment_id": "pay_9A",
		"razorpay_signature":  f.signer.Sign("order_9A", "pay_9A"),
	}
	if installment {
		b["installment_id"] = installmentID
	}
	return b
}

func TestVerifyFee(t *testing.T) {
	f := newPaymentFixture(domainLoan.StatusFeePending)

	c, rec := newContext(newEchoWithValidator(), stdhttp.MethodPost, "/payments/registration/verify", f.body(false), applicantID, token.RoleApplicant)
	if err := f.h.VerifyFee(c); err != nil {
		t.Fatalf("VerifyFee error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200; body=%s", rec.Code, rec.Body.String())
	}
	var got paymentuc.ResultDTO
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Status != string(domainLoan.StatusPendingReview) || got.PaymentID != "pay_9A" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if f.saved != 1 {
		t.Fatalf("saved = %d, want 1", f.saved)
	}

	// replayed callback
	c, rec = newContext(newEchoWithValidator(), stdhttp.MethodPost, "/payments/registration/verify", f.body(false), applicantID, token.RoleApplicant)
	_ = f.h.VerifyFee(c)
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("replay status = %d, want 409", rec.Code)
	}
}

func TestVerifyEMI(t *testing.T) {
	f := newPaymentFixture(domainLoan.StatusApproved)

	c, rec := newContext(newEchoWithValidator(), stdhttp.MethodPost, "/payments/emi/verify", f.body(true), applicantID, token.RoleApplicant)
	if err := f.h.VerifyEMI(c); err != nil {
		t.Fatalf("VerifyEMI error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200; body=%s", rec.Code, rec.Body.String())
	}
	var got paymentuc.ResultDTO
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if got.InstallmentID != installmentID || got.Status != "paid" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if !f.loan.Installments[0].LateFee.Valid {
		t.Fatal("late fee must survive payment")
	}
}

func TestVerifyEMI_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *paymentFixture, body map[string]any)
		subject string
		want    int
	}{
		{"bad signature", func(f *paymentFixture, b map[string]any) {
			b["razorpay_signature"] = strings.Repeat("0", 64)
		}, applicantID, stdhttp.StatusBadRequest},
		{"signature not hex", func(f *paymentFixture, b map[string]any) {
			b["razorpay_signature"] = "not-a-signature"
		}, applicantID, stdhttp.StatusUnprocessableEntity},
		{"installment id not uuid", func(f *paymentFixture, b map[string]any) {
			b["installment_id"] = "seq-1"
		}, applicantID, stdhttp.StatusUnprocessableEntity},
		{"unknown installment", func(f *paymentFixture, b map[string]any) {
			b["installment_id"] = "00000000-0000-4000-8000-000000000000"
		}, applicantID, stdhttp.StatusNotFound},
		{"someone else's loan", func(*paymentFixture, map[string]any) {}, "ffffffffffffffffffffffffffffffff", stdhttp.StatusNotFound},
		{"already paid", func(f *paymentFixture, _ map[string]any) {
			f.loan.Installments[0].Status = domainLoan.InstallmentPaid
		}, applicantID, stdhttp.StatusConflict},
		{"lost race", func(f *paymentFixture, _ map[string]any) {
			f.paidRows = 0
		}, applicantID, stdhttp.StatusConflict},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newPaymentFixture(domainLoan.StatusApproved)
			body := f.body(true)
			tc.mutate(f, body)

			c, rec := newContext(newEchoWithValidator(), stdhttp.MethodPost, "/payments/emi/verify", body, tc.subject, token.RoleApplicant)
			if err := f.h.VerifyEMI(c); err != nil {
				t.Fatalf("VerifyEMI error: %v", err)
			}
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d; body=%s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}
