package payment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"shiksha-loan-backend/internal/domain/event"
	"shiksha-loan-backend/internal/domain/loan"
	"shiksha-loan-backend/internal/domain/uow"
	"shiksha-loan-backend/internal/infrastructure/logger"
	"shiksha-loan-backend/internal/infrastructure/metrics"
	"shiksha-loan-backend/pkg/signature"
)

// SignatureVerifier checks a gateway callback signature.
type SignatureVerifier interface {
	Verify(orderID, paymentID, sig string) error
}

type Usecase struct {
	uow      uow.UnitOfWork
	verifier SignatureVerifier
	events   event.Broadcaster
	now      func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, verifier SignatureVerifier, events event.Broadcaster) *Usecase {
	if events == nil {
		events = event.Nop{}
	}
	return &Usecase{uow: tx, verifier: verifier, events: events, now: time.Now}
}

// Verify authenticates a gateway callback and settles the registration fee or
// one installment. Nothing is read before the signature checks out.
func (u *Usecase) Verify(ctx context.Context, in VerifyInput) (*ResultDTO, error) {
	if in.Purpose != PurposeFee && in.Purpose != PurposeEMI {
		return nil, ErrUnknownPurpose
	}
	if err := u.verifier.Verify(in.OrderID, in.PaymentID, in.Signature); err != nil {
		u.observe(in, err)
		logger.Warn(ctx, "payment signature rejected", zap.String("purpose", string(in.Purpose)), zap.String("loan_id", in.LoanID))
		return nil, err
	}

	var (
		out *ResultDTO
		err error
	)
	switch in.Purpose {
	case PurposeFee:
		out, err = u.verifyFee(ctx, in)
	case PurposeEMI:
		out, err = u.verifyEMI(ctx, in)
	}
	u.observe(in, err)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "payment verified",
		zap.String("purpose", string(in.Purpose)),
		zap.String("loan_id", in.LoanID),
		zap.String("installment_id", in.InstallmentID),
		zap.String("payment_id", in.PaymentID))
	return out, nil
}

func (u *Usecase) verifyFee(ctx context.Context, in VerifyInput) (*ResultDTO, error) {
	now := u.now().UTC()
	var status loan.Status
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		if !owns(in, l) {
			return loan.ErrLoanNotFound
		}
		if err := l.MarkFeePaid(in.OrderID, in.PaymentID, now); err != nil {
			return err
		}
		status = l.Status
		return r.Loans.Save(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	u.events.Broadcast(event.StatusUpdated, event.StatusChange{ID: in.LoanID, Status: string(status)})
	return &ResultDTO{LoanID: in.LoanID, Status: string(status), PaymentID: in.PaymentID}, nil
}

func (u *Usecase) verifyEMI(ctx context.Context, in VerifyInput) (*ResultDTO, error) {
	now := u.now().UTC()
	var out *ResultDTO
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		if !owns(in, l) {
			return loan.ErrLoanNotFound
		}
		inst, err := l.FindInstallment(in.InstallmentID)
		if err != nil {
			return err
		}
		if err := inst.MarkPaid(in.OrderID, in.PaymentID, now); err != nil {
			return err
		}
		n, err := r.Loans.MarkInstallmentPaid(ctx, inst)
		if err != nil {
			return err
		}
		if n == 0 {
			return loan.ErrConcurrentModification
		}
		out = &ResultDTO{
			LoanID:        l.LoanID,
			InstallmentID: inst.InstallmentID,
			Status:        string(inst.Status),
			PaymentID:     in.PaymentID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func owns(in VerifyInput, l *loan.Loan) bool {
	return in.ApplicantID == "" || in.ApplicantID == l.ApplicantID
}

func (u *Usecase) observe(in VerifyInput, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, signature.ErrSignatureInvalid):
		outcome = "bad_signature"
	case errors.Is(err, loan.ErrAlreadyPaid):
		outcome = "already_paid"
	default:
		outcome = "error"
	}
	metrics.PaymentVerifications.WithLabelValues(string(in.Purpose), outcome).Inc()
}
