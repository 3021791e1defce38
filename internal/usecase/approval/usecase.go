package approval

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	domainApproval "shiksha-loan-backend/internal/domain/approval"
	domainLoan "shiksha-loan-backend/internal/domain/loan"
	"shiksha-loan-backend/internal/domain/event"
	"shiksha-loan-backend/internal/domain/notification"
	"shiksha-loan-backend/internal/domain/uow"
	"shiksha-loan-backend/internal/infrastructure/logger"
	"shiksha-loan-backend/internal/infrastructure/metrics"
	loanuc "shiksha-loan-backend/internal/usecase/loan"
	"shiksha-loan-backend/pkg/id"
)

type Usecase struct {
	uow      uow.UnitOfWork
	notifier notification.Dispatcher
	events   event.Broadcaster
	loc      *time.Location
	now      func() time.Time
}

// NewUsecase builds the decision usecase. loc is the zone the sweeps run in;
// schedules start from the current month in that zone. nil means UTC.
func NewUsecase(tx uow.UnitOfWork, notifier notification.Dispatcher, events event.Broadcaster, loc *time.Location) *Usecase {
	if events == nil {
		events = event.Nop{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Usecase{uow: tx, notifier: notifier, events: events, loc: loc, now: time.Now}
}

// Decide applies an admin decision to a loan under review. Approval generates
// the repayment schedule; invalid terms fail before anything is written.
func (u *Usecase) Decide(ctx context.Context, in DecideInput) (*DecisionDTO, error) {
	if !in.Outcome.Valid() {
		return nil, domainApproval.ErrInvalidOutcome
	}

	now := u.now().UTC()
	var (
		dto  *DecisionDTO
		note notification.Notification
	)
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		d := &domainApproval.Decision{
			DecisionID: id.NewID32(),
			LoanID:     l.ID,
			Outcome:    in.Outcome,
			DecidedBy:  in.DecidedBy,
			DecidedAt:  now,
		}

		switch in.Outcome {
		case domainApproval.OutcomeApproved:
			if err := l.Approve(in.TenureMonths, in.InterestRate, now.In(u.loc)); err != nil {
				return err
			}
			d.TenureMonths = l.TenureMonths
			d.InterestRate = l.InterestRate
		case domainApproval.OutcomeRejected:
			if err := l.Reject(now); err != nil {
				return err
			}
		}

		if err := r.Approvals.Create(ctx, d); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		if in.Outcome == domainApproval.OutcomeApproved {
			if err := r.Loans.ReplaceSchedule(ctx, l); err != nil {
				return err
			}
		}

		to, name := loanuc.Recipient(ctx, r.Applicants, l)
		if in.Outcome == domainApproval.OutcomeApproved {
			note = notification.Approved(to, name, l.LoanID, l.Principal)
		} else {
			note = notification.Rejected(to, name, l.LoanID)
		}

		dto = &DecisionDTO{
			DecisionID: d.DecisionID,
			Outcome:    string(d.Outcome),
			DecidedAt:  d.DecidedAt,
			Loan:       loanuc.ToLoanDTO(l),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// committed; everything below is best effort
	u.events.Broadcast(event.StatusUpdated, event.StatusChange{ID: dto.Loan.LoanID, Status: dto.Loan.Status})
	if u.notifier != nil {
		if err := u.notifier.Dispatch(ctx, note); err != nil {
			metrics.Notifications.WithLabelValues(string(note.Kind), "failed").Inc()
			logger.Error(ctx, "decision notification", zap.String("loan_id", in.LoanID), zap.Error(err))
		}
	}
	logger.Info(ctx, "loan decided", zap.String("loan_id", in.LoanID), zap.String("outcome", dto.Outcome), zap.String("by", in.DecidedBy))
	return dto, nil
}

// IsDecisionConflict reports errors meaning the loan is not in a decidable state.
func IsDecisionConflict(err error) bool {
	return errors.Is(err, domainLoan.ErrInvalidTransition) || errors.Is(err, domainApproval.ErrAlreadyDecided)
}
