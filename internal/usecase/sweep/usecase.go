// Package sweep holds the periodic EMI jobs: marking missed installments
// overdue and reminding applicants ahead of a due date. Both entry points are
// idempotent, so a cron tick racing a manual trigger only duplicates work.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"shiksha-loan-backend/internal/domain/applicant"
	"shiksha-loan-backend/internal/domain/loan"
	"shiksha-loan-backend/internal/domain/notification"
	"shiksha-loan-backend/internal/domain/uow"
	"shiksha-loan-backend/internal/infrastructure/logger"
	"shiksha-loan-backend/internal/infrastructure/metrics"
	loanuc "shiksha-loan-backend/internal/usecase/loan"
)

// ReminderLead is how far ahead of the due date a reminder goes out.
const ReminderLead = 3

const (
	KindOverdue  = "overdue"
	KindReminder = "reminder"
)

// Report summarises one sweep run.
type Report struct {
	LoansScanned       int `json:"loans_scanned"`
	InstallmentsMarked int `json:"installments_marked"`
	RemindersSent      int `json:"reminders_sent"`
	Failures           int `json:"failures"`
	NotifyFailures     int `json:"notify_failures"`
}

type Usecase struct {
	uow        uow.UnitOfWork
	loans      loan.Repository
	applicants applicant.Repository
	notifier   notification.Dispatcher
	loc        *time.Location
	now        func() time.Time
}

// NewUsecase builds the sweeps. loans and applicants serve the read-only
// queries; every write goes through tx. A nil loc means UTC.
func NewUsecase(tx uow.UnitOfWork, loans loan.Repository, applicants applicant.Repository, notifier notification.Dispatcher, loc *time.Location) *Usecase {
	if loc == nil {
		loc = time.UTC
	}
	return &Usecase{uow: tx, loans: loans, applicants: applicants, notifier: notifier, loc: loc, now: time.Now}
}

func (u *Usecase) today() time.Time { return loan.DateOnly(u.now().In(u.loc)) }

// RunOverdueSweep marks every pending installment due before today overdue
// with the late fee attached. Failures are per loan and never abort the run.
func (u *Usecase) RunOverdueSweep(ctx context.Context) Report {
	var rep Report
	today := u.today()
	defer func() {
		metrics.SweepRuns.WithLabelValues(KindOverdue).Inc()
		logger.Info(ctx, "overdue sweep finished",
			zap.Time("today", today),
			zap.Int("loans", rep.LoansScanned),
			zap.Int("marked", rep.InstallmentsMarked),
			zap.Int("failures", rep.Failures))
	}()

	ids, err := u.loans.ListOverdueCandidates(ctx, today)
	if err != nil {
		rep.Failures++
		metrics.SweepFailures.WithLabelValues(KindOverdue).Inc()
		logger.Error(ctx, "overdue sweep: list candidates", zap.Error(err))
		return rep
	}

	for _, loanID := range ids {
		rep.LoansScanned++

		notes, err := u.markLoanOverdue(ctx, loanID, today)
		if err != nil {
			rep.Failures++
			metrics.SweepFailures.WithLabelValues(KindOverdue).Inc()
			logger.Error(ctx, "overdue sweep: loan failed", zap.String("loan_id", loanID), zap.Error(err))
			continue
		}
		rep.InstallmentsMarked += len(notes)
		metrics.InstallmentsOverdue.Add(float64(len(notes)))

		for _, n := range notes {
			if !u.dispatch(ctx, n, loanID) {
				rep.NotifyFailures++
			}
		}
	}
	return rep
}

// markLoanOverdue transitions one loan's eligible installments in a single
// locked transaction and returns the notifications to send after commit.
func (u *Usecase) markLoanOverdue(ctx context.Context, loanID string, today time.Time) ([]notification.Notification, error) {
	var notes []notification.Notification
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if l.Status != loan.StatusApproved {
			return nil
		}
		var ids []uint64
		var moved []*loan.Installment
		for i := range l.Installments {
			in := &l.Installments[i]
			if in.MarkOverdue(today) {
				ids = append(ids, in.ID)
				moved = append(moved, in)
			}
		}
		if len(ids) == 0 {
			return nil
		}

		n, err := r.Loans.MarkInstallmentsOverdue(ctx, ids, loan.LateFee)
		if err != nil {
			return err
		}
		if n != int64(len(ids)) {
			return fmt.Errorf("marked %d of %d installments: %w", n, len(ids), loan.ErrConcurrentModification)
		}

		to, name := loanuc.Recipient(ctx, r.Applicants, l)
		for _, in := range moved {
			notes = append(notes, notification.Overdue(to, name, l.LoanID, in.Amount, in.LateFee.Decimal, in.DueDate))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// RunReminderSweep sends one reminder per approved loan whose next pending
// installment falls due exactly ReminderLead days from today. Nothing is
// written.
func (u *Usecase) RunReminderSweep(ctx context.Context) Report {
	var rep Report
	target := u.today().AddDate(0, 0, ReminderLead)
	defer func() {
		metrics.SweepRuns.WithLabelValues(KindReminder).Inc()
		logger.Info(ctx, "reminder sweep finished",
			zap.Time("target", target),
			zap.Int("loans", rep.LoansScanned),
			zap.Int("sent", rep.RemindersSent),
			zap.Int("failures", rep.Failures+rep.NotifyFailures))
	}()

	loans, err := u.loans.ListDueOn(ctx, loan.StatusApproved, target)
	if err != nil {
		rep.Failures++
		metrics.SweepFailures.WithLabelValues(KindReminder).Inc()
		logger.Error(ctx, "reminder sweep: list due", zap.Error(err))
		return rep
	}

	for i := range loans {
		l := &loans[i]
		rep.LoansScanned++
		in := firstDueOn(l, target)
		if in == nil {
			continue
		}
		to, name := loanuc.Recipient(ctx, u.applicants, l)
		if u.dispatch(ctx, notification.Reminder(to, name, l.LoanID, in.Amount, in.DueDate), l.LoanID) {
			rep.RemindersSent++
		} else {
			rep.NotifyFailures++
		}
	}
	return rep
}

// ErrNotRemindable is returned for a manual reminder on an installment that is
// already settled.
var ErrNotRemindable = errors.New("installment is not pending")

// SendReminder queues a reminder for one installment regardless of its due
// date.
func (u *Usecase) SendReminder(ctx context.Context, loanID, installmentID string) error {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		return err
	}
	in, err := l.FindInstallment(installmentID)
	if err != nil {
		return err
	}
	if in.Status == loan.InstallmentPaid {
		return ErrNotRemindable
	}
	to, name := loanuc.Recipient(ctx, u.applicants, l)
	n := notification.Reminder(to, name, l.LoanID, in.Amount, in.DueDate)
	if err := u.notifier.Dispatch(ctx, n); err != nil {
		metrics.Notifications.WithLabelValues(string(n.Kind), "failed").Inc()
		return err
	}
	logger.Info(ctx, "manual reminder queued", zap.String("loan_id", loanID), zap.String("installment_id", installmentID))
	return nil
}

func (u *Usecase) dispatch(ctx context.Context, n notification.Notification, loanID string) bool {
	if err := u.notifier.Dispatch(ctx, n); err != nil {
		metrics.Notifications.WithLabelValues(string(n.Kind), "failed").Inc()
		logger.Error(ctx, "sweep notification", zap.String("loan_id", loanID), zap.String("kind", string(n.Kind)), zap.Error(err))
		return false
	}
	return true
}

func firstDueOn(l *loan.Loan, day time.Time) *loan.Installment {
	var first *loan.Installment
	for i := range l.Installments {
		in := &l.Installments[i]
		if in.IsDueOn(day) && (first == nil || in.Seq < first.Seq) {
			first = in
		}
	}
	return first
}
