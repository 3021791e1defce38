package loan

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// LateFee is attached to an installment when it turns overdue.
var LateFee = decimal.NewFromInt(500)

func (l *Loan) setStatus(s Status, now time.Time) {
	l.Status = s
	l.StatusUpdatedAt = now.UTC()
}

// HasSchedule reports whether a repayment schedule has been generated.
func (l *Loan) HasSchedule() bool { return len(l.Installments) > 0 }

// MarkFeePaid records a verified registration-fee payment and moves the
// application into admin review.
func (l *Loan) MarkFeePaid(orderID, paymentID string, now time.Time) error {
	if l.FeeStatus == FeePaid {
		return ErrAlreadyPaid
	}
	if l.Status != StatusFeePending {
		return ErrInvalidTransition
	}
	l.FeeStatus = FeePaid
	l.FeeOrderID = null.StringFrom(orderID)
	l.FeePaymentID = null.StringFrom(paymentID)
	l.setStatus(StatusPendingReview, now)
	return nil
}

// Approve validates the decision terms, generates the schedule and replaces
// any existing one. On error the loan is left untouched.
func (l *Loan) Approve(tenure int, annualRate decimal.Decimal, now time.Time) error {
	schedule, err := GenerateSchedule(l.Principal, annualRate, tenure, now)
	if err != nil {
		return err
	}
	if l.Status != StatusPendingReview {
		return ErrInvalidTransition
	}
	for i := range schedule {
		schedule[i].InstallmentID = uuid.NewString()
		schedule[i].LoanID = l.ID
	}
	l.TenureMonths = tenure
	l.InterestRate = decimal.NewNullDecimal(annualRate)
	l.Installments = schedule
	l.setStatus(StatusApproved, now)
	return nil
}

func (l *Loan) Reject(now time.Time) error {
	if l.Status != StatusPendingReview {
		return ErrInvalidTransition
	}
	l.setStatus(StatusRejected, now)
	return nil
}

// FindInstallment looks up an installment by its public id.
func (l *Loan) FindInstallment(installmentID string) (*Installment, error) {
	if installmentID == "" {
		return nil, ErrInstallmentNotFound
	}
	for i := range l.Installments {
		if l.Installments[i].InstallmentID == installmentID {
			return &l.Installments[i], nil
		}
	}
	return nil, ErrInstallmentNotFound
}

// NextDue returns the earliest unpaid installment, or nil.
func (l *Loan) NextDue() *Installment {
	var next *Installment
	for i := range l.Installments {
		in := &l.Installments[i]
		if in.Status == InstallmentPaid {
			continue
		}
		if next == nil || in.DueDate.Before(next.DueDate) {
			next = in
		}
	}
	return next
}

// MarkOverdue moves a pending installment whose due date is strictly before
// today into overdue and attaches the late fee. It reports whether the
// installment changed; any other state is left as is.
func (in *Installment) MarkOverdue(today time.Time) bool {
	if in.Status != InstallmentPending || !DateOnly(in.DueDate).Before(DateOnly(today)) {
		return false
	}
	in.Status = InstallmentOverdue
	in.LateFee = decimal.NewNullDecimal(LateFee)
	return true
}

// MarkPaid settles a pending or overdue installment. Paid is terminal.
func (in *Installment) MarkPaid(orderID, paymentID string, now time.Time) error {
	switch in.Status {
	case InstallmentPaid:
		return ErrAlreadyPaid
	case InstallmentPending, InstallmentOverdue:
	default:
		return ErrInvalidTransition
	}
	in.Status = InstallmentPaid
	in.OrderID = null.StringFrom(orderID)
	in.PaymentID = null.StringFrom(paymentID)
	in.PaidAt = null.TimeFrom(now.UTC())
	return nil
}

// IsDueOn reports whether the installment is pending and due on day's date.
func (in *Installment) IsDueOn(day time.Time) bool {
	return in.Status == InstallmentPending && DateOnly(in.DueDate).Equal(DateOnly(day))
}
