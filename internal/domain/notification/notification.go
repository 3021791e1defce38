// Package notification holds the outbound messages the loan engine emits.
// Delivery and retry belong to whatever Dispatcher is wired in.
package notification

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindApproved Kind = "loan_approved"
	KindRejected Kind = "loan_rejected"
	KindReminder Kind = "emi_reminder"
	KindOverdue  Kind = "emi_overdue"
)

const dateLayout = "02/01/2006"

type Notification struct {
	ID        string            `json:"id"`
	Kind      Kind              `json:"kind"`
	Recipient string            `json:"recipient"`
	Params    map[string]string `json:"params"`
	Attempt   int               `json:"attempt"`
	CreatedAt time.Time         `json:"created_at"`
}

// Dispatcher accepts a notification for delivery. A nil error means the
// notification was accepted, not that it was delivered.
type Dispatcher interface {
	Dispatch(ctx context.Context, n Notification) error
}

func Approved(to, name, loanID string, principal decimal.Decimal) Notification {
	return Notification{Kind: KindApproved, Recipient: to, Params: map[string]string{
		"name":    name,
		"loan_id": loanID,
		"amount":  principal.StringFixed(2),
	}}
}

func Rejected(to, name, loanID string) Notification {
	return Notification{Kind: KindRejected, Recipient: to, Params: map[string]string{
		"name":    name,
		"loan_id": loanID,
	}}
}

func Reminder(to, name, loanID string, amount decimal.Decimal, due time.Time) Notification {
	return Notification{Kind: KindReminder, Recipient: to, Params: map[string]string{
		"name":     name,
		"loan_id":  loanID,
		"amount":   amount.StringFixed(2),
		"due_date": due.Format(dateLayout),
	}}
}

func Overdue(to, name, loanID string, amount, lateFee decimal.Decimal, due time.Time) Notification {
	return Notification{Kind: KindOverdue, Recipient: to, Params: map[string]string{
		"name":     name,
		"loan_id":  loanID,
		"amount":   amount.StringFixed(2),
		"late_fee": lateFee.StringFixed(2),
		"due_date": due.Format(dateLayout),
	}}
}
