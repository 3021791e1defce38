package loan

import "errors"

var (
	ErrLoanNotFound           = errors.New("loan not found")
	ErrInstallmentNotFound    = errors.New("installment not found")
	ErrInvalidScheduleInput   = errors.New("invalid schedule input")
	ErrInvalidTransition      = errors.New("invalid loan status transition")
	ErrAlreadyPaid            = errors.New("already paid")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrLoanExists             = errors.New("applicant already has a loan")
)
