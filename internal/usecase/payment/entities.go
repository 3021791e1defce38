package payment

import "errors"

type Purpose string

const (
	PurposeFee Purpose = "fee"
	PurposeEMI Purpose = "emi"
)

var ErrUnknownPurpose = errors.New("unknown payment purpose")

type VerifyInput struct {
	Purpose       Purpose
	OrderID       string
	PaymentID     string
	Signature     string
	LoanID        string
	InstallmentID string // emi only
	// ApplicantID, when set, must own the loan.
	ApplicantID string
}

type ResultDTO struct {
	LoanID        string `json:"loan_id"`
	InstallmentID string `json:"installment_id,omitempty"`
	Status        string `json:"status"`
	PaymentID     string `json:"payment_id"`
}
