package loan

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

type Status string

const (
	StatusFeePending    Status = "fee_pending"
	StatusPendingReview Status = "pending_review"
	StatusApproved      Status = "approved"
	StatusRejected      Status = "rejected"
)

type FeeStatus string

const (
	FeePending FeeStatus = "pending"
	FeePaid    FeeStatus = "paid"
	FeeFailed  FeeStatus = "failed"
)

type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "pending"
	InstallmentPaid    InstallmentStatus = "paid"
	InstallmentOverdue InstallmentStatus = "overdue"
)

// BankDetails is the disbursement account captured on the application.
type BankDetails struct {
	AccountHolderName string `gorm:"size:128" json:"account_holder_name"`
	AccountNumber     string `gorm:"size:34" json:"account_number"`
	IFSCCode          string `gorm:"size:11" json:"ifsc_code"`
	BankName          string `gorm:"size:128" json:"bank_name"`
}

type Loan struct {
	ID          uint64 `gorm:"primaryKey;column:id" json:"-"`
	LoanID      string `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	ApplicantID string `gorm:"size:32;uniqueIndex:ux_loans_applicant_id" json:"applicant_id"`

	FullName    string `gorm:"size:128" json:"full_name"`
	Email       string `gorm:"size:255" json:"email"`
	Phone       string `gorm:"size:20" json:"phone"`
	CourseName  string `gorm:"size:128" json:"course_name"`
	CollegeName string `gorm:"size:128" json:"college_name"`
	LoanType    string `gorm:"size:32" json:"loan_type"`

	Principal    decimal.Decimal     `gorm:"type:decimal(18,2)" json:"principal"`
	InterestRate decimal.NullDecimal `gorm:"type:decimal(6,3)" json:"interest_rate"`
	TenureMonths int                 `json:"tenure_months"`

	Status       Status      `gorm:"size:20;index:idx_loans_status" json:"status"`
	FeeStatus    FeeStatus   `gorm:"size:10" json:"fee_status"`
	FeeOrderID   null.String `gorm:"size:64" json:"-"`
	FeePaymentID null.String `gorm:"size:64;uniqueIndex:ux_loans_fee_payment_id" json:"-"`
	DocumentURL  null.String `gorm:"type:text" json:"document_url"`
	Bank         BankDetails `gorm:"embedded;embeddedPrefix:bank_" json:"bank_details"`

	StatusUpdatedAt time.Time `json:"status_updated_at"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Installments []Installment `gorm:"foreignKey:LoanID;references:ID" json:"repayment_schedule"`
}

func (Loan) TableName() string { return "loans" }

// Installment is one EMI of a loan's repayment schedule. Amount and DueDate are
// fixed at generation time.
type Installment struct {
	ID            uint64 `gorm:"primaryKey;column:id" json:"-"`
	InstallmentID string `gorm:"size:36;uniqueIndex:ux_installments_installment_id" json:"installment_id"`
	LoanID        uint64 `gorm:"not null;index:idx_installments_loan" json:"-"`
	Seq           int    `json:"seq"`

	Amount  decimal.Decimal     `gorm:"type:decimal(18,2)" json:"amount"`
	DueDate time.Time           `gorm:"type:date;index:idx_installments_due" json:"due_date"`
	Status  InstallmentStatus   `gorm:"size:10;index:idx_installments_status" json:"status"`
	LateFee decimal.NullDecimal `gorm:"type:decimal(18,2)" json:"late_fee"`

	OrderID   null.String `gorm:"size:64" json:"-"`
	PaymentID null.String `gorm:"size:64;uniqueIndex:ux_installments_payment_id" json:"-"`
	PaidAt    null.Time   `json:"paid_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Installment) TableName() string { return "installments" }
