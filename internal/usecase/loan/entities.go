package loan

import (
	"time"

	"github.com/shopspring/decimal"

	"shiksha-loan-backend/internal/domain/loan"
)

const dateLayout = "2006-01-02"

type ApplyInput struct {
	ApplicantID string
	FullName    string
	Email       string
	Phone       string
	CourseName  string
	CollegeName string
	LoanType    string
	Principal   decimal.Decimal
	Bank        loan.BankDetails
	DocumentURL string
}

type InstallmentDTO struct {
	InstallmentID string     `json:"installment_id"`
	Seq           int        `json:"seq"`
	Amount        string     `json:"amount"`
	DueDate       string     `json:"due_date"`
	Status        string     `json:"status"`
	LateFee       *string    `json:"late_fee,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
}

type LoanDTO struct {
	LoanID          string           `json:"loan_id"`
	ApplicantID     string           `json:"applicant_id"`
	FullName        string           `json:"full_name"`
	Email           string           `json:"email"`
	Phone           string           `json:"phone"`
	CourseName      string           `json:"course_name"`
	CollegeName     string           `json:"college_name"`
	LoanType        string           `json:"loan_type"`
	Principal       string           `json:"principal"`
	InterestRate    *string          `json:"interest_rate,omitempty"`
	TenureMonths    int              `json:"tenure_months,omitempty"`
	Status          string           `json:"status"`
	FeeStatus       string           `json:"fee_status"`
	DocumentURL     *string          `json:"document_url,omitempty"`
	Bank            loan.BankDetails `json:"bank_details"`
	Schedule        []InstallmentDTO `json:"repayment_schedule"`
	StatusUpdatedAt time.Time        `json:"status_updated_at"`
	CreatedAt       time.Time        `json:"created_at"`
}

type MyApplicationDTO struct {
	Loan      *LoanDTO        `json:"application"`
	KYCStatus string          `json:"kyc_status"`
	NextDue   *InstallmentDTO `json:"next_due,omitempty"`
}

type StatsDTO struct {
	Total             int64            `json:"total"`
	ByStatus          map[string]int64 `json:"by_status"`
	ApprovedPrincipal string           `json:"approved_principal"`
}

func ToInstallmentDTO(in loan.Installment) InstallmentDTO {
	dto := InstallmentDTO{
		InstallmentID: in.InstallmentID,
		Seq:           in.Seq,
		Amount:        in.Amount.StringFixed(2),
		DueDate:       in.DueDate.Format(dateLayout),
		Status:        string(in.Status),
	}
	if in.LateFee.Valid {
		s := in.LateFee.Decimal.StringFixed(2)
		dto.LateFee = &s
	}
	if in.PaidAt.Valid {
		t := in.PaidAt.Time
		dto.PaidAt = &t
	}
	return dto
}

func ToLoanDTO(l *loan.Loan) *LoanDTO {
	dto := &LoanDTO{
		LoanID:          l.LoanID,
		ApplicantID:     l.ApplicantID,
		FullName:        l.FullName,
		Email:           l.Email,
		Phone:           l.Phone,
		CourseName:      l.CourseName,
		CollegeName:     l.CollegeName,
		LoanType:        l.LoanType,
		Principal:       l.Principal.StringFixed(2),
		TenureMonths:    l.TenureMonths,
		Status:          string(l.Status),
		FeeStatus:       string(l.FeeStatus),
		Bank:            l.Bank,
		Schedule:        make([]InstallmentDTO, 0, len(l.Installments)),
		StatusUpdatedAt: l.StatusUpdatedAt,
		CreatedAt:       l.CreatedAt,
	}
	if l.InterestRate.Valid {
		s := l.InterestRate.Decimal.String()
		dto.InterestRate = &s
	}
	if l.DocumentURL.Valid {
		s := l.DocumentURL.String
		dto.DocumentURL = &s
	}
	for _, in := range l.Installments {
		dto.Schedule = append(dto.Schedule, ToInstallmentDTO(in))
	}
	return dto
}
