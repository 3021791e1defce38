package approval

import (
	"time"

	"github.com/shopspring/decimal"

	domainApproval "shiksha-loan-backend/internal/domain/approval"
	loanuc "shiksha-loan-backend/internal/usecase/loan"
)

type DecideInput struct {
	LoanID       string
	Outcome      domainApproval.Outcome
	TenureMonths int
	InterestRate decimal.Decimal // annual percent
	DecidedBy    string
}

type DecisionDTO struct {
	DecisionID string          `json:"decision_id"`
	Outcome    string          `json:"outcome"`
	DecidedAt  time.Time       `json:"decided_at"`
	Loan       *loanuc.LoanDTO `json:"application"`
}
