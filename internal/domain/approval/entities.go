package approval

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound       = errors.New("decision not found")
	ErrAlreadyDecided = errors.New("loan already decided")
	ErrInvalidOutcome = errors.New("invalid decision outcome")
)

type Outcome string

const (
	OutcomeApproved Outcome = "approved"
	OutcomeRejected Outcome = "rejected"
)

func (o Outcome) Valid() bool { return o == OutcomeApproved || o == OutcomeRejected }

// Table: decisions. One row per loan, written in the same tx as the status change.
type Decision struct {
	// Internal numeric PK
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Public identifier (32-char lowercase hex)
	DecisionID string `gorm:"column:decision_id;size:32;not null;uniqueIndex:ux_decisions_decision_id"`
	// FK to loans.id (numeric)
	LoanID       uint64              `gorm:"column:loan_id;not null;uniqueIndex:ux_decisions_loan"`
	Outcome      Outcome             `gorm:"column:outcome;size:10;not null"`
	TenureMonths int                 `gorm:"column:tenure_months"`
	InterestRate decimal.NullDecimal `gorm:"column:interest_rate;type:decimal(6,3)"`
	DecidedBy    string              `gorm:"column:decided_by;size:64;not null"`
	DecidedAt    time.Time           `gorm:"column:decided_at;not null"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (Decision) TableName() string { return "decisions" }
