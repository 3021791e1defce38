package mysql

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	loanDomain "shiksha-loan-backend/internal/domain/loan"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

var _ loanDomain.Repository = (*LoanRepository)(nil)

func bySeq(db *gorm.DB) *gorm.DB { return db.Order("seq ASC") }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(l).Error
	if isDuplicate(err) {
		return loanDomain.ErrLoanExists
	}
	return err
}

// Save writes loan columns only; the schedule has its own writes.
func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Save(l).Error
	if isDuplicate(err) {
		// only fee_payment_id can collide on an update
		return loanDomain.ErrAlreadyPaid
	}
	return err
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	err := r.db.WithContext(ctx).
		Preload("Installments", bySeq).
		Where("loan_id = ?", loanID).
		First(&out).Error
	if err != nil {
		return nil, notFound(err, loanDomain.ErrLoanNotFound)
	}
	return &out, nil
}

// GetByLoanIDForUpdate takes SELECT ... FOR UPDATE on the loan row. Drivers
// without row locks (sqlite) drop the clause and rely on the database lock.
func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("loan_id = ?", loanID).
		First(&out).Error
	if err != nil {
		return nil, notFound(err, loanDomain.ErrLoanNotFound)
	}
	if err := r.db.WithContext(ctx).Scopes(bySeq).
		Where("loan_id = ?", out.ID).
		Find(&out.Installments).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *LoanRepository) GetByApplicantID(ctx context.Context, applicantID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	err := r.db.WithContext(ctx).
		Preload("Installments", bySeq).
		Where("applicant_id = ?", applicantID).
		First(&out).Error
	if err != nil {
		return nil, notFound(err, loanDomain.ErrLoanNotFound)
	}
	return &out, nil
}

// List returns every loan, newest first, schedules included.
func (r *LoanRepository) List(ctx context.Context) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	err := r.db.WithContext(ctx).
		Preload("Installments", bySeq).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

// ReplaceSchedule drops the loan's installments and inserts l.Installments.
func (r *LoanRepository) ReplaceSchedule(ctx context.Context, l *loanDomain.Loan) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("loan_id = ?", l.ID).Delete(&loanDomain.Installment{}).Error; err != nil {
		return err
	}
	if len(l.Installments) == 0 {
		return nil
	}
	for i := range l.Installments {
		l.Installments[i].LoanID = l.ID
		l.Installments[i].ID = 0
	}
	return db.Create(&l.Installments).Error
}

// MarkInstallmentsOverdue flips the given installments to overdue, skipping any
// row no longer pending.
func (r *LoanRepository) MarkInstallmentsOverdue(ctx context.Context, ids []uint64, lateFee decimal.Decimal) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Installment{}).
		Where("id IN ? AND status = ?", ids, loanDomain.InstallmentPending).
		Updates(map[string]any{
			"status":     loanDomain.InstallmentOverdue,
			"late_fee":   lateFee,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

// MarkInstallmentPaid persists in's paid state if the row is still payable.
func (r *LoanRepository) MarkInstallmentPaid(ctx context.Context, in *loanDomain.Installment) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Installment{}).
		Where("id = ? AND status IN ?", in.ID, []loanDomain.InstallmentStatus{
			loanDomain.InstallmentPending, loanDomain.InstallmentOverdue,
		}).
		Updates(map[string]any{
			"status":     loanDomain.InstallmentPaid,
			"order_id":   in.OrderID,
			"payment_id": in.PaymentID,
			"paid_at":    in.PaidAt,
			"updated_at": time.Now().UTC(),
		})
	if isDuplicate(res.Error) {
		return 0, loanDomain.ErrAlreadyPaid
	}
	return res.RowsAffected, res.Error
}

// ListOverdueCandidates returns the public ids of approved loans holding at
// least one pending installment due before today.
func (r *LoanRepository) ListOverdueCandidates(ctx context.Context, today time.Time) ([]string, error) {
	due := r.db.Model(&loanDomain.Installment{}).
		Select("loan_id").
		Where("status = ? AND due_date < ?", loanDomain.InstallmentPending, loanDomain.DateOnly(today))

	var ids []string
	err := r.db.WithContext(ctx).
		Model(&loanDomain.Loan{}).
		Where("status = ? AND id IN (?)", loanDomain.StatusApproved, due).
		Order("id ASC").
		Pluck("loan_id", &ids).Error
	return ids, err
}

// ListDueOn returns loans in status with a pending installment due on day.
// Only those installments are loaded.
func (r *LoanRepository) ListDueOn(ctx context.Context, status loanDomain.Status, day time.Time) ([]loanDomain.Loan, error) {
	from := loanDomain.DateOnly(day)
	to := from.AddDate(0, 0, 1)
	cond := "status = ? AND due_date >= ? AND due_date < ?"

	due := r.db.Model(&loanDomain.Installment{}).
		Select("loan_id").
		Where(cond, loanDomain.InstallmentPending, from, to)

	var out []loanDomain.Loan
	err := r.db.WithContext(ctx).
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Where(cond, loanDomain.InstallmentPending, from, to).Order("seq ASC")
		}).
		Where("status = ? AND id IN (?)", status, due).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *LoanRepository) CountByStatus(ctx context.Context) (map[loanDomain.Status]int64, error) {
	var rows []struct {
		Status loanDomain.Status
		N      int64
	}
	err := r.db.WithContext(ctx).
		Model(&loanDomain.Loan{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[loanDomain.Status]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}

func (r *LoanRepository) SumPrincipal(ctx context.Context, status loanDomain.Status) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&loanDomain.Loan{}).
		Select("SUM(principal)").
		Where("status = ?", status).
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
