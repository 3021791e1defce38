package mysql

import (
	"context"

	approvalDomain "shiksha-loan-backend/internal/domain/approval"

	"gorm.io/gorm"
)

type ApprovalRepository struct{ db *gorm.DB }

func NewApprovalRepository(db *gorm.DB) *ApprovalRepository { return &ApprovalRepository{db: db} }

var _ approvalDomain.Repository = (*ApprovalRepository)(nil)

func (r *ApprovalRepository) Create(ctx context.Context, d *approvalDomain.Decision) error {
	err := r.db.WithContext(ctx).Create(d).Error
	if isDuplicate(err) {
		return approvalDomain.ErrAlreadyDecided
	}
	return err
}

func (r *ApprovalRepository) GetByLoanID(ctx context.Context, loanNumericID uint64) (*approvalDomain.Decision, error) {
	var out approvalDomain.Decision
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanNumericID).
		First(&out).Error
	if err != nil {
		return nil, notFound(err, approvalDomain.ErrNotFound)
	}
	return &out, nil
}
