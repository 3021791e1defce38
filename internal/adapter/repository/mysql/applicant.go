package mysql

import (
	"context"

	applicantDomain "shiksha-loan-backend/internal/domain/applicant"

	"gorm.io/gorm"
)

type ApplicantRepository struct{ db *gorm.DB }

func NewApplicantRepository(db *gorm.DB) *ApplicantRepository { return &ApplicantRepository{db: db} }

var _ applicantDomain.Repository = (*ApplicantRepository)(nil)

func (r *ApplicantRepository) Create(ctx context.Context, a *applicantDomain.Applicant) error {
	a.Email = applicantDomain.NormalizeEmail(a.Email)
	err := r.db.WithContext(ctx).Create(a).Error
	if isDuplicate(err) {
		return applicantDomain.ErrEmailTaken
	}
	return err
}

func (r *ApplicantRepository) Save(ctx context.Context, a *applicantDomain.Applicant) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *ApplicantRepository) GetByApplicantID(ctx context.Context, applicantID string) (*applicantDomain.Applicant, error) {
	var out applicantDomain.Applicant
	err := r.db.WithContext(ctx).Where("applicant_id = ?", applicantID).First(&out).Error
	if err != nil {
		return nil, notFound(err, applicantDomain.ErrApplicantNotFound)
	}
	return &out, nil
}

func (r *ApplicantRepository) GetByEmail(ctx context.Context, email string) (*applicantDomain.Applicant, error) {
	var out applicantDomain.Applicant
	err := r.db.WithContext(ctx).
		Where("email = ?", applicantDomain.NormalizeEmail(email)).
		First(&out).Error
	if err != nil {
		return nil, notFound(err, applicantDomain.ErrApplicantNotFound)
	}
	return &out, nil
}
