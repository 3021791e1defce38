package applicant

import "context"

type Repository interface {
	// Create fails with ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, a *Applicant) error
	GetByApplicantID(ctx context.Context, applicantID string) (*Applicant, error)
	GetByEmail(ctx context.Context, email string) (*Applicant, error)
	Save(ctx context.Context, a *Applicant) error
}
