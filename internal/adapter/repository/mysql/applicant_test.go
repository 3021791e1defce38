package mysql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applicantDomain "shiksha-loan-backend/internal/domain/applicant"
)

func TestApplicantRepository(t *testing.T) {
	repo := NewApplicantRepository(openTestDB(t))
	ctx := context.Background()

	a := makeApplicant("Asha@Example.com")
	require.NoError(t, repo.Create(ctx, a))
	assert.Equal(t, "asha@example.com", a.Email)

	byEmail, err := repo.GetByEmail(ctx, " ASHA@example.com")
	require.NoError(t, err)
	assert.Equal(t, a.ApplicantID, byEmail.ApplicantID)

	byID, err := repo.GetByApplicantID(ctx, a.ApplicantID)
	require.NoError(t, err)
	byID.KYCStatus = applicantDomain.KYCVerified
	require.NoError(t, repo.Save(ctx, byID))

	again, err := repo.GetByApplicantID(ctx, a.ApplicantID)
	require.NoError(t, err)
	assert.Equal(t, applicantDomain.KYCVerified, again.KYCStatus)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, applicantDomain.ErrApplicantNotFound)
}

func TestApplicantRepository_EmailTaken(t *testing.T) {
	repo := NewApplicantRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, makeApplicant("dup@example.com")))
	err := repo.Create(ctx, makeApplicant("DUP@example.com"))
	assert.ErrorIs(t, err, applicantDomain.ErrEmailTaken)
}
