package applicant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiksha-loan-backend/internal/domain/applicant"
	"shiksha-loan-backend/internal/testutil/applicantmock"
	"shiksha-loan-backend/pkg/password"
	"shiksha-loan-backend/pkg/token"
)

func init() { password.Cost = 4 }

type fakeDocs struct {
	prefix, contentType string
	err                 error
}

func (f *fakeDocs) PresignUpload(_ context.Context, prefix, contentType string) (string, string, time.Time, error) {
	f.prefix, f.contentType = prefix, contentType
	if f.err != nil {
		return "", "", time.Time{}, f.err
	}
	return "https://s3.local/put?sig=x", "https://s3.local/" + prefix + "/01J", time.Date(2025, 1, 1, 0, 15, 0, 0, time.UTC), nil
}

// store is an in-memory applicant table behind the function mock.
func store() (*applicantmock.Repo, map[string]*applicant.Applicant) {
	rows := map[string]*applicant.Applicant{}
	return &applicantmock.Repo{
		CreateFn: func(_ context.Context, a *applicant.Applicant) error {
			for _, r := range rows {
				if r.Email == a.Email {
					return applicant.ErrEmailTaken
				}
			}
			cp := *a
			rows[a.ApplicantID] = &cp
			return nil
		},
		GetByApplicantIDFn: func(_ context.Context, id string) (*applicant.Applicant, error) {
			if a, ok := rows[id]; ok {
				cp := *a
				return &cp, nil
			}
			return nil, applicant.ErrApplicantNotFound
		},
		GetByEmailFn: func(_ context.Context, email string) (*applicant.Applicant, error) {
			for _, a := range rows {
				if a.Email == email {
					cp := *a
					return &cp, nil
				}
			}
			return nil, applicant.ErrApplicantNotFound
		},
		SaveFn: func(_ context.Context, a *applicant.Applicant) error {
			cp := *a
			rows[a.ApplicantID] = &cp
			return nil
		},
	}, rows
}

func newUsecase(t *testing.T) (*Usecase, map[string]*applicant.Applicant, *token.Service, *fakeDocs) {
	t.Helper()
	repo, rows := store()
	tokens := token.NewService("jwt-secret", time.Hour)
	hash, err := password.Hash("admin-pass")
	require.NoError(t, err)
	docs := &fakeDocs{}
	return NewUsecase(repo, tokens, docs, AdminCredentials{Username: "admin", PasswordHash: hash}), rows, tokens, docs
}

func TestRegisterAndLogin(t *testing.T) {
	uc, rows, tokens, _ := newUsecase(t)
	ctx := context.Background()

	reg, err := uc.Register(ctx, RegisterInput{Name: " Asha ", Email: "Asha@Example.com ", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", reg.Applicant.Email)
	assert.Equal(t, "Asha", reg.Applicant.Name)
	assert.Equal(t, "pending", reg.Applicant.KYCStatus)

	stored := rows[reg.Applicant.ApplicantID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)

	claims, err := tokens.Validate(reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.Applicant.ApplicantID, claims.Subject)
	assert.Equal(t, token.RoleApplicant, claims.Role)

	_, err = uc.Register(ctx, RegisterInput{Name: "Dup", Email: "asha@example.com", Password: "whatever1"})
	assert.ErrorIs(t, err, applicant.ErrEmailTaken)

	in, err := uc.Login(ctx, "ASHA@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, reg.Applicant.ApplicantID, in.Applicant.ApplicantID)

	_, err = uc.Login(ctx, "asha@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = uc.Login(ctx, "nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminLogin(t *testing.T) {
	uc, _, tokens, _ := newUsecase(t)
	ctx := context.Background()

	out, err := uc.AdminLogin(ctx, "admin", "admin-pass")
	require.NoError(t, err)
	claims, err := tokens.Validate(out.Token)
	require.NoError(t, err)
	assert.Equal(t, token.RoleAdmin, claims.Role)
	assert.Equal(t, "admin", claims.Subject)

	_, err = uc.AdminLogin(ctx, "admin", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = uc.AdminLogin(ctx, "root", "admin-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	unset := NewUsecase(&applicantmock.Repo{}, tokens, nil, AdminCredentials{})
	_, err = unset.AdminLogin(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPresignDocument(t *testing.T) {
	uc, _, _, docs := newUsecase(t)
	ctx := context.Background()
	reg, err := uc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)
	aid := reg.Applicant.ApplicantID

	out, err := uc.PresignDocument(ctx, aid, DocPANCard, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "kyc/"+aid+"/pan_card", docs.prefix)
	assert.Equal(t, "image/png", docs.contentType)
	assert.Contains(t, out.ObjectURL, "kyc/"+aid)

	_, err = uc.PresignDocument(ctx, aid, "selfie", "image/png")
	assert.ErrorIs(t, err, ErrInvalidDocument)
	_, err = uc.PresignDocument(ctx, aid, DocAadhaarFront, "text/html")
	assert.ErrorIs(t, err, ErrInvalidDocument)
	_, err = uc.PresignDocument(ctx, "ghost", DocAadhaarFront, "image/png")
	assert.ErrorIs(t, err, applicant.ErrApplicantNotFound)

	docs.err = errors.New("s3 down")
	_, err = uc.PresignDocument(ctx, aid, DocAadhaarFront, "image/png")
	assert.ErrorIs(t, err, docs.err)
}

func TestSubmitKYCAndSetStatus(t *testing.T) {
	uc, rows, _, _ := newUsecase(t)
	ctx := context.Background()
	reg, err := uc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)
	aid := reg.Applicant.ApplicantID

	_, err = uc.SubmitKYC(ctx, aid, applicant.Documents{AadhaarFront: "https://x/front"})
	assert.ErrorIs(t, err, ErrInvalidDocument)

	out, err := uc.SubmitKYC(ctx, aid, applicant.Documents{PANNumber: "abcde1234f", AadhaarFront: "https://x/front", PANCard: "https://x/pan"})
	require.NoError(t, err)
	assert.Equal(t, "verified", out.KYCStatus)
	require.NotNil(t, out.PANNumber)
	assert.Equal(t, "ABCDE1234F", *out.PANNumber)
	assert.Nil(t, out.AadhaarBack)
	assert.True(t, rows[aid].KYCReviewedAt.Valid)

	out, err = uc.SetKYCStatus(ctx, aid, applicant.KYCRejected)
	require.NoError(t, err)
	assert.Equal(t, "rejected", out.KYCStatus)

	_, err = uc.SetKYCStatus(ctx, aid, "maybe")
	assert.ErrorIs(t, err, applicant.ErrInvalidKYCStatus)
	_, err = uc.SetKYCStatus(ctx, "ghost", applicant.KYCVerified)
	assert.ErrorIs(t, err, applicant.ErrApplicantNotFound)
}
