package applicant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"shiksha-loan-backend/internal/domain/applicant"
	"shiksha-loan-backend/internal/infrastructure/logger"
	"shiksha-loan-backend/pkg/id"
	"shiksha-loan-backend/pkg/password"
	"shiksha-loan-backend/pkg/token"
)

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(subject, role string) (string, error)
}

// DocumentStore hands out direct-upload URLs for KYC documents.
type DocumentStore interface {
	PresignUpload(ctx context.Context, prefix, contentType string) (uploadURL, objectURL string, expiresAt time.Time, err error)
}

type Usecase struct {
	repo   applicant.Repository
	tokens TokenIssuer
	docs   DocumentStore
	admin  AdminCredentials
	now    func() time.Time
}

func NewUsecase(r applicant.Repository, tokens TokenIssuer, docs DocumentStore, admin AdminCredentials) *Usecase {
	return &Usecase{repo: r, tokens: tokens, docs: docs, admin: admin, now: time.Now}
}

func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*AuthDTO, error) {
	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	a := &applicant.Applicant{
		ApplicantID:  id.NewID32(),
		Name:         strings.TrimSpace(in.Name),
		Email:        applicant.NormalizeEmail(in.Email),
		PasswordHash: hash,
		KYCStatus:    applicant.KYCPending,
	}
	if err := u.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	logger.Info(ctx, "applicant registered", zap.String("applicant_id", a.ApplicantID))
	return u.issue(a)
}

func (u *Usecase) Login(ctx context.Context, email, plain string) (*AuthDTO, error) {
	a, err := u.repo.GetByEmail(ctx, applicant.NormalizeEmail(email))
	if errors.Is(err, applicant.ErrApplicantNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !password.Check(plain, a.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return u.issue(a)
}

func (u *Usecase) AdminLogin(ctx context.Context, username, plain string) (*AuthDTO, error) {
	if u.admin.Username == "" || username != u.admin.Username || !password.Check(plain, u.admin.PasswordHash) {
		logger.Warn(ctx, "admin login rejected", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}
	tok, err := u.tokens.Issue(username, token.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthDTO{Token: tok, Role: token.RoleAdmin}, nil
}

func (u *Usecase) Get(ctx context.Context, applicantID string) (*ApplicantDTO, error) {
	a, err := u.repo.GetByApplicantID(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	return ToApplicantDTO(a), nil
}

// PresignDocument returns a URL the applicant uploads one KYC document to.
func (u *Usecase) PresignDocument(ctx context.Context, applicantID, kind, contentType string) (*UploadDTO, error) {
	switch kind {
	case DocAadhaarFront, DocAadhaarBack, DocPANCard:
	default:
		return nil, ErrInvalidDocument
	}
	if !allowedContentTypes[contentType] {
		return nil, ErrInvalidDocument
	}
	if _, err := u.repo.GetByApplicantID(ctx, applicantID); err != nil {
		return nil, err
	}

	up, obj, exp, err := u.docs.PresignUpload(ctx, "kyc/"+applicantID+"/"+kind, contentType)
	if err != nil {
		return nil, fmt.Errorf("presign %s: %w", kind, err)
	}
	return &UploadDTO{Kind: kind, UploadURL: up, ObjectURL: obj, ExpiresAt: exp}, nil
}

// SubmitKYC records the uploaded documents. Submission is verified on
// receipt; a later verifier callback may overturn it via SetKYCStatus.
func (u *Usecase) SubmitKYC(ctx context.Context, applicantID string, d applicant.Documents) (*ApplicantDTO, error) {
	if strings.TrimSpace(d.AadhaarFront) == "" || strings.TrimSpace(d.PANCard) == "" {
		return nil, ErrInvalidDocument
	}
	a, err := u.repo.GetByApplicantID(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	if err := a.AttachDocuments(d, applicant.KYCVerified, u.now()); err != nil {
		return nil, err
	}
	if err := u.repo.Save(ctx, a); err != nil {
		return nil, err
	}
	logger.Info(ctx, "kyc documents submitted", zap.String("applicant_id", applicantID))
	return ToApplicantDTO(a), nil
}

func (u *Usecase) SetKYCStatus(ctx context.Context, applicantID string, status applicant.KYCStatus) (*ApplicantDTO, error) {
	if !status.Valid() {
		return nil, applicant.ErrInvalidKYCStatus
	}
	a, err := u.repo.GetByApplicantID(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	a.SetKYCStatus(status, u.now())
	if err := u.repo.Save(ctx, a); err != nil {
		return nil, err
	}
	logger.Info(ctx, "kyc status set", zap.String("applicant_id", applicantID), zap.String("status", string(status)))
	return ToApplicantDTO(a), nil
}

func (u *Usecase) issue(a *applicant.Applicant) (*AuthDTO, error) {
	tok, err := u.tokens.Issue(a.ApplicantID, token.RoleApplicant)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthDTO{Token: tok, Role: token.RoleApplicant, Applicant: ToApplicantDTO(a)}, nil
}
