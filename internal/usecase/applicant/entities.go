package applicant

import (
	"errors"
	"time"

	"shiksha-loan-backend/internal/domain/applicant"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidDocument    = errors.New("invalid document")
)

// Document kinds accepted for KYC upload.
const (
	DocAadhaarFront = "aadhaar_front"
	DocAadhaarBack  = "aadhaar_back"
	DocPANCard      = "pan_card"
)

var allowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AdminCredentials is the single configured back-office account.
type AdminCredentials struct {
	Username     string
	PasswordHash string
}

type ApplicantDTO struct {
	ApplicantID   string     `json:"applicant_id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	KYCStatus     string     `json:"kyc_status"`
	PANNumber     *string    `json:"pan_number,omitempty"`
	AadhaarFront  *string    `json:"aadhaar_front_url,omitempty"`
	AadhaarBack   *string    `json:"aadhaar_back_url,omitempty"`
	PANCard       *string    `json:"pan_card_url,omitempty"`
	KYCReviewedAt *time.Time `json:"kyc_reviewed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type AuthDTO struct {
	Token     string        `json:"token"`
	Role      string        `json:"role"`
	Applicant *ApplicantDTO `json:"applicant,omitempty"`
}

type UploadDTO struct {
	Kind      string    `json:"kind"`
	UploadURL string    `json:"upload_url"`
	ObjectURL string    `json:"object_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

func ToApplicantDTO(a *applicant.Applicant) *ApplicantDTO {
	dto := &ApplicantDTO{
		ApplicantID:  a.ApplicantID,
		Name:         a.Name,
		Email:        a.Email,
		KYCStatus:    string(a.KYCStatus),
		PANNumber:    a.PANNumber.Ptr(),
		AadhaarFront: a.AadhaarFront.Ptr(),
		AadhaarBack:  a.AadhaarBack.Ptr(),
		PANCard:      a.PANCard.Ptr(),
		CreatedAt:    a.CreatedAt,
	}
	if a.KYCReviewedAt.Valid {
		t := a.KYCReviewedAt.Time
		dto.KYCReviewedAt = &t
	}
	return dto
}
