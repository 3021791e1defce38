package applicant

import (
	"errors"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"
)

var (
	ErrApplicantNotFound = errors.New("applicant not found")
	ErrEmailTaken        = errors.New("email already registered")
	ErrInvalidKYCStatus  = errors.New("invalid kyc status")
)

type KYCStatus string

const (
	KYCPending  KYCStatus = "pending"
	KYCVerified KYCStatus = "verified"
	KYCRejected KYCStatus = "rejected"
)

func (s KYCStatus) Valid() bool {
	switch s {
	case KYCPending, KYCVerified, KYCRejected:
		return true
	}
	return false
}

// Table: applicants
type Applicant struct {
	ID           uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	ApplicantID  string `gorm:"column:applicant_id;size:32;not null;uniqueIndex:ux_applicants_applicant_id" json:"applicant_id"`
	Name         string `gorm:"column:name;size:128" json:"name"`
	Email        string `gorm:"column:email;size:255;not null;uniqueIndex:ux_applicants_email" json:"email"`
	PasswordHash string `gorm:"column:password_hash;size:72;not null" json:"-"`

	KYCStatus     KYCStatus   `gorm:"column:kyc_status;size:10;not null" json:"kyc_status"`
	PANNumber     null.String `gorm:"column:pan_number;size:10" json:"pan_number"`
	AadhaarFront  null.String `gorm:"column:aadhaar_front_url;type:text" json:"aadhaar_front_url"`
	AadhaarBack   null.String `gorm:"column:aadhaar_back_url;type:text" json:"aadhaar_back_url"`
	PANCard       null.String `gorm:"column:pan_card_url;type:text" json:"pan_card_url"`
	KYCReviewedAt null.Time   `gorm:"column:kyc_reviewed_at" json:"kyc_reviewed_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Applicant) TableName() string { return "applicants" }

// NormalizeEmail is the form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DisplayName returns the registered name, or fallback when none was given.
func (a *Applicant) DisplayName(fallback string) string {
	if a != nil && strings.TrimSpace(a.Name) != "" {
		return a.Name
	}
	return fallback
}

// Documents are the KYC uploads an applicant submits. Aadhaar front and the
// PAN card are mandatory.
type Documents struct {
	PANNumber    string
	AadhaarFront string
	AadhaarBack  string
	PANCard      string
}

// AttachDocuments records the uploads and applies the verifier's outcome.
func (a *Applicant) AttachDocuments(d Documents, status KYCStatus, now time.Time) error {
	if !status.Valid() {
		return ErrInvalidKYCStatus
	}
	a.PANNumber = null.NewString(strings.ToUpper(d.PANNumber), d.PANNumber != "")
	a.AadhaarFront = null.StringFrom(d.AadhaarFront)
	a.AadhaarBack = null.NewString(d.AadhaarBack, d.AadhaarBack != "")
	a.PANCard = null.StringFrom(d.PANCard)
	a.SetKYCStatus(status, now)
	return nil
}

func (a *Applicant) SetKYCStatus(status KYCStatus, now time.Time) {
	a.KYCStatus = status
	if status == KYCPending {
		a.KYCReviewedAt = null.Time{}
		return
	}
	a.KYCReviewedAt = null.TimeFrom(now.UTC())
}
