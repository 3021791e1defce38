package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"shiksha-loan-backend/internal/adapter/middleware"
	"shiksha-loan-backend/internal/domain/applicant"
	applicantuc "shiksha-loan-backend/internal/usecase/applicant"
)

type ApplicantHandler struct{ uc *applicantuc.Usecase }

func NewApplicantHandler(uc *applicantuc.Usecase) *ApplicantHandler {
	return &ApplicantHandler{uc: uc}
}

type registerReq struct {
	Name     string `json:"name"     validate:"required,max=128"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginReq struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type adminLoginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type presignReq struct {
	Kind        string `json:"kind"         validate:"required,oneof=aadhaar_front aadhaar_back pan_card"`
	ContentType string `json:"content_type" validate:"required,oneof=image/jpeg image/png application/pdf"`
}

type submitKYCReq struct {
	PANNumber    string `json:"pan_number"        validate:"required,pan"`
	AadhaarFront string `json:"aadhaar_front_url" validate:"required,url"`
	AadhaarBack  string `json:"aadhaar_back_url"  validate:"omitempty,url"`
	PANCard      string `json:"pan_card_url"      validate:"required,url"`
}

type kycStatusReq struct {
	Status string `json:"status" validate:"required,oneof=pending verified rejected"`
}

func (h *ApplicantHandler) Register(c echo.Context) error {
	var req registerReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	out, err := h.uc.Register(c.Request().Context(), applicantuc.RegisterInput(req))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ApplicantHandler) Login(c echo.Context) error {
	var req loginReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	out, err := h.uc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ApplicantHandler) AdminLogin(c echo.Context) error {
	var req adminLoginReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	out, err := h.uc.AdminLogin(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ApplicantHandler) Me(c echo.Context) error {
	out, err := h.uc.Get(c.Request().Context(), middleware.Subject(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ApplicantHandler) PresignDocument(c echo.Context) error {
	var req presignReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	out, err := h.uc.PresignDocument(c.Request().Context(), middleware.Subject(c), req.Kind, req.ContentType)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ApplicantHandler) SubmitKYC(c echo.Context) error {
	var req submitKYCReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	out, err := h.uc.SubmitKYC(c.Request().Context(), middleware.Subject(c), applicant.Documents(req))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// SetKYCStatus is the admin/verifier override.
func (h *ApplicantHandler) SetKYCStatus(c echo.Context) error {
	applicantID := c.Param("applicant_id")
	if applicantID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing applicant_id path param"})
	}
	var req kycStatusReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	out, err := h.uc.SetKYCStatus(c.Request().Context(), applicantID, applicant.KYCStatus(req.Status))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
