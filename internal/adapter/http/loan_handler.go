package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"shiksha-loan-backend/internal/adapter/middleware"
	"shiksha-loan-backend/internal/domain/loan"
	loanuc "shiksha-loan-backend/internal/usecase/loan"
)

type LoanHandler struct{ uc *loanuc.Usecase }

func NewLoanHandler(uc *loanuc.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type bankReq struct {
	AccountHolderName string `json:"account_holder_name" validate:"required,max=128"`
	AccountNumber     string `json:"account_number"      validate:"required,numeric,min=6,max=34"`
	IFSCCode          string `json:"ifsc_code"           validate:"required,ifsc"`
	BankName          string `json:"bank_name"           validate:"required,max=128"`
}

type applyReq struct {
	FullName    string          `json:"full_name"    validate:"required,max=128"`
	Email       string          `json:"email"        validate:"omitempty,email"`
	Phone       string          `json:"phone"        validate:"required,phone"`
	CourseName  string          `json:"course_name"  validate:"required,max=128"`
	CollegeName string          `json:"college_name" validate:"required,max=128"`
	LoanType    string          `json:"loan_type"    validate:"required,max=32"`
	Principal   decimal.Decimal `json:"principal"    validate:"gt=0,dec2"`
	DocumentURL string          `json:"document_url" validate:"omitempty,url"`
	Bank        bankReq         `json:"bank_details"`
}

func (h *LoanHandler) Apply(c echo.Context) error {
	var req applyReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Apply(c.Request().Context(), loanuc.ApplyInput{
		ApplicantID: middleware.Subject(c),
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		CourseName:  req.CourseName,
		CollegeName: req.CollegeName,
		LoanType:    req.LoanType,
		Principal:   req.Principal,
		DocumentURL: req.DocumentURL,
		Bank:        loan.BankDetails(req.Bank),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) Mine(c echo.Context) error {
	dto, err := h.uc.Mine(c.Request().Context(), middleware.Subject(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) List(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Stats(c echo.Context) error {
	out, err := h.uc.Stats(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
