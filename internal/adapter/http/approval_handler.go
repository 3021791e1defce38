package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"shiksha-loan-backend/internal/adapter/middleware"
	domainApproval "shiksha-loan-backend/internal/domain/approval"
	approvaluc "shiksha-loan-backend/internal/usecase/approval"
)

type ApprovalHandler struct{ uc *approvaluc.Usecase }

func NewApprovalHandler(uc *approvaluc.Usecase) *ApprovalHandler { return &ApprovalHandler{uc: uc} }

// Missing or zero terms on an approval are rejected by the schedule generator.
type decideReq struct {
	Outcome      string          `json:"outcome"       validate:"required,oneof=approved rejected"`
	TenureMonths int             `json:"tenure_months" validate:"gte=0,lte=360"`
	InterestRate decimal.Decimal `json:"interest_rate" validate:"gte=0,lte=100,dec2"`
}

func (h *ApprovalHandler) Decide(c echo.Context) error {
	loanID := c.Param("loan_id")
	if loanID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing loan_id path param"})
	}
	var req decideReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Decide(c.Request().Context(), approvaluc.DecideInput{
		LoanID:       loanID,
		Outcome:      domainApproval.Outcome(req.Outcome),
		TenureMonths: req.TenureMonths,
		InterestRate: req.InterestRate,
		DecidedBy:    middleware.Subject(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
