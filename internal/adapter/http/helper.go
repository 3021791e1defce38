package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	domainApplicant "shiksha-loan-backend/internal/domain/applicant"
	domainApproval "shiksha-loan-backend/internal/domain/approval"
	domainLoan "shiksha-loan-backend/internal/domain/loan"
	"shiksha-loan-backend/internal/infrastructure/logger"
	applicantuc "shiksha-loan-backend/internal/usecase/applicant"
	loanuc "shiksha-loan-backend/internal/usecase/loan"
	paymentuc "shiksha-loan-backend/internal/usecase/payment"
	sweepuc "shiksha-loan-backend/internal/usecase/sweep"
	"shiksha-loan-backend/pkg/signature"
)

// statusFor maps domain errors to HTTP codes. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domainLoan.ErrLoanNotFound),
		errors.Is(err, domainLoan.ErrInstallmentNotFound),
		errors.Is(err, domainApplicant.ErrApplicantNotFound),
		errors.Is(err, domainApproval.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, signature.ErrSignatureInvalid),
		errors.Is(err, paymentuc.ErrUnknownPurpose):
		return http.StatusBadRequest
	case errors.Is(err, applicantuc.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domainLoan.ErrAlreadyPaid),
		errors.Is(err, domainLoan.ErrInvalidTransition),
		errors.Is(err, domainLoan.ErrLoanExists),
		errors.Is(err, domainLoan.ErrConcurrentModification),
		errors.Is(err, domainApproval.ErrAlreadyDecided),
		errors.Is(err, domainApplicant.ErrEmailTaken),
		errors.Is(err, sweepuc.ErrNotRemindable):
		return http.StatusConflict
	case errors.Is(err, domainLoan.ErrInvalidScheduleInput),
		errors.Is(err, domainApproval.ErrInvalidOutcome),
		errors.Is(err, domainApplicant.ErrInvalidKYCStatus),
		errors.Is(err, applicantuc.ErrInvalidDocument),
		errors.Is(err, loanuc.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// respondError writes err as an ErrorResponse. Internal errors are logged and
// hidden from the client.
func respondError(c echo.Context, err error) error {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		logger.Error(c.Request().Context(), "request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err))
		return c.JSON(code, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(code, ErrorResponse{Error: err.Error()})
}

// bindAndValidate binds the body into req and runs the validator, writing the
// 400/422 response itself. ok is false when a response was written.
func bindAndValidate(c echo.Context, req any) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}
