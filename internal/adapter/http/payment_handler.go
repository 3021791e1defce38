package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"shiksha-loan-backend/internal/adapter/middleware"
	paymentuc "shiksha-loan-backend/internal/usecase/payment"
)

type PaymentHandler struct{ uc *paymentuc.Usecase }

func NewPaymentHandler(uc *paymentuc.Usecase) *PaymentHandler { return &PaymentHandler{uc: uc} }

// Field names follow the gateway checkout callback.
type verifyFeeReq struct {
	LoanID    string `json:"loan_id"             validate:"required,hex32"`
	OrderID   string `json:"razorpay_order_id"   validate:"required,max=64"`
	PaymentID string `json:"razorpay_payment_id" validate:"required,max=64"`
	Signature string `json:"razorpay_signature"  validate:"required,hexadecimal,len=64"`
}

type verifyEMIReq struct {
	verifyFeeReq
	InstallmentID string `json:"installment_id" validate:"required,uuid"`
}

func (h *PaymentHandler) VerifyFee(c echo.Context) error {
	var req verifyFeeReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	return h.verify(c, paymentuc.VerifyInput{
		Purpose:   paymentuc.PurposeFee,
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
		LoanID:    req.LoanID,
	})
}

func (h *PaymentHandler) VerifyEMI(c echo.Context) error {
	var req verifyEMIReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	return h.verify(c, paymentuc.VerifyInput{
		Purpose:       paymentuc.PurposeEMI,
		OrderID:       req.OrderID,
		PaymentID:     req.PaymentID,
		Signature:     req.Signature,
		LoanID:        req.LoanID,
		InstallmentID: req.InstallmentID,
	})
}

func (h *PaymentHandler) verify(c echo.Context, in paymentuc.VerifyInput) error {
	in.ApplicantID = middleware.Subject(c)
	out, err := h.uc.Verify(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
