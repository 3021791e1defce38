package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	sweepuc "shiksha-loan-backend/internal/usecase/sweep"
)

type SweepHandler struct {
	uc *sweepuc.Usecase
	// run starts a sweep detached from the request; tests make it synchronous.
	run func(fn func())
}

func NewSweepHandler(uc *sweepuc.Usecase) *SweepHandler {
	return &SweepHandler{uc: uc, run: func(fn func()) { go fn() }}
}

// RunOverdue triggers the overdue sweep and returns immediately.
func (h *SweepHandler) RunOverdue(c echo.Context) error {
	ctx := context.WithoutCancel(c.Request().Context())
	h.run(func() { h.uc.RunOverdueSweep(ctx) })
	return c.JSON(http.StatusAccepted, map[string]string{"status": "overdue sweep started"})
}

func (h *SweepHandler) RunReminder(c echo.Context) error {
	ctx := context.WithoutCancel(c.Request().Context())
	h.run(func() { h.uc.RunReminderSweep(ctx) })
	return c.JSON(http.StatusAccepted, map[string]string{"status": "reminder sweep started"})
}

func (h *SweepHandler) SendReminder(c echo.Context) error {
	err := h.uc.SendReminder(c.Request().Context(), c.Param("loan_id"), c.Param("installment_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusAccepted, map[string]string{"status": "reminder queued"})
}
