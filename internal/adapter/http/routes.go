package http

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"shiksha-loan-backend/internal/adapter/middleware"
	"shiksha-loan-backend/internal/infrastructure/metrics"
	"shiksha-loan-backend/pkg/token"
)

// Deps is everything the router needs.
type Deps struct {
	Tokens         middleware.TokenValidator
	Redis          *redis.Client
	IdempotencyTTL time.Duration

	Health     *Handler
	Applicants *ApplicantHandler
	Loans      *LoanHandler
	Approvals  *ApprovalHandler
	Payments   *PaymentHandler
	Sweeps     *SweepHandler
	Realtime   echo.HandlerFunc
}

// Register mounts every route on e.
func Register(e *echo.Echo, d Deps) {
	e.GET("/health", d.Health.Health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	applicant := middleware.RequireRole(d.Tokens, token.RoleApplicant)
	admin := middleware.RequireRole(d.Tokens, token.RoleAdmin)

	// browsers cannot set headers on a websocket handshake
	e.GET("/ws", d.Realtime, tokenFromQuery, admin)

	auth := e.Group("/auth")
	auth.POST("/register", d.Applicants.Register)
	auth.POST("/login", d.Applicants.Login)
	auth.POST("/admin/login", d.Applicants.AdminLogin)

	me := e.Group("", applicant)
	me.GET("/me", d.Applicants.Me)
	me.POST("/kyc/presign", d.Applicants.PresignDocument)
	me.POST("/kyc/documents", d.Applicants.SubmitKYC)
	me.POST("/applications", d.Loans.Apply)
	me.GET("/applications/me", d.Loans.Mine)

	pay := e.Group("/payments", applicant, middleware.Idempotency(d.Redis, d.IdempotencyTTL))
	pay.POST("/registration/verify", d.Payments.VerifyFee)
	pay.POST("/emi/verify", d.Payments.VerifyEMI)

	adm := e.Group("/admin", admin)
	adm.GET("/applications", d.Loans.List)
	adm.GET("/applications/:loan_id", d.Loans.GetLoan)
	adm.PATCH("/applications/:loan_id/decision", d.Approvals.Decide)
	adm.POST("/applications/:loan_id/installments/:installment_id/reminder", d.Sweeps.SendReminder)
	adm.GET("/stats", d.Loans.Stats)
	adm.PATCH("/applicants/:applicant_id/kyc", d.Applicants.SetKYCStatus)
	adm.POST("/sweeps/overdue", d.Sweeps.RunOverdue)
	adm.POST("/sweeps/reminder", d.Sweeps.RunReminder)
}

func tokenFromQuery(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		if req.Header.Get(echo.HeaderAuthorization) == "" {
			if t := c.QueryParam("token"); t != "" {
				req.Header.Set(echo.HeaderAuthorization, "Bearer "+t)
			}
		}
		return next(c)
	}
}
