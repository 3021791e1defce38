package main

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	httpadp "shiksha-loan-backend/internal/adapter/http"
	"shiksha-loan-backend/internal/adapter/middleware"
	"shiksha-loan-backend/internal/adapter/notify"
	"shiksha-loan-backend/internal/adapter/realtime"
	"shiksha-loan-backend/internal/adapter/repository/mysql"
	"shiksha-loan-backend/internal/config"
	"shiksha-loan-backend/internal/infrastructure/cache"
	"shiksha-loan-backend/internal/infrastructure/db"
	"shiksha-loan-backend/internal/infrastructure/logger"
	"shiksha-loan-backend/internal/infrastructure/scheduler"
	applicantuc "shiksha-loan-backend/internal/usecase/applicant"
	approvaluc "shiksha-loan-backend/internal/usecase/approval"
	loanuc "shiksha-loan-backend/internal/usecase/loan"
	paymentuc "shiksha-loan-backend/internal/usecase/payment"
	sweepuc "shiksha-loan-backend/internal/usecase/sweep"
	"shiksha-loan-backend/pkg/signature"
	"shiksha-loan-backend/pkg/token"
)

// app is the wired service: the HTTP server plus its background loops.
type app struct {
	echo   *echo.Echo
	hub    *realtime.Hub
	worker *notify.Worker
	sweeps *sweepuc.Usecase
	loc    *time.Location
	cfg    *config.Config
}

// newApp builds every component over already-open connections.
func newApp(cfg *config.Config, gdb *gorm.DB, rdb *redis.Client, docs applicantuc.DocumentStore, mailer notify.Mailer) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	renderer, err := notify.NewRenderer()
	if err != nil {
		return nil, err
	}

	loans := mysql.NewLoanRepository(gdb)
	applicants := mysql.NewApplicantRepository(gdb)
	tx := mysql.NewGormUoW(gdb)

	tokens := token.NewService(cfg.JWTSecret, cfg.JWTTTL)
	hub := realtime.NewHub(cfg.AllowedOrigins)
	queue := notify.NewRedisQueue(rdb, cfg.NotifyQueue)

	loanUC := loanuc.NewUsecase(loans, applicants, hub)
	approvalUC := approvaluc.NewUsecase(tx, queue, hub, loc)
	paymentUC := paymentuc.NewUsecase(tx, signature.NewVerifier(cfg.PaymentGatewaySecret), hub)
	sweepUC := sweepuc.NewUsecase(tx, loans, applicants, queue, loc)
	applicantUC := applicantuc.NewUsecase(applicants, tokens, docs, applicantuc.AdminCredentials{
		Username:     cfg.AdminUsername,
		PasswordHash: cfg.AdminPasswordHash,
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Recover(), echomw.RequestID(), middleware.RequestLogger())
	if len(cfg.AllowedOrigins) > 0 {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.AllowedOrigins}))
	}

	httpadp.Register(e, httpadp.Deps{
		Tokens:         tokens,
		Redis:          rdb,
		IdempotencyTTL: cfg.IdempotencyTTL(),
		Health: httpadp.NewHandler(map[string]httpadp.Check{
			"db":    db.Ping(gdb),
			"redis": cache.Ping(rdb),
		}),
		Applicants: httpadp.NewApplicantHandler(applicantUC),
		Loans:      httpadp.NewLoanHandler(loanUC),
		Approvals:  httpadp.NewApprovalHandler(approvalUC),
		Payments:   httpadp.NewPaymentHandler(paymentUC),
		Sweeps:     httpadp.NewSweepHandler(sweepUC),
		Realtime:   hub.ServeWS,
	})

	return &app{
		echo:   e,
		hub:    hub,
		worker: notify.NewWorker(queue, renderer, mailer, cfg.NotifyMaxAttempts),
		sweeps: sweepUC,
		loc:    loc,
		cfg:    cfg,
	}, nil
}

// schedule registers the daily sweeps. The returned scheduler is not started.
func (a *app) schedule(ctx context.Context) (*scheduler.Scheduler, error) {
	s := scheduler.New(ctx, a.loc)
	jobs := []scheduler.Job{
		{Name: sweepuc.KindOverdue, Spec: a.cfg.OverdueSweepCron, Run: func(ctx context.Context) { a.sweeps.RunOverdueSweep(ctx) }},
		{Name: sweepuc.KindReminder, Spec: a.cfg.ReminderSweepCron, Run: func(ctx context.Context) { a.sweeps.RunReminderSweep(ctx) }},
	}
	for _, j := range jobs {
		if err := s.Add(j); err != nil {
			return nil, err
		}
		logger.Info(ctx, "sweep scheduled", zap.String("job", j.Name), zap.String("spec", j.Spec), zap.String("tz", a.loc.String()))
	}
	return s, nil
}

// background starts the hub and the notification worker; both stop with ctx.
func (a *app) background(ctx context.Context) {
	go a.hub.Run(ctx)
	go a.worker.Run(ctx)
}
