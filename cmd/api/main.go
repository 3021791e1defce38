package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"shiksha-loan-backend/internal/adapter/notify"
	"shiksha-loan-backend/internal/adapter/storage"
	"shiksha-loan-backend/internal/config"
	"shiksha-loan-backend/internal/infrastructure/cache"
	"shiksha-loan-backend/internal/infrastructure/db"
	"shiksha-loan-backend/internal/infrastructure/logger"
	applicantuc "shiksha-loan-backend/internal/usecase/applicant"
)

// Swapped in tests.
var (
	loadDotenv = func() error { return config.LoadDotenv() }
	loadCfg    = config.Load
	initLog    = logger.Init
	openDB     = db.OpenGorm
	openRedis  = cache.OpenRedis
	newDocs    = func(ctx context.Context, cfg *config.Config) (applicantuc.DocumentStore, error) {
		p, err := storage.NewS3Presigner(ctx, cfg.AWSRegion, cfg.AWSEndpointURL)
		if err != nil {
			return nil, err
		}
		base := storage.ObjectBaseURL(cfg.KYCBucket, cfg.AWSRegion, cfg.AWSEndpointURL)
		return storage.NewDocumentStore(p, cfg.KYCBucket, base, cfg.PresignTTL), nil
	}
	runServer = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	notifyCtx = func() (context.Context, context.CancelFunc) {
		return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	}
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg := loadCfg()
	initLog(cfg.AppEnv)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, stop := notifyCtx()
	defer stop()

	gdb, err := openDB(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	rdb, err := openRedis(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		return fmt.Errorf("open redis: %w", err)
	}
	defer rdb.Close()

	docs, err := newDocs(ctx, cfg)
	if err != nil {
		return fmt.Errorf("document store: %w", err)
	}

	var mailer notify.Mailer = notify.LogMailer{}
	if cfg.SMTPHost != "" {
		mailer = notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	} else {
		logger.Warn(ctx, "SMTP_HOST not set, notifications are only logged")
	}

	a, err := newApp(cfg, gdb, rdb, docs, mailer)
	if err != nil {
		return err
	}
	sched, err := a.schedule(ctx)
	if err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}
	a.background(ctx)
	sched.Start()
	defer sched.Stop()

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.AppPort
		logger.Info(ctx, "listening", zap.String("addr", addr), zap.String("env", cfg.AppEnv))
		errCh <- runServer(a.echo, addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
