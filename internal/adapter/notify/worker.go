package notify

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"shiksha-loan-backend/internal/domain/notification"
	"shiksha-loan-backend/internal/infrastructure/logger"
	"shiksha-loan-backend/internal/infrastructure/metrics"
)

// Queue is what the worker consumes from and re-queues to.
type Queue interface {
	Pop(ctx context.Context, timeout time.Duration) (*notification.Notification, error)
	Dispatch(ctx context.Context, n notification.Notification) error
}

type Worker struct {
	queue       Queue
	renderer    *Renderer
	mailer      Mailer
	maxAttempts int
	popTimeout  time.Duration
	backoff     time.Duration
}

func NewWorker(q Queue, r *Renderer, m Mailer, maxAttempts int) *Worker {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Worker{
		queue:       q,
		renderer:    r,
		mailer:      m,
		maxAttempts: maxAttempts,
		popTimeout:  5 * time.Second,
		backoff:     time.Second,
	}
}

// Run drains the queue until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	logger.Info(ctx, "notification worker started", zap.Int("max_attempts", w.maxAttempts))
	for {
		if ctx.Err() != nil {
			logger.Info(context.Background(), "notification worker stopped")
			return
		}
		n, err := w.queue.Pop(ctx, w.popTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				continue
			}
			logger.Error(ctx, "notification pop", zap.Error(err))
			sleep(ctx, w.backoff)
			continue
		}
		if n == nil {
			continue
		}
		w.Handle(ctx, *n)
	}
}

// Handle delivers one notification. A failed send is re-queued with its
// attempt count bumped after backoff*attempt, and dropped once maxAttempts is
// reached.
func (w *Worker) Handle(ctx context.Context, n notification.Notification) {
	kind := string(n.Kind)
	fields := []zap.Field{zap.String("id", n.ID), zap.String("kind", kind), zap.Int("attempt", n.Attempt+1)}

	subject, body, err := w.renderer.Render(n)
	if err != nil {
		// a template problem won't fix itself
		metrics.Notifications.WithLabelValues(kind, "dropped").Inc()
		logger.Error(ctx, "notification render", append(fields, zap.Error(err))...)
		return
	}

	if err := w.mailer.Send(n.Recipient, subject, body); err != nil {
		n.Attempt++
		if n.Attempt >= w.maxAttempts {
			metrics.Notifications.WithLabelValues(kind, "dropped").Inc()
			logger.Error(ctx, "notification dropped", append(fields, zap.Error(err))...)
			return
		}
		// a cancelled ctx cuts the wait short; the retry still goes back on the queue
		sleep(ctx, w.backoff*time.Duration(n.Attempt))
		if qerr := w.queue.Dispatch(context.WithoutCancel(ctx), n); qerr != nil {
			metrics.Notifications.WithLabelValues(kind, "dropped").Inc()
			logger.Error(ctx, "notification requeue", append(fields, zap.Error(qerr))...)
			return
		}
		metrics.Notifications.WithLabelValues(kind, "retried").Inc()
		logger.Warn(ctx, "notification send failed, requeued", append(fields, zap.Error(err))...)
		return
	}

	metrics.Notifications.WithLabelValues(kind, "sent").Inc()
	logger.Debug(ctx, "notification sent", fields...)
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
