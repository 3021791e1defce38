// Package notify delivers loan notifications: a Redis list as the queue, a
// worker that renders and mails them, and retry with a bounded attempt count.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"shiksha-loan-backend/internal/domain/notification"
	"shiksha-loan-backend/internal/infrastructure/metrics"
)

const DefaultQueueKey = "notify:queue"

var _ notification.Dispatcher = (*RedisQueue)(nil)

type RedisQueue struct {
	rdb *redis.Client
	key string
	now func() time.Time
}

func NewRedisQueue(rdb *redis.Client, key string) *RedisQueue {
	if key == "" {
		key = DefaultQueueKey
	}
	return &RedisQueue{rdb: rdb, key: key, now: time.Now}
}

// Dispatch enqueues n. It returns once Redis has the item.
func (q *RedisQueue) Dispatch(ctx context.Context, n notification.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = q.now().UTC()
	}
	b, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := q.rdb.LPush(ctx, q.key, b).Err(); err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}
	metrics.Notifications.WithLabelValues(string(n.Kind), "enqueued").Inc()
	return nil
}

// Pop blocks up to timeout for the oldest item. It returns nil, nil when the
// queue stayed empty.
func (q *RedisQueue) Pop(ctx context.Context, timeout time.Duration) (*notification.Notification, error) {
	res, err := q.rdb.BRPop(ctx, timeout, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// res is [key, value]
	var n notification.Notification
	if err := json.Unmarshal([]byte(res[1]), &n); err != nil {
		return nil, fmt.Errorf("decode notification: %w", err)
	}
	return &n, nil
}

func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, q.key).Result()
}
