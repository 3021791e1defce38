package notifymock

import (
	"context"
	"sync"

	"shiksha-loan-backend/internal/domain/notification"
)

var _ notification.Dispatcher = (*Dispatcher)(nil)

// Dispatcher records every notification. Err, when set, is returned from
// Dispatch after recording.
type Dispatcher struct {
	mu   sync.Mutex
	sent []notification.Notification
	Err  error
}

func (d *Dispatcher) Dispatch(_ context.Context, n notification.Notification) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, n)
	return d.Err
}

func (d *Dispatcher) Sent() []notification.Notification {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]notification.Notification(nil), d.sent...)
}

// Kinds lists the kinds dispatched, in order.
func (d *Dispatcher) Kinds() []notification.Kind {
	var out []notification.Kind
	for _, n := range d.Sent() {
		out = append(out, n.Kind)
	}
	return out
}
