package eventmock

import (
	"sync"

	"shiksha-loan-backend/internal/domain/event"
)

var _ event.Broadcaster = (*Broadcaster)(nil)

type Event struct {
	Name    string
	Payload any
}

// Broadcaster records broadcasts.
type Broadcaster struct {
	mu     sync.Mutex
	events []Event
}

func (b *Broadcaster) Broadcast(name string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, Event{Name: name, Payload: payload})
}

func (b *Broadcaster) Events() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Event(nil), b.events...)
}
