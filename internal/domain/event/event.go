package event

// Event names pushed to realtime subscribers.
const (
	NewApplication = "new_application_added"
	StatusUpdated  = "status_updated"
)

// StatusChange is the payload of StatusUpdated.
type StatusChange struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Broadcaster delivers events at most once. It must not block the caller.
type Broadcaster interface {
	Broadcast(name string, payload any)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Broadcast(string, any) {}
