package notification

import "context"

// Sink accepts events fire-and-forget. It never participates in the
// calculation that produced the event, and a failed publish must not undo a
// committed change.
type Sink interface {
	Publish(ctx context.Context, companyID string, name EventName, payload map[string]any)
}

// Repository stores published events.
type Repository interface {
	CreateBatch(ctx context.Context, events []Event) error
}
