package audit

import (
	"context"
	"fmt"
	"time"
)

// Queue is the emit side of the background audit pipeline. Emit stamps and
// enqueues; the Worker persists. Emitters never block on storage.
type Queue struct {
	inbox chan<- Event
}

// NewQueue creates a Queue feeding inbox.
func NewQueue(inbox chan<- Event) *Queue {
	return &Queue{inbox: inbox}
}

// Emit enqueues one event. A full queue returns an error instead of
// blocking reconciliation.
func (q *Queue) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case q.inbox <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("audit queue full, dropping %s for %s", event.Action, event.UID)
	}
}
