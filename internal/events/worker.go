package events

import (
	"context"
	"log/slog"
)

// Worker consumes registration events from a channel and hands each to the
// handler. It keeps background processing testable without wiring queue
// implementations into the core.
type Worker struct {
	handler Handler
	inbox   <-chan RegistrationEvent
	logger  *slog.Logger
}

func NewWorker(handler Handler, inbox <-chan RegistrationEvent, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{handler: handler, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			w.logger.InfoContext(ctx, "registration event received",
				"eventID", event.EventID, "uid", event.UID, "datacenter", event.Datacenter)
			w.handler.HandleRegistration(ctx, event)
		}
	}
}
