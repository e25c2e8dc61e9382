// Package notify dispatches event envelopes to downstream consumers.
// Delivery is fire-and-forget from the caller's perspective: the
// reconciler logs a failed notification and moves on.
package notify

import (
	"context"
	"log/slog"
)

// Downstream topics.
const (
	TopicRegistration = "cdc.account.registration"
	TopicAccountInfo  = "cdc.account.info"
)

// Envelope is the serialized event contract shared with downstream systems.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Notifier publishes one envelope to a topic. Implementations must be safe
// for concurrent use.
type Notifier interface {
	Send(ctx context.Context, topic string, envelope Envelope) error
}

// LogNotifier writes envelopes to the log. It stands in for the broker in
// environments without one configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Send implements Notifier.
func (n *LogNotifier) Send(ctx context.Context, topic string, envelope Envelope) error {
	n.logger.InfoContext(ctx, "notification", "topic", topic, "type", envelope.Type)
	return nil
}
