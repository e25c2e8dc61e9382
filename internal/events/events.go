// Package events models the registration events delivered by the vendor's
// webhook. Delivery retry and ordering belong to the external bus; this
// package only hands each event to its handler.
package events

import (
	"context"
	"time"

	"cdcaccount/pkg/domain"
)

// RegistrationEvent signals that the vendor finalized a registration. The
// reconciliation engine runs its post-registration side effects off it.
type RegistrationEvent struct {
	EventID    string
	UID        domain.UID
	Datacenter domain.Datacenter
	Timestamp  time.Time
}

// Handler processes one registration event. Implementations must swallow
// their own failures: the event delivery already succeeded upstream and
// nobody is waiting synchronously.
type Handler interface {
	HandleRegistration(ctx context.Context, event RegistrationEvent)
}
