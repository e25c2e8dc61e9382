package audit

import (
	"time"

	"cdcaccount/pkg/domain"
)

// Action names an auditable reconciliation decision.
type Action string

// Actions recorded by the reconciliation engine. Disabling a duplicate
// account is the one destructive decision this service ever takes, so it
// always leaves a trail.
const (
	ActionRegistrationReconciled Action = "registration_reconciled"
	ActionDuplicateDisabled      Action = "duplicate_account_disabled"
	ActionReconciliationFailed   Action = "reconciliation_failed"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp    time.Time
	UID          domain.UID
	Action       Action
	Datacenter   domain.Datacenter
	Email        string
	DuplicateUID domain.UID
	Reason       string
}
