package audit

import (
	"context"
	"sync"

	"cdcaccount/pkg/domain"
)

// Store persists audit events. Implementations are append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUID(ctx context.Context, uid domain.UID) ([]Event, error)
}

// MemoryStore keeps events in process memory. It backs tests and
// deployments without a database configured.
type MemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append implements Store.
func (s *MemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// ListByUID implements Store. Events are returned in append order.
func (s *MemoryStore) ListByUID(_ context.Context, uid domain.UID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Event
	for _, e := range s.events {
		if e.UID == uid {
			out = append(out, e)
		}
	}
	return out, nil
}
