package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreAppendAndList(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Append(ctx, Event{UID: "uid-1", Action: ActionDuplicateDisabled, DuplicateUID: "uid-2"}))
	require.NoError(t, store.Append(ctx, Event{UID: "uid-1", Action: ActionRegistrationReconciled}))
	require.NoError(t, store.Append(ctx, Event{UID: "other", Action: ActionReconciliationFailed}))

	events, err := store.ListByUID(ctx, "uid-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, ActionDuplicateDisabled, events[0].Action)
	assert.Equal(t, ActionRegistrationReconciled, events[1].Action)

	none, err := store.ListByUID(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPublisherStampsTimestamp(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	pub := NewPublisher(store)

	require.NoError(t, pub.Emit(ctx, Event{UID: "uid-1", Action: ActionRegistrationReconciled}))

	events, err := pub.List(ctx, "uid-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestPublisherKeepsExplicitTimestamp(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	pub := NewPublisher(store)

	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, pub.Emit(ctx, Event{UID: "uid-1", Action: ActionRegistrationReconciled, Timestamp: at}))

	events, err := pub.List(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, at, events[0].Timestamp)
}

func TestQueueEmit(t *testing.T) {
	ctx := context.Background()
	inbox := make(chan Event, 1)
	queue := NewQueue(inbox)

	require.NoError(t, queue.Emit(ctx, Event{UID: "uid-1", Action: ActionRegistrationReconciled}))
	queued := <-inbox
	assert.False(t, queued.Timestamp.IsZero())

	// Fill the queue; the second emit must fail instead of blocking.
	require.NoError(t, queue.Emit(ctx, Event{UID: "uid-2"}))
	assert.Error(t, queue.Emit(ctx, Event{UID: "uid-3"}))
}

// failOnceStore fails the first append so the worker's drop-and-continue
// behavior is observable.
type failOnceStore struct {
	MemoryStore
	failed bool
}

func (s *failOnceStore) Append(ctx context.Context, event Event) error {
	if !s.failed {
		s.failed = true
		return errors.New("transient store failure")
	}
	return s.MemoryStore.Append(ctx, event)
}

func TestWorkerSurvivesAppendFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := &failOnceStore{}
	inbox := make(chan Event, 2)
	worker := NewWorker(store, inbox, slog.New(slog.NewTextHandler(io.Discard, nil)))

	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	inbox <- Event{UID: "uid-1", Action: ActionRegistrationReconciled}
	inbox <- Event{UID: "uid-2", Action: ActionRegistrationReconciled}

	assert.Eventually(t, func() bool {
		events, err := store.ListByUID(ctx, "uid-2")
		return err == nil && len(events) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
