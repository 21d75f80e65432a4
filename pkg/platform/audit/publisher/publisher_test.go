package publisher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "udyam/pkg/platform/audit"
	"udyam/pkg/platform/audit/store/memory"
)

type recordingSink struct {
	mu     sync.Mutex
	events []audit.Event
	err    error
}

func (s *recordingSink) Publish(_ context.Context, e audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.err
}

func TestPublisher_SyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	err := pub.Emit(context.Background(), audit.Event{
		Action:         audit.ActionOTPVerified,
		RegistrationID: "reg-1",
	})
	require.NoError(t, err)

	events, err := pub.List(context.Background(), "reg-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.CategoryCompliance, events[0].Category)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestPublisher_AsyncDrainsOnClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(100))

	for range 10 {
		require.NoError(t, pub.Emit(context.Background(), audit.Event{
			Action:         audit.ActionStepSaved,
			RegistrationID: "reg-2",
		}))
	}
	pub.Close()

	events, err := store.ListByRegistration(context.Background(), "reg-2")
	require.NoError(t, err)
	assert.Len(t, events, 10)
}

func TestPublisher_ForwardsToSinks(t *testing.T) {
	sink := &recordingSink{}
	pub := NewPublisher(memory.NewInMemoryStore(), WithSink(sink))

	require.NoError(t, pub.Emit(context.Background(), audit.Event{Action: audit.ActionOTPRejected}))

	require.Len(t, sink.events, 1)
	assert.Equal(t, audit.CategorySecurity, sink.events[0].Category)
}

func TestPublisher_SinkFailureIsNotReturned(t *testing.T) {
	sink := &recordingSink{err: errors.New("broker down")}
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store,
		WithSink(sink),
		WithPublisherLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	require.NoError(t, pub.Emit(context.Background(), audit.Event{Action: audit.ActionStepSaved, RegistrationID: "r"}))

	events, _ := store.ListByRegistration(context.Background(), "r")
	assert.Len(t, events, 1)
}
