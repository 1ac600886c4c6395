package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var mu sync.Mutex
	var received []Event
	d.Subscribe(EventPasswordResetRequested, func(_ context.Context, event Event) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, event)
		return nil
	})

	d.Publish(context.Background(), Event{ID: "e1", Type: EventPasswordResetRequested, Timestamp: time.Now()})
	d.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	assert.Equal(t, "e1", received[0].ID)
}

func TestPublishDoesNotBlockOnSlowHandler(t *testing.T) {
	d := NewInMemoryDispatcher()

	release := make(chan struct{})
	d.Subscribe(EventPasswordResetRequested, func(_ context.Context, _ Event) error {
		<-release
		return nil
	})

	start := time.Now()
	d.Publish(context.Background(), Event{ID: "e1", Type: EventPasswordResetRequested})
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	close(release)
	d.Wait()
}

func TestPublishContinuesPastFailingHandler(t *testing.T) {
	d := NewInMemoryDispatcher()

	var called bool
	var mu sync.Mutex
	d.Subscribe(EventUserRegistered, func(_ context.Context, _ Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventUserRegistered, func(_ context.Context, _ Event) error {
		mu.Lock()
		defer mu.Unlock()
		called = true
		return nil
	})

	d.Publish(context.Background(), Event{ID: "e1", Type: EventUserRegistered})
	d.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, called)
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	d := NewInMemoryDispatcher()
	d.Publish(context.Background(), Event{ID: "e1", Type: EventPasswordChanged})
	d.Wait()
}
