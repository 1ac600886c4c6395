package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quocphungccq1911h/mobi/internal/config"
	"github.com/quocphungccq1911h/mobi/internal/events"
	"github.com/quocphungccq1911h/mobi/internal/notify"
)

type fakeOutbound struct {
	mu   sync.Mutex
	sent []notify.Notification
	err  error
}

func (f *fakeOutbound) Send(_ context.Context, notification notify.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, notification)
	return nil
}

func (f *fakeOutbound) all() []notify.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notify.Notification(nil), f.sent...)
}

func notificationFixture(outbound *fakeOutbound) (*events.InMemoryDispatcher, *NotificationService) {
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewNotificationService(dispatcher, outbound, zap.NewNop(), config.NotificationConfig{
		EmailFrom:   "noreply@mobi.local",
		FrontendURL: "http://localhost:4200",
		Channel:     "password-reset-topic",
	})
	svc.RegisterHandlers()
	return dispatcher, svc
}

func TestPasswordResetNotificationCarriesLink(t *testing.T) {
	outbound := &fakeOutbound{}
	dispatcher, _ := notificationFixture(outbound)

	dispatcher.Publish(context.Background(), events.Event{
		ID:        "evt-1",
		Type:      events.EventPasswordResetRequested,
		Timestamp: time.Now(),
		Payload: events.PasswordResetRequestedPayload{
			UserID:    7,
			Email:     "alice@example.com",
			Token:     "one-time-token",
			ExpiresAt: time.Now().Add(24 * time.Hour),
		},
	})
	dispatcher.Wait()

	sent := outbound.all()
	require.Len(t, sent, 1)
	assert.Equal(t, "noreply@mobi.local", sent[0].From)
	assert.Equal(t, "alice@example.com", sent[0].Recipient)
	assert.Equal(t, "Password recovery", sent[0].Subject)
	assert.Contains(t, sent[0].Body, "http://localhost:4200/reset-password?token=one-time-token")
}

func TestOutboundFailureDoesNotPropagate(t *testing.T) {
	outbound := &fakeOutbound{err: errors.New("broker down")}
	dispatcher, _ := notificationFixture(outbound)

	// Publish returns immediately and the failed delivery is swallowed.
	dispatcher.Publish(context.Background(), events.Event{
		ID:        "evt-2",
		Type:      events.EventPasswordResetRequested,
		Timestamp: time.Now(),
		Payload: events.PasswordResetRequestedPayload{
			UserID: 7,
			Email:  "alice@example.com",
			Token:  "one-time-token",
		},
	})
	dispatcher.Wait()

	assert.Empty(t, outbound.all())
}

func TestUnexpectedPayloadIsIgnored(t *testing.T) {
	outbound := &fakeOutbound{}
	dispatcher, _ := notificationFixture(outbound)

	dispatcher.Publish(context.Background(), events.Event{
		ID:      "evt-3",
		Type:    events.EventPasswordResetRequested,
		Payload: "not-a-payload",
	})
	dispatcher.Wait()

	assert.Empty(t, outbound.all())
}
