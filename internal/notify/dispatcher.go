package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Notification is a single out-of-band message for a recipient.
type Notification struct {
	From      string `json:"from"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// Dispatcher publishes notifications to an external delivery channel.
// Delivery is at-most-once from the caller's perspective.
type Dispatcher interface {
	Send(ctx context.Context, notification Notification) error
}

type redisDispatcher struct {
	client  *redis.Client
	channel string
}

// NewRedisDispatcher publishes notifications as JSON onto a redis channel
// consumed by the out-of-band mailer.
func NewRedisDispatcher(client *redis.Client, channel string) Dispatcher {
	return &redisDispatcher{client: client, channel: channel}
}

func (d *redisDispatcher) Send(ctx context.Context, notification Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return err
	}
	return d.client.Publish(ctx, d.channel, payload).Err()
}

type logDispatcher struct {
	logger *zap.Logger
}

// NewLogDispatcher writes notifications to the log. Used in development
// when no delivery channel is configured.
func NewLogDispatcher(logger *zap.Logger) Dispatcher {
	return &logDispatcher{logger: logger}
}

func (d *logDispatcher) Send(_ context.Context, notification Notification) error {
	d.logger.Info("notification",
		zap.String("from", notification.From),
		zap.String("recipient", notification.Recipient),
		zap.String("subject", notification.Subject),
		zap.String("body", notification.Body))
	return nil
}
